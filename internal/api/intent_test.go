package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychat/internal/domain"
	"paychat/internal/intent"
)

func TestIntentHandler(t *testing.T) {
	env := newEnv(t)
	me := env.createUser("me", "me@x.com", "Me", walletKey())
	alice := env.createUser("alice", "alice@x.com", "Alice", walletKey())
	env.addContact(me, alice)
	tok := env.token(me.UID)

	t.Run("transfer", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "Send 10 to alice"})
		require.Equal(t, http.StatusOK, w.Code)
		var resp IntentResponse
		decode(t, w, &resp)
		require.NotNil(t, resp.Action)
		assert.Equal(t, intent.Transfer, *resp.Action)
		require.NotNil(t, resp.Draft)
		assert.Equal(t, 10.0, resp.Draft.Amount)
		assert.Equal(t, domain.TypeDirect, resp.Draft.Type)
		assert.Equal(t, domain.StatusPending, resp.Draft.Status)
		assert.Equal(t, me.UID, resp.Draft.Sender.UID)
		require.NotNil(t, resp.Draft.Recipient)
		assert.Equal(t, alice.UID, resp.Draft.Recipient.UID)
		assert.Equal(t, lamports(t, 10), resp.Lamports)
	})

	t.Run("invoice", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "pay me back"})
		var resp IntentResponse
		decode(t, w, &resp)
		require.NotNil(t, resp.Action)
		assert.Equal(t, intent.CreateInvoice, *resp.Action)
		require.NotNil(t, resp.Draft)
		assert.Nil(t, resp.Draft.Sender)
		assert.Equal(t, me.UID, resp.Draft.Recipient.UID)
		assert.Equal(t, domain.TypeRequest, resp.Draft.Type)
		assert.NotZero(t, resp.Draft.Timestamp)
		assert.Zero(t, resp.Lamports)
	})

	t.Run("no draft", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "what is my balance"})
		var resp IntentResponse
		decode(t, w, &resp)
		require.NotNil(t, resp.Action)
		assert.Equal(t, intent.CheckBalance, *resp.Action)
		assert.Nil(t, resp.Draft)
	})

	t.Run("picked action", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "hello", Action: intent.CreateInvoice})
		require.Equal(t, http.StatusOK, w.Code)
		var resp IntentResponse
		decode(t, w, &resp)
		require.NotNil(t, resp.Action)
		assert.Equal(t, intent.CreateInvoice, *resp.Action)
		require.NotNil(t, resp.Draft)
		assert.Equal(t, domain.TypeRequest, resp.Draft.Type)
	})

	t.Run("unknown picked action", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "send 1", Action: "dance"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unknown action", errorOf(t, w))
	})

	t.Run("amount too large", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "send 1000000000000 to alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Amount is too large", errorOf(t, w))
	})

	t.Run("unrecognized", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/intent", tok, IntentRequest{Input: "hello there"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"action":null}`, w.Body.String())
	})
}
