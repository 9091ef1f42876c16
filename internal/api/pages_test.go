package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"paychat/internal/middleware"
)

func TestPageRedirects(t *testing.T) {
	env := newEnv(t)
	env.createUser("nowallet", "a@x.com", "A", "")
	env.createUser("withwallet", "b@x.com", "B", walletKey())

	tests := []struct {
		name     string
		path     string
		uid      string
		token    string
		wantCode int
		wantLoc  string
	}{
		{"home signed out", "/", "", "", http.StatusFound, "/login"},
		{"home bad token", "/", "", "bad", http.StatusFound, "/login"},
		{"home without wallet", "/", "nowallet", "", http.StatusFound, "/wallet"},
		{"home with wallet", "/", "withwallet", "", http.StatusOK, ""},
		{"contacts without wallet", "/contacts", "nowallet", "", http.StatusFound, "/wallet"},
		{"contacts with wallet", "/contacts", "withwallet", "", http.StatusOK, ""},
		{"wallet signed out", "/wallet", "", "", http.StatusFound, "/login"},
		{"wallet without wallet", "/wallet", "nowallet", "", http.StatusOK, ""},
		{"wallet with wallet", "/wallet", "withwallet", "", http.StatusFound, "/"},
		{"login signed out", "/login", "", "", http.StatusOK, ""},
		{"login signed in", "/login", "nowallet", "", http.StatusFound, "/"},
	}

	for _, tt := range tests {
		token := tt.token
		if tt.uid != "" {
			token = env.token(tt.uid)
		}
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: token})
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, tt.wantCode, w.Code, tt.name)
		assert.Equal(t, tt.wantLoc, w.Header().Get("Location"), tt.name)
	}
}

func TestHomePage_ListsActions(t *testing.T) {
	env := newEnv(t)
	env.createUser("u1", "a@x.com", "A", walletKey())

	w := env.do(http.MethodGet, "/", env.token("u1"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Page    string   `json:"page"`
		Actions []string `json:"actions"`
	}
	decode(t, w, &body)
	assert.Equal(t, "home", body.Page)
	assert.Equal(t, []string{"transfer", "addContact", "checkBalance", "createInvoice", "splitBill"}, body.Actions)
}
