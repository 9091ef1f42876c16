package chain

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransfer(t *testing.T) {
	t.Parallel()

	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{1, 2, 3}

	tx, err := BuildTransfer(from, to, 4_513_011_486, blockhash)
	require.NoError(t, err)

	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, from, tx.Message.AccountKeys[0], "fee payer first")
	assert.Contains(t, tx.Message.AccountKeys, to)
	assert.Contains(t, tx.Message.AccountKeys, solana.SystemProgramID)

	data := tx.Message.Instructions[0].Data
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]), "transfer instruction")
	assert.Equal(t, uint64(4_513_011_486), binary.LittleEndian.Uint64(data[4:]))

	encoded, err := Encode(tx)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestParseKeys(t *testing.T) {
	t.Parallel()

	key := solana.NewWallet().PublicKey()
	got, err := ParsePublicKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = ParsePublicKey("not-a-key")
	assert.Error(t, err)

	_, err = ParseSignature("0OIl")
	assert.Error(t, err)
}

func TestMatchTransfer(t *testing.T) {
	t.Parallel()

	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	tx, err := BuildTransfer(from, to, 1_000, solana.Hash{4})
	require.NoError(t, err)

	assert.NoError(t, MatchTransfer(tx, Transfer{From: from, To: to, Lamports: 1_000}))

	tests := []struct {
		name string
		want Transfer
	}{
		{"amount", Transfer{From: from, To: to, Lamports: 999}},
		{"recipient", Transfer{From: from, To: other, Lamports: 1_000}},
		{"sender", Transfer{From: other, To: to, Lamports: 1_000}},
		{"reversed", Transfer{From: to, To: from, Lamports: 1_000}},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, MatchTransfer(tx, tt.want), ErrTransferMismatch, tt.name)
	}
}

func TestMatchTransfer_IgnoresOtherPrograms(t *testing.T) {
	t.Parallel()

	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{solana.Meta(from).SIGNER()}, []byte("hi")),
		},
		solana.Hash{5},
		solana.TransactionPayer(from),
	)
	require.NoError(t, err)

	assert.ErrorIs(t, MatchTransfer(tx, Transfer{From: from, To: to, Lamports: 1}), ErrTransferMismatch)
}
