// Package chain talks to the payment network RPC endpoint.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrNotConfirmed is returned when a signature is unknown or failed on chain.
	ErrNotConfirmed = errors.New("transaction not confirmed")
	// ErrTransferMismatch is returned when a confirmed transaction does not move the expected funds.
	ErrTransferMismatch = errors.New("transaction does not match transfer")
)

// Transfer is the native transfer a signature is expected to carry.
type Transfer struct {
	From     solana.PublicKey
	To       solana.PublicKey
	Lamports uint64
}

// Client is the subset of the RPC surface the service depends on.
type Client interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Balance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	VerifyTransfer(ctx context.Context, sig solana.Signature, want Transfer) error
}

// RPC is a Client backed by a JSON-RPC endpoint.
type RPC struct {
	client *rpc.Client
}

// NewRPC returns an RPC client for endpoint.
func NewRPC(endpoint string) *RPC {
	return &RPC{client: rpc.New(endpoint)}
}

func (r *RPC) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := r.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

func (r *RPC) Balance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := r.client.GetBalance(ctx, owner, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("get balance of %s: %w", owner, err)
	}
	return out.Value, nil
}

// VerifyTransfer succeeds once sig is confirmed without error and carries want.
func (r *RPC) VerifyTransfer(ctx context.Context, sig solana.Signature, want Transfer) error {
	version := uint64(0)
	out, err := r.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &version,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return ErrNotConfirmed
	}
	if err != nil {
		return fmt.Errorf("get transaction %s: %w", sig, err)
	}
	if out == nil || out.Transaction == nil {
		return ErrNotConfirmed
	}
	if out.Meta != nil && out.Meta.Err != nil {
		return fmt.Errorf("%w: %v", ErrNotConfirmed, out.Meta.Err)
	}
	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return fmt.Errorf("decode transaction %s: %w", sig, err)
	}
	return MatchTransfer(tx, want)
}

// ParsePublicKey parses a base58 wallet key.
func ParsePublicKey(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid wallet key %q: %w", s, err)
	}
	return key, nil
}

// ParseSignature parses a base58 transaction signature.
func ParseSignature(s string) (solana.Signature, error) {
	sig, err := solana.SignatureFromBase58(s)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid signature %q: %w", s, err)
	}
	return sig, nil
}
