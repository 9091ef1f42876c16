package chain

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// BuildTransfer builds the unsigned system transfer of lamports from -> to.
// The sender pays the fee.
func BuildTransfer(from, to solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, from, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("build transfer: %w", err)
	}
	return tx, nil
}

// Encode serializes tx to base64 wire format for a wallet to sign.
func Encode(tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// MatchTransfer reports whether tx contains a system transfer of exactly
// want.Lamports from want.From to want.To.
func MatchTransfer(tx *solana.Transaction, want Transfer) error {
	for _, inst := range tx.Message.Instructions {
		programID, err := tx.Message.ResolveProgramIDIndex(inst.ProgramIDIndex)
		if err != nil || !programID.Equals(solana.SystemProgramID) {
			continue
		}
		accounts, err := inst.ResolveInstructionAccounts(&tx.Message)
		if err != nil {
			continue
		}
		decoded, err := system.DecodeInstruction(accounts, inst.Data)
		if err != nil {
			continue
		}
		transfer, ok := decoded.Impl.(*system.Transfer)
		if !ok || transfer.Lamports == nil {
			continue
		}
		if *transfer.Lamports == want.Lamports &&
			transfer.GetFundingAccount().PublicKey.Equals(want.From) &&
			transfer.GetRecipientAccount().PublicKey.Equals(want.To) {
			return nil
		}
	}
	return ErrTransferMismatch
}
