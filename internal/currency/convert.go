package currency

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Currency is the unit an amount is expressed in
type Currency string

const (
	SOL  Currency = "SOL"
	USDC Currency = "USDC"
)

// SOLToUSDC is the fixed number of stablecoin units per native token unit
const SOLToUSDC = 22.15815322

// ParseCurrency accepts SOL or USDC in any case
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case SOL, USDC:
		return c, nil
	default:
		return "", fmt.Errorf("unknown currency %q", s)
	}
}

// Convert converts amount out of from into the other currency. No rounding.
func Convert(amount float64, from Currency) float64 {
	if from == SOL {
		return amount * SOLToUSDC
	}
	return amount * (1 / SOLToUSDC)
}

// ErrAmountTooLarge is returned when an amount does not fit in native base units
var ErrAmountTooLarge = errors.New("amount too large")

var maxLamports = decimal.NewFromUint64(math.MaxUint64)

// ToLamports converts a stablecoin amount into native base units, rounded half away from zero.
// Negative amounts give 0.
func ToLamports(usdc float64) (uint64, error) {
	sol := Convert(usdc, USDC)
	if math.IsNaN(sol) || math.IsInf(sol, 0) {
		return 0, ErrAmountTooLarge
	}
	lamports := decimal.NewFromFloat(sol).Mul(decimal.NewFromUint64(solana.LAMPORTS_PER_SOL)).Round(0)
	if lamports.IsNegative() {
		return 0, nil
	}
	if lamports.GreaterThan(maxLamports) {
		return 0, fmt.Errorf("%w: %v", ErrAmountTooLarge, usdc)
	}
	return lamports.BigInt().Uint64(), nil
}

// LamportsToSOL converts native base units into whole native units
func LamportsToSOL(lamports uint64) float64 {
	f, _ := decimal.NewFromUint64(lamports).
		Div(decimal.NewFromUint64(solana.LAMPORTS_PER_SOL)).
		Float64()
	return f
}

// LamportsToUSDC converts native base units into stablecoin units
func LamportsToUSDC(lamports uint64) float64 {
	return Convert(LamportsToSOL(lamports), SOL)
}
