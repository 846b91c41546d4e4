package coin

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"zoracoin/pkg/errors"
)

// EtherDecimals is the fixed-point scale of the native currency
const EtherDecimals = 18

// ParseEther converts a human decimal amount ("0.1") to wei using exact
// base-10 scaling. Digits beyond the 18th fractional place are rounded half
// up. The result must be positive.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// ParseUnits is ParseEther for an arbitrary number of decimals
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, errors.NewValidationError("orderSize", "must not be empty", amount)
	}
	// decimal accepts exponents; human amounts must be plain decimals.
	if strings.ContainsAny(trimmed, "eE") {
		return nil, errors.NewValidationError("orderSize", "must be a plain decimal number", amount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, errors.NewValidationError("orderSize", "must be a decimal number", amount)
	}
	if !d.IsPositive() {
		return nil, errors.NewValidationError("orderSize", "must be positive", amount)
	}

	scaled := d.Shift(decimals).Round(0)
	if !scaled.IsPositive() {
		return nil, errors.NewValidationError("orderSize", "rounds to zero minor units", amount)
	}
	return scaled.BigInt(), nil
}

// FormatEther renders wei as a human decimal with trailing zeros trimmed
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}
