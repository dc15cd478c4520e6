package service

import (
	"fmt"
	"math/big"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/model"
	"swapDesk/internal/units"
)

func insufficientBalance(t model.Token, have, want *big.Int) error {
	return fmt.Errorf("%w: have %s %s, need %s", apperrors.ErrInsufficientBalance,
		units.FormatUnits(have, t.Decimals), t.Symbol, units.FormatUnits(want, t.Decimals))
}

// parseAmount parses a positive decimal amount for a write path.
func parseAmount(value string, decimals uint8) (*big.Int, error) {
	amount, err := units.ParseUnits(value, decimals)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidAmount)
	}
	return amount, nil
}
