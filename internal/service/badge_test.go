package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapDesk/internal/apperrors"
)

func TestBadgeClaim(t *testing.T) {
	fx := newFixture(t)
	svc := NewBadgeService(fx.env)
	ctx := context.Background()

	status, err := svc.Status(ctx, user)
	require.NoError(t, err)
	assert.True(t, status.ClaimOpen)
	assert.False(t, status.HasClaimed)

	res, err := svc.Claim(ctx)
	require.NoError(t, err)
	assert.Equal(t, "claim badge", res.Name)

	status, err = svc.Status(ctx, user)
	require.NoError(t, err)
	assert.True(t, status.HasClaimed)

	_, err = svc.Claim(ctx)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyClaimed)
	assert.Len(t, fx.tx.Sent(), 1)
}

func TestBadgeClaimClosed(t *testing.T) {
	fx := newFixture(t)
	fx.badge.SetOpen(false)
	svc := NewBadgeService(fx.env)

	_, err := svc.Claim(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrClaimClosed)
	assert.Empty(t, fx.tx.Sent())
}

func TestBadgeClaimLostReceipt(t *testing.T) {
	fx := newFixture(t)
	fx.tx.WithholdReceipt("claim")
	svc := NewBadgeService(fx.env)

	res, err := svc.Claim(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestBadgeStatusNetworkFailure(t *testing.T) {
	fx := newFixture(t)
	fx.chain.FailCalls(errDial)
	svc := NewBadgeService(fx.env)

	_, err := svc.Status(context.Background(), user)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}
