// Package service exposes the quoting, transaction and listing operations
// of the exchange over a shared chain handle.
package service

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapDesk/internal/amm"
	"swapDesk/internal/chain"
	"swapDesk/internal/estimate"
	"swapDesk/internal/model"
	"swapDesk/internal/txn"
)

// LPDecimals is the decimals of every pair's LP token.
const LPDecimals = 18

// ErrNoSigner is returned by write operations on a read-only Env.
var ErrNoSigner = errors.New("no signer configured")

// Contracts are the deployed addresses the services talk to.
type Contracts struct {
	Router        common.Address
	Factory       common.Address
	WrappedNative common.Address
	MasterChef    common.Address
	Badge         common.Address
	RewardToken   common.Address
}

// Options tune quoting and scanning.
type Options struct {
	Slippage     amm.Tolerance
	Deadline     time.Duration
	Window       ScanWindow
	BlocksPerDay uint64
}

// DefaultOptions returns 0.5% slippage, a 20 minute deadline, a 20 pair scan
// window and 3s blocks.
func DefaultOptions() Options {
	return Options{
		Slippage:     amm.DefaultTolerance,
		Deadline:     amm.DefaultDeadlineWindow,
		Window:       ScanWindow{Size: DefaultScanSize},
		BlocksPerDay: 28800,
	}
}

// Env is the handle shared by all services. Seq is nil for read-only use.
type Env struct {
	Caller    chain.Caller
	Seq       *txn.Sequencer
	Contracts Contracts
	Tokens    *TokenList
	Estimator estimate.Estimator
	Options   Options
	Now       func() time.Time
	Logger    *zap.Logger
}

func (e *Env) init() {
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Estimator == nil {
		e.Estimator = estimate.NewPlaceholder()
	}
	if e.Tokens == nil {
		e.Tokens = NewTokenList(nil, e.Contracts.WrappedNative)
	}
	def := DefaultOptions()
	if e.Options.Deadline <= 0 {
		e.Options.Deadline = def.Deadline
	}
	if e.Options.Window.Size == 0 {
		e.Options.Window.Size = def.Window.Size
	}
	if e.Options.BlocksPerDay == 0 {
		e.Options.BlocksPerDay = def.BlocksPerDay
	}
}

// chainAddress maps a token to the account used in contract calls. This is
// the only place the native sentinel is translated.
func (e *Env) chainAddress(t model.Token) common.Address {
	if t.IsNative() {
		return e.Contracts.WrappedNative
	}
	return t.Address
}

func (e *Env) deadline() *big.Int {
	return amm.Deadline(e.Now(), e.Options.Deadline)
}

func (e *Env) signer() (*txn.Sequencer, error) {
	if e.Seq == nil {
		return nil, ErrNoSigner
	}
	return e.Seq, nil
}

func (e *Env) tolerance(override *amm.Tolerance) amm.Tolerance {
	if override != nil {
		return *override
	}
	return e.Options.Slippage
}
