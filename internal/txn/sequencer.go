// Package txn sequences allowance approvals and state-changing calls from a
// single signer, waiting for each confirmation before the next submission.
package txn

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/chain"
	"swapDesk/internal/dex"
)

// ApprovalHeadroom is the multiple of the required amount requested when an
// allowance has to be raised.
const ApprovalHeadroom = 2

// Config holds confirmation wait settings.
type Config struct {
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
	// SettleDelay is waited after a receipt timeout before the state probe runs.
	SettleDelay time.Duration
}

// DefaultConfig returns the wait settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		ReceiptTimeout: 2 * time.Minute,
		PollInterval:   2 * time.Second,
		SettleDelay:    5 * time.Second,
	}
}

// Verify probes chain state to decide whether an action took effect when its
// receipt was not observed.
type Verify func(ctx context.Context) (bool, error)

// Action is one state-changing call.
type Action struct {
	Name   string
	To     common.Address
	Data   []byte
	Value  *big.Int
	Verify Verify
}

// Approval is an allowance the signer must hold before an action.
type Approval struct {
	Token   common.Address
	Spender common.Address
	Amount  *big.Int
}

// Result describes a submitted action.
type Result struct {
	Name    string
	Hash    common.Hash
	Receipt *types.Receipt
	// Verified is set when the receipt was lost and the state probe confirmed the action.
	Verified bool
}

// Sequencer submits actions one at a time for a single signer.
type Sequencer struct {
	tx     chain.Transactor
	caller chain.Caller
	cfg    Config
	logger *zap.Logger

	// mu serializes writes so nonces never race.
	mu sync.Mutex
}

func NewSequencer(tx chain.Transactor, caller chain.Caller, cfg Config, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = def.ReceiptTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	return &Sequencer{tx: tx, caller: caller, cfg: cfg, logger: logger}
}

// From returns the signing account.
func (s *Sequencer) From() common.Address {
	return s.tx.From()
}

// Run raises each allowance that is short, then submits action. The action is
// never submitted unless every approval has been confirmed.
func (s *Sequencer) Run(ctx context.Context, approvals []Approval, action Action) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []Result
	for _, approval := range approvals {
		res, err := s.ensureAllowance(ctx, approval)
		if err != nil {
			return results, err
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	res, err := s.execute(ctx, action)
	if res != nil {
		results = append(results, *res)
	}
	return results, err
}

// EnsureAllowance approves ApprovalHeadroom times the required amount when the
// current allowance is below it. It returns nil when no approval was needed.
func (s *Sequencer) EnsureAllowance(ctx context.Context, approval Approval) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureAllowance(ctx, approval)
}

// Execute submits a single action and waits for its confirmation.
func (s *Sequencer) Execute(ctx context.Context, action Action) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.execute(ctx, action)
}

func (s *Sequencer) ensureAllowance(ctx context.Context, approval Approval) (*Result, error) {
	owner := s.tx.From()
	token := dex.NewERC20(s.caller, approval.Token)
	current, err := token.Allowance(ctx, owner, approval.Spender)
	if err != nil {
		return nil, apperrors.Classify("allowance", err)
	}
	if current.Cmp(approval.Amount) >= 0 {
		return nil, nil
	}

	amount := new(big.Int).Mul(approval.Amount, big.NewInt(ApprovalHeadroom))
	data, err := dex.PackApprove(approval.Spender, amount)
	if err != nil {
		return nil, apperrors.New("approve", apperrors.ErrInvalidAmount, err)
	}
	s.logger.Info("approving token",
		zap.String("token", approval.Token.Hex()),
		zap.String("spender", approval.Spender.Hex()),
		zap.String("current", current.String()),
		zap.String("amount", amount.String()),
	)
	return s.execute(ctx, Action{
		Name: "approve",
		To:   approval.Token,
		Data: data,
		Verify: func(ctx context.Context) (bool, error) {
			allowance, err := token.Allowance(ctx, owner, approval.Spender)
			if err != nil {
				return false, err
			}
			return allowance.Cmp(approval.Amount) >= 0, nil
		},
	})
}

func (s *Sequencer) execute(ctx context.Context, action Action) (*Result, error) {
	hash, err := s.tx.Transact(ctx, action.To, action.Data, action.Value)
	if err != nil {
		return nil, apperrors.Classify(action.Name, err)
	}
	res := &Result{Name: action.Name, Hash: hash}
	log := s.logger.With(zap.String("action", action.Name), zap.String("tx", hash.Hex()))
	log.Info("transaction submitted")

	receipt, err := chain.WaitReceipt(ctx, s.tx, hash, s.cfg.ReceiptTimeout, s.cfg.PollInterval)
	switch {
	case errors.Is(err, chain.ErrReceiptTimeout):
		log.Warn("receipt not observed, checking state", zap.Duration("timeout", s.cfg.ReceiptTimeout))
		return s.fallback(ctx, action, res, log)
	case err != nil:
		return res, apperrors.Classify(action.Name, err)
	}

	res.Receipt = receipt
	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Warn("transaction reverted", zap.String("block", receipt.BlockNumber.String()))
		return res, apperrors.New(action.Name, apperrors.ErrReverted, fmt.Errorf("transaction %s reverted", hash.Hex()))
	}
	log.Info("transaction confirmed", zap.String("block", receipt.BlockNumber.String()))
	return res, nil
}

// fallback decides the outcome of an action whose receipt was lost. Absence of
// a receipt is not treated as failure.
func (s *Sequencer) fallback(ctx context.Context, action Action, res *Result, log *zap.Logger) (*Result, error) {
	pending := apperrors.New(action.Name, apperrors.ErrConfirmationPending,
		fmt.Errorf("transaction may still be processing, hash %s", res.Hash.Hex()))
	if action.Verify == nil {
		return res, pending
	}

	if s.cfg.SettleDelay > 0 {
		timer := time.NewTimer(s.cfg.SettleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return res, apperrors.Classify(action.Name, ctx.Err())
		case <-timer.C:
		}
	}

	ok, err := action.Verify(ctx)
	if err != nil {
		log.Warn("state check failed", zap.Error(err))
		return res, pending
	}
	if !ok {
		return res, pending
	}
	log.Info("state check confirmed transaction")
	res.Verified = true
	return res, nil
}
