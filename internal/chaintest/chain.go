// Package chaintest provides an in-memory EVM stand-in for tests. Calls are
// decoded with the real contract ABIs and dispatched to per-method handlers.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Handler answers a view call with ABI output values.
type Handler func(args []interface{}) ([]interface{}, error)

// Effect applies a submitted transaction to the fake state. A returned error
// rejects the transaction at submission, as gas estimation would.
type Effect func(from common.Address, value *big.Int, args []interface{}) error

type contract struct {
	abi      abi.ABI
	handlers map[string]Handler
	effects  map[string]Effect
}

// FakeChain implements chain.Caller. Handlers and effects run under one lock,
// so they must not call back into the FakeChain.
type FakeChain struct {
	mu        sync.Mutex
	contracts map[common.Address]*contract
	native    map[common.Address]*big.Int
	tokens    map[common.Address]*Token
	pairs     map[common.Address]*Pair
	calls     map[string]int
	total     int
	failWith  error
}

func NewFakeChain() *FakeChain {
	return &FakeChain{
		contracts: make(map[common.Address]*contract),
		native:    make(map[common.Address]*big.Int),
		tokens:    make(map[common.Address]*Token),
		pairs:     make(map[common.Address]*Pair),
		calls:     make(map[string]int),
	}
}

func (c *FakeChain) contractLocked(addr common.Address, parsed abi.ABI) *contract {
	ct, ok := c.contracts[addr]
	if !ok {
		ct = &contract{abi: parsed, handlers: make(map[string]Handler), effects: make(map[string]Effect)}
		c.contracts[addr] = ct
	}
	return ct
}

// Handle registers a view handler for method on addr.
func (c *FakeChain) Handle(addr common.Address, parsed abi.ABI, method string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contractLocked(addr, parsed).handlers[method] = h
}

// OnTx registers the state change applied when method is submitted to addr.
func (c *FakeChain) OnTx(addr common.Address, parsed abi.ABI, method string, e Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contractLocked(addr, parsed).effects[method] = e
}

// FailCalls makes every subsequent read fail with err; nil restores normal operation.
func (c *FakeChain) FailCalls(err error) {
	c.mu.Lock()
	c.failWith = err
	c.mu.Unlock()
}

// Calls returns the number of reads served so far.
func (c *FakeChain) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// CallsTo returns the number of eth_call requests for method.
func (c *FakeChain) CallsTo(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// SetNative sets the native balance of account.
func (c *FakeChain) SetNative(account common.Address, amount *big.Int) {
	c.mu.Lock()
	c.native[account] = new(big.Int).Set(amount)
	c.mu.Unlock()
}

// Native returns the native balance of account.
func (c *FakeChain) Native(account common.Address) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nativeLocked(account)
}

func (c *FakeChain) nativeLocked(account common.Address) *big.Int {
	if v, ok := c.native[account]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (c *FakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if c.failWith != nil {
		return nil, c.failWith
	}
	if msg.To == nil {
		return nil, errors.New("missing call target")
	}
	ct, method, args, err := c.decodeLocked(*msg.To, msg.Data)
	if err != nil {
		return nil, err
	}
	c.calls[method.Name]++

	h, ok := ct.handlers[method.Name]
	if !ok {
		return nil, fmt.Errorf("execution reverted: no handler for %s on %s", method.Name, msg.To.Hex())
	}
	out, err := h(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func (c *FakeChain) BalanceAt(ctx context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	if c.failWith != nil {
		return nil, c.failWith
	}
	return c.nativeLocked(account), nil
}

func (c *FakeChain) decodeLocked(to common.Address, data []byte) (*contract, *abi.Method, []interface{}, error) {
	ct, ok := c.contracts[to]
	if !ok {
		return nil, nil, nil, fmt.Errorf("execution reverted: no contract at %s", to.Hex())
	}
	if len(data) < 4 {
		return nil, nil, nil, errors.New("execution reverted: short calldata")
	}
	method, err := ct.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("execution reverted: %w", err)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unpack %s: %w", method.Name, err)
	}
	return ct, method, args, nil
}

// submit decodes a transaction and applies its effect. Calls without a
// registered effect succeed with no state change.
func (c *FakeChain) submit(from, to common.Address, data []byte, value *big.Int, skipEffect bool) (string, []interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ct, method, args, err := c.decodeLocked(to, data)
	if err != nil {
		return "", nil, err
	}
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() > 0 {
		if c.nativeLocked(from).Cmp(value) < 0 {
			return method.Name, args, errors.New("insufficient funds for gas * price + value")
		}
	}
	if skipEffect {
		return method.Name, args, nil
	}
	if e, ok := ct.effects[method.Name]; ok {
		if err := e(from, value, args); err != nil {
			return method.Name, args, err
		}
	}
	return method.Name, args, nil
}

func (c *FakeChain) addNativeLocked(account common.Address, delta *big.Int) {
	c.native[account] = new(big.Int).Add(c.nativeLocked(account), delta)
}
