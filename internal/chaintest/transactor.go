package chaintest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SentTx is a transaction accepted by a FakeTransactor.
type SentTx struct {
	Hash   common.Hash
	To     common.Address
	Method string
	Args   []interface{}
	Value  *big.Int
}

// FakeTransactor implements chain.Transactor against a FakeChain. Effects are
// applied at submission; receipts are served on the first lookup unless
// withheld.
type FakeTransactor struct {
	chain *FakeChain
	from  common.Address

	mu       sync.Mutex
	nonce    uint64
	sent     []SentTx
	events   []string
	receipts map[common.Hash]*types.Receipt
	methods  map[common.Hash]string
	withhold map[string]bool
	reverts  map[string]bool
	rejects  map[string]error
}

func NewFakeTransactor(chain *FakeChain, from common.Address) *FakeTransactor {
	return &FakeTransactor{
		chain:    chain,
		from:     from,
		receipts: make(map[common.Hash]*types.Receipt),
		methods:  make(map[common.Hash]string),
		withhold: make(map[string]bool),
		reverts:  make(map[string]bool),
		rejects:  make(map[string]error),
	}
}

func (t *FakeTransactor) From() common.Address { return t.from }

// WithholdReceipt makes receipts for method never appear, simulating a lost
// confirmation. The effect is still applied.
func (t *FakeTransactor) WithholdReceipt(method string) {
	t.mu.Lock()
	t.withhold[method] = true
	t.mu.Unlock()
}

// RevertOnMine makes method mine with a failed status and no effect.
func (t *FakeTransactor) RevertOnMine(method string) {
	t.mu.Lock()
	t.reverts[method] = true
	t.mu.Unlock()
}

// RejectSend makes submission of method fail with err, as a signer refusal would.
func (t *FakeTransactor) RejectSend(method string, err error) {
	t.mu.Lock()
	t.rejects[method] = err
	t.mu.Unlock()
}

func (t *FakeTransactor) Transact(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	method, args, err := t.chain.submit(t.from, to, data, value, true)
	if err != nil {
		return common.Hash{}, err
	}
	if err := t.rejects[method]; err != nil {
		return common.Hash{}, err
	}
	status := types.ReceiptStatusSuccessful
	if t.reverts[method] {
		status = types.ReceiptStatusFailed
	} else if _, _, err := t.chain.submit(t.from, to, data, value, false); err != nil {
		return common.Hash{}, err
	}

	t.nonce++
	hash := common.BigToHash(new(big.Int).SetUint64(t.nonce))
	if value == nil {
		value = new(big.Int)
	}
	t.sent = append(t.sent, SentTx{Hash: hash, To: to, Method: method, Args: args, Value: new(big.Int).Set(value)})
	t.events = append(t.events, "send:"+method)
	t.methods[hash] = method
	if !t.withhold[method] {
		t.receipts[hash] = &types.Receipt{
			TxHash:      hash,
			Status:      status,
			BlockNumber: new(big.Int).SetUint64(t.nonce),
		}
	}
	return hash, nil
}

func (t *FakeTransactor) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	receipt, ok := t.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	t.events = append(t.events, "receipt:"+t.methods[hash])
	return receipt, nil
}

// Sent returns the accepted transactions in submission order.
func (t *FakeTransactor) Sent() []SentTx {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SentTx(nil), t.sent...)
}

// Events returns the send/receipt log, e.g. "send:approve", "receipt:approve".
func (t *FakeTransactor) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}
