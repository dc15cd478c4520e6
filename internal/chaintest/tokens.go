package chaintest

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/dex"
	"swapDesk/internal/model"
)

var errTransferFrom = errors.New("execution reverted: TransferHelper: TRANSFER_FROM_FAILED")

// ledger is ERC20 balance and allowance state.
type ledger struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	supply     *big.Int
}

func newLedger() *ledger {
	return &ledger{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
		supply:     new(big.Int),
	}
}

func (l *ledger) balance(owner common.Address) *big.Int {
	if v, ok := l.balances[owner]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (l *ledger) allowance(owner, spender common.Address) *big.Int {
	if v, ok := l.allowances[owner][spender]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (l *ledger) setAllowance(owner, spender common.Address, amount *big.Int) {
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[common.Address]*big.Int)
	}
	l.allowances[owner][spender] = new(big.Int).Set(amount)
}

func (l *ledger) mint(to common.Address, amount *big.Int) {
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	l.supply = new(big.Int).Add(l.supply, amount)
}

// credit adds to a balance without touching supply; the counterpart is a
// pair's untracked token holdings.
func (l *ledger) credit(to common.Address, amount *big.Int) {
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
}

func (l *ledger) burn(from common.Address, amount *big.Int) error {
	bal := l.balance(from)
	if bal.Cmp(amount) < 0 {
		return errors.New("execution reverted: burn amount exceeds balance")
	}
	l.balances[from] = bal.Sub(bal, amount)
	l.supply = new(big.Int).Sub(l.supply, amount)
	return nil
}

func (l *ledger) transfer(from, to common.Address, amount *big.Int) error {
	bal := l.balance(from)
	if bal.Cmp(amount) < 0 {
		return errors.New("execution reverted: transfer amount exceeds balance")
	}
	l.balances[from] = bal.Sub(bal, amount)
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	return nil
}

// transferFrom moves amount from owner to to on behalf of spender.
func (l *ledger) transferFrom(owner, spender, to common.Address, amount *big.Int) error {
	allowed := l.allowance(owner, spender)
	if allowed.Cmp(amount) < 0 || l.balance(owner).Cmp(amount) < 0 {
		return errTransferFrom
	}
	l.setAllowance(owner, spender, allowed.Sub(allowed, amount))
	return l.transfer(owner, to, amount)
}

func (c *FakeChain) registerLedger(addr common.Address, parsed abi.ABI, l *ledger) {
	c.Handle(addr, parsed, "balanceOf", func(args []interface{}) ([]interface{}, error) {
		return []interface{}{l.balance(args[0].(common.Address))}, nil
	})
	c.Handle(addr, parsed, "allowance", func(args []interface{}) ([]interface{}, error) {
		return []interface{}{l.allowance(args[0].(common.Address), args[1].(common.Address))}, nil
	})
	c.Handle(addr, parsed, "totalSupply", func([]interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(l.supply)}, nil
	})
	c.OnTx(addr, parsed, "approve", func(from common.Address, _ *big.Int, args []interface{}) error {
		l.setAllowance(from, args[0].(common.Address), args[1].(*big.Int))
		return nil
	})
}

// Token is a fake ERC20 contract.
type Token struct {
	chain   *FakeChain
	Address common.Address
	ledger  *ledger
}

// AddToken deploys a fake ERC20 with the metadata of t.
func (c *FakeChain) AddToken(t model.Token) *Token {
	parsed, err := dex.ERC20ABI()
	if err != nil {
		panic(err)
	}
	tok := &Token{chain: c, Address: t.Address, ledger: newLedger()}
	c.mu.Lock()
	c.tokens[t.Address] = tok
	c.mu.Unlock()

	c.registerLedger(t.Address, parsed, tok.ledger)
	c.Handle(t.Address, parsed, "decimals", func([]interface{}) ([]interface{}, error) {
		return []interface{}{t.Decimals}, nil
	})
	c.Handle(t.Address, parsed, "symbol", func([]interface{}) ([]interface{}, error) {
		return []interface{}{t.Symbol}, nil
	})
	c.Handle(t.Address, parsed, "name", func([]interface{}) ([]interface{}, error) {
		return []interface{}{t.Name}, nil
	})
	return tok
}

func (t *Token) SetBalance(owner common.Address, amount *big.Int) {
	t.chain.mu.Lock()
	defer t.chain.mu.Unlock()
	cur := t.ledger.balance(owner)
	t.ledger.balances[owner] = new(big.Int).Set(amount)
	t.ledger.supply = new(big.Int).Add(new(big.Int).Sub(t.ledger.supply, cur), amount)
}

func (t *Token) Balance(owner common.Address) *big.Int {
	t.chain.mu.Lock()
	defer t.chain.mu.Unlock()
	return t.ledger.balance(owner)
}

func (t *Token) SetAllowance(owner, spender common.Address, amount *big.Int) {
	t.chain.mu.Lock()
	defer t.chain.mu.Unlock()
	t.ledger.setAllowance(owner, spender, amount)
}

func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.chain.mu.Lock()
	defer t.chain.mu.Unlock()
	return t.ledger.allowance(owner, spender)
}

// Pair is a fake constant-product pair. It is also the LP token.
type Pair struct {
	chain    *FakeChain
	Address  common.Address
	Token0   common.Address
	Token1   common.Address
	reserve0 *big.Int
	reserve1 *big.Int
	ledger   *ledger
}

// AddPair deploys a pair for tokenA/tokenB. Tokens are sorted into the pair's
// own order and the reserves follow them.
func (c *FakeChain) AddPair(addr, tokenA, tokenB common.Address, reserveA, reserveB *big.Int) *Pair {
	parsed, err := dex.PairABI()
	if err != nil {
		panic(err)
	}
	p := &Pair{chain: c, Address: addr, Token0: tokenA, Token1: tokenB,
		reserve0: new(big.Int).Set(reserveA), reserve1: new(big.Int).Set(reserveB), ledger: newLedger()}
	if tokenB.Cmp(tokenA) < 0 {
		p.Token0, p.Token1 = tokenB, tokenA
		p.reserve0, p.reserve1 = p.reserve1, p.reserve0
	}
	c.mu.Lock()
	c.pairs[addr] = p
	c.mu.Unlock()

	c.registerLedger(addr, parsed, p.ledger)
	c.Handle(addr, parsed, "token0", func([]interface{}) ([]interface{}, error) {
		return []interface{}{p.Token0}, nil
	})
	c.Handle(addr, parsed, "token1", func([]interface{}) ([]interface{}, error) {
		return []interface{}{p.Token1}, nil
	})
	c.Handle(addr, parsed, "getReserves", func([]interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(p.reserve0), new(big.Int).Set(p.reserve1), uint32(0)}, nil
	})
	return p
}

// Mint credits LP shares to owner and grows the total supply.
func (p *Pair) Mint(owner common.Address, amount *big.Int) {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	p.ledger.mint(owner, amount)
}

func (p *Pair) Balance(owner common.Address) *big.Int {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	return p.ledger.balance(owner)
}

func (p *Pair) SetAllowance(owner, spender common.Address, amount *big.Int) {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	p.ledger.setAllowance(owner, spender, amount)
}

func (p *Pair) Allowance(owner, spender common.Address) *big.Int {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	return p.ledger.allowance(owner, spender)
}

// Reserves returns the reserves in the pair's own order.
func (p *Pair) Reserves() (*big.Int, *big.Int) {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	return new(big.Int).Set(p.reserve0), new(big.Int).Set(p.reserve1)
}

// SetReserves overwrites the reserves, simulating trades by other accounts.
func (p *Pair) SetReserves(reserve0, reserve1 *big.Int) {
	p.chain.mu.Lock()
	defer p.chain.mu.Unlock()
	p.reserve0 = new(big.Int).Set(reserve0)
	p.reserve1 = new(big.Int).Set(reserve1)
}

func (p *Pair) reservesLocked(token common.Address) (*big.Int, *big.Int) {
	if token == p.Token0 {
		return p.reserve0, p.reserve1
	}
	return p.reserve1, p.reserve0
}

func (p *Pair) setReservesLocked(token common.Address, same, other *big.Int) {
	if token == p.Token0 {
		p.reserve0, p.reserve1 = same, other
		return
	}
	p.reserve1, p.reserve0 = same, other
}

// ledgerLocked returns the ERC20 state for a fake token or pair.
func (c *FakeChain) ledgerLocked(addr common.Address) (*ledger, bool) {
	if t, ok := c.tokens[addr]; ok {
		return t.ledger, true
	}
	if p, ok := c.pairs[addr]; ok {
		return p.ledger, true
	}
	return nil, false
}
