package chaintest

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/dex"
)

// Factory is a fake pair registry.
type Factory struct {
	chain   *FakeChain
	Address common.Address
	pairs   []*Pair
}

func (c *FakeChain) AddFactory(addr common.Address) *Factory {
	parsed, err := dex.FactoryABI()
	if err != nil {
		panic(err)
	}
	f := &Factory{chain: c, Address: addr}
	c.Handle(addr, parsed, "allPairsLength", func([]interface{}) ([]interface{}, error) {
		return []interface{}{big.NewInt(int64(len(f.pairs)))}, nil
	})
	c.Handle(addr, parsed, "allPairs", func(args []interface{}) ([]interface{}, error) {
		i := args[0].(*big.Int)
		if !i.IsInt64() || i.Int64() >= int64(len(f.pairs)) {
			return nil, errors.New("execution reverted")
		}
		return []interface{}{f.pairs[i.Int64()].Address}, nil
	})
	c.Handle(addr, parsed, "getPair", func(args []interface{}) ([]interface{}, error) {
		if p := f.findLocked(args[0].(common.Address), args[1].(common.Address)); p != nil {
			return []interface{}{p.Address}, nil
		}
		return []interface{}{common.Address{}}, nil
	})
	return f
}

// Register appends p to the registry.
func (f *Factory) Register(p *Pair) {
	f.chain.mu.Lock()
	f.pairs = append(f.pairs, p)
	f.chain.mu.Unlock()
}

func (f *Factory) findLocked(a, b common.Address) *Pair {
	for _, p := range f.pairs {
		if (p.Token0 == a && p.Token1 == b) || (p.Token0 == b && p.Token1 == a) {
			return p
		}
	}
	return nil
}

// getAmountOut is the constant-product output with the 0.3% fee.
func getAmountOut(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	withFee := new(big.Int).Mul(amountIn, big.NewInt(997))
	num := new(big.Int).Mul(withFee, reserveOut)
	den := new(big.Int).Add(new(big.Int).Mul(reserveIn, big.NewInt(1000)), withFee)
	return num.Div(num, den)
}

// Router is a fake periphery router over a Factory. Native legs are settled
// against the wrapped token's reserves.
type Router struct {
	chain   *FakeChain
	Address common.Address
	factory *Factory
	weth    common.Address
}

func (c *FakeChain) AddRouter(addr common.Address, factory *Factory, weth common.Address) *Router {
	parsed, err := dex.RouterABI()
	if err != nil {
		panic(err)
	}
	r := &Router{chain: c, Address: addr, factory: factory, weth: weth}

	c.Handle(addr, parsed, "getAmountsOut", func(args []interface{}) ([]interface{}, error) {
		amounts, err := r.amountsOutLocked(args[0].(*big.Int), args[1].([]common.Address))
		if err != nil {
			return nil, err
		}
		return []interface{}{amounts}, nil
	})

	c.OnTx(addr, parsed, "swapExactTokensForTokens", func(from common.Address, _ *big.Int, args []interface{}) error {
		return r.swapLocked(from, args[0].(*big.Int), args[1].(*big.Int), args[2].([]common.Address), args[3].(common.Address), args[4].(*big.Int), false, false)
	})
	c.OnTx(addr, parsed, "swapExactETHForTokens", func(from common.Address, value *big.Int, args []interface{}) error {
		return r.swapLocked(from, value, args[0].(*big.Int), args[1].([]common.Address), args[2].(common.Address), args[3].(*big.Int), true, false)
	})
	c.OnTx(addr, parsed, "swapExactTokensForETH", func(from common.Address, _ *big.Int, args []interface{}) error {
		return r.swapLocked(from, args[0].(*big.Int), args[1].(*big.Int), args[2].([]common.Address), args[3].(common.Address), args[4].(*big.Int), false, true)
	})

	c.OnTx(addr, parsed, "addLiquidity", func(from common.Address, _ *big.Int, args []interface{}) error {
		return r.addLocked(from, args[0].(common.Address), args[1].(common.Address),
			args[2].(*big.Int), args[3].(*big.Int), args[4].(*big.Int), args[5].(*big.Int), args[6].(common.Address), args[7].(*big.Int), false)
	})
	c.OnTx(addr, parsed, "addLiquidityETH", func(from common.Address, value *big.Int, args []interface{}) error {
		return r.addLocked(from, args[0].(common.Address), r.weth,
			args[1].(*big.Int), value, args[2].(*big.Int), args[3].(*big.Int), args[4].(common.Address), args[5].(*big.Int), true)
	})

	c.OnTx(addr, parsed, "removeLiquidity", func(from common.Address, _ *big.Int, args []interface{}) error {
		return r.removeLocked(from, args[0].(common.Address), args[1].(common.Address),
			args[2].(*big.Int), args[3].(*big.Int), args[4].(*big.Int), args[5].(common.Address), args[6].(*big.Int), false)
	})
	c.OnTx(addr, parsed, "removeLiquidityETH", func(from common.Address, _ *big.Int, args []interface{}) error {
		return r.removeLocked(from, args[0].(common.Address), r.weth,
			args[1].(*big.Int), args[2].(*big.Int), args[3].(*big.Int), args[4].(common.Address), args[5].(*big.Int), true)
	})
	return r
}

func (r *Router) amountsOutLocked(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if len(path) < 2 {
		return nil, errors.New("execution reverted: UniswapV2Library: INVALID_PATH")
	}
	amounts := []*big.Int{new(big.Int).Set(amountIn)}
	for i := 0; i < len(path)-1; i++ {
		p := r.factory.findLocked(path[i], path[i+1])
		if p == nil {
			return nil, errors.New("execution reverted")
		}
		reserveIn, reserveOut := p.reservesLocked(path[i])
		if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
			return nil, errors.New("execution reverted: UniswapV2Library: INSUFFICIENT_LIQUIDITY")
		}
		amounts = append(amounts, getAmountOut(amounts[i], reserveIn, reserveOut))
	}
	return amounts, nil
}

func checkDeadline(deadline *big.Int) error {
	if deadline.Cmp(big.NewInt(time.Now().Unix())) < 0 {
		return errors.New("execution reverted: UniswapV2Router: EXPIRED")
	}
	return nil
}

func (r *Router) ledgerFor(token common.Address) (*ledger, error) {
	l, ok := r.chain.ledgerLocked(token)
	if !ok {
		return nil, fmt.Errorf("execution reverted: no token at %s", token.Hex())
	}
	return l, nil
}

// canPull reports whether router may transferFrom amount of token from owner.
func (r *Router) canPull(token, owner common.Address, amount *big.Int) error {
	l, err := r.ledgerFor(token)
	if err != nil {
		return err
	}
	if l.allowance(owner, r.Address).Cmp(amount) < 0 || l.balance(owner).Cmp(amount) < 0 {
		return errTransferFrom
	}
	return nil
}

func (r *Router) swapLocked(from common.Address, amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int, nativeIn, nativeOut bool) error {
	if err := checkDeadline(deadline); err != nil {
		return err
	}
	if len(path) != 2 {
		return errors.New("execution reverted: multi-hop not supported")
	}
	if (nativeIn && path[0] != r.weth) || (nativeOut && path[1] != r.weth) {
		return errors.New("execution reverted: UniswapV2Router: INVALID_PATH")
	}
	amounts, err := r.amountsOutLocked(amountIn, path)
	if err != nil {
		return err
	}
	out := amounts[len(amounts)-1]
	if out.Cmp(amountOutMin) < 0 {
		return errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT")
	}
	p := r.factory.findLocked(path[0], path[1])

	if nativeIn {
		r.chain.addNativeLocked(from, new(big.Int).Neg(amountIn))
	} else {
		if err := r.canPull(path[0], from, amountIn); err != nil {
			return err
		}
		l, _ := r.ledgerFor(path[0])
		if err := l.transferFrom(from, r.Address, p.Address, amountIn); err != nil {
			return err
		}
	}

	if nativeOut {
		r.chain.addNativeLocked(to, out)
	} else {
		l, err := r.ledgerFor(path[1])
		if err != nil {
			return err
		}
		l.credit(to, out)
	}

	reserveIn, reserveOut := p.reservesLocked(path[0])
	p.setReservesLocked(path[0], new(big.Int).Add(reserveIn, amountIn), new(big.Int).Sub(reserveOut, out))
	return nil
}

func (r *Router) addLocked(from, tokenA, tokenB common.Address, amountA, amountB, minA, minB *big.Int, to common.Address, deadline *big.Int, nativeB bool) error {
	if err := checkDeadline(deadline); err != nil {
		return err
	}
	p := r.factory.findLocked(tokenA, tokenB)
	if p == nil {
		return errors.New("execution reverted: pair not created")
	}
	if amountA.Cmp(minA) < 0 {
		return errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_A_AMOUNT")
	}
	if amountB.Cmp(minB) < 0 {
		return errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_B_AMOUNT")
	}
	if err := r.canPull(tokenA, from, amountA); err != nil {
		return err
	}
	if !nativeB {
		if err := r.canPull(tokenB, from, amountB); err != nil {
			return err
		}
	}

	reserveA, reserveB := p.reservesLocked(tokenA)
	supply := p.ledger.supply
	var liquidity *big.Int
	if supply.Sign() == 0 || reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		liquidity = new(big.Int).Sqrt(new(big.Int).Mul(amountA, amountB))
	} else {
		liqA := new(big.Int).Div(new(big.Int).Mul(amountA, supply), reserveA)
		liqB := new(big.Int).Div(new(big.Int).Mul(amountB, supply), reserveB)
		liquidity = liqA
		if liqB.Cmp(liqA) < 0 {
			liquidity = liqB
		}
	}
	if liquidity.Sign() == 0 {
		return errors.New("execution reverted: UniswapV2: INSUFFICIENT_LIQUIDITY_MINTED")
	}

	la, _ := r.ledgerFor(tokenA)
	if err := la.transferFrom(from, r.Address, p.Address, amountA); err != nil {
		return err
	}
	if nativeB {
		r.chain.addNativeLocked(from, new(big.Int).Neg(amountB))
	} else {
		lb, _ := r.ledgerFor(tokenB)
		if err := lb.transferFrom(from, r.Address, p.Address, amountB); err != nil {
			return err
		}
	}
	p.ledger.mint(to, liquidity)
	p.setReservesLocked(tokenA, new(big.Int).Add(reserveA, amountA), new(big.Int).Add(reserveB, amountB))
	return nil
}

func (r *Router) removeLocked(from, tokenA, tokenB common.Address, liquidity, minA, minB *big.Int, to common.Address, deadline *big.Int, nativeB bool) error {
	if err := checkDeadline(deadline); err != nil {
		return err
	}
	p := r.factory.findLocked(tokenA, tokenB)
	if p == nil {
		return errors.New("execution reverted: pair not created")
	}
	supply := p.ledger.supply
	if supply.Sign() == 0 {
		return errors.New("execution reverted: UniswapV2: INSUFFICIENT_LIQUIDITY_BURNED")
	}
	reserveA, reserveB := p.reservesLocked(tokenA)
	amountA := new(big.Int).Div(new(big.Int).Mul(liquidity, reserveA), supply)
	amountB := new(big.Int).Div(new(big.Int).Mul(liquidity, reserveB), supply)
	if amountA.Cmp(minA) < 0 {
		return errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_A_AMOUNT")
	}
	if amountB.Cmp(minB) < 0 {
		return errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_B_AMOUNT")
	}
	if err := p.ledger.transferFrom(from, r.Address, p.Address, liquidity); err != nil {
		return err
	}
	if err := p.ledger.burn(p.Address, liquidity); err != nil {
		return err
	}

	la, err := r.ledgerFor(tokenA)
	if err != nil {
		return err
	}
	la.credit(to, amountA)
	if nativeB {
		r.chain.addNativeLocked(to, amountB)
	} else {
		lb, err := r.ledgerFor(tokenB)
		if err != nil {
			return err
		}
		lb.credit(to, amountB)
	}
	p.setReservesLocked(tokenA, new(big.Int).Sub(reserveA, amountA), new(big.Int).Sub(reserveB, amountB))
	return nil
}
