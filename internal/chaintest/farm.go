package chaintest

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/dex"
)

type chefPool struct {
	lpToken    common.Address
	allocPoint *big.Int
	feeBP      *big.Int
	staked     map[common.Address]*big.Int
	pending    map[common.Address]*big.Int
}

// MasterChef is a fake LP staking contract. Rewards do not accrue on their
// own; tests set them with SetPending.
type MasterChef struct {
	chain          *FakeChain
	Address        common.Address
	rewardPerBlock *big.Int
	pools          []*chefPool
	// Harvested counts reward payouts per user.
	harvested map[common.Address]*big.Int
}

func (c *FakeChain) AddMasterChef(addr common.Address, rewardPerBlock *big.Int) *MasterChef {
	parsed, err := dex.MasterChefABI()
	if err != nil {
		panic(err)
	}
	m := &MasterChef{chain: c, Address: addr, rewardPerBlock: new(big.Int).Set(rewardPerBlock), harvested: make(map[common.Address]*big.Int)}

	pool := func(arg interface{}) (*chefPool, error) {
		pid := arg.(*big.Int)
		if !pid.IsInt64() || pid.Int64() >= int64(len(m.pools)) {
			return nil, errors.New("execution reverted")
		}
		return m.pools[pid.Int64()], nil
	}
	get := func(values map[common.Address]*big.Int, user common.Address) *big.Int {
		if v, ok := values[user]; ok {
			return new(big.Int).Set(v)
		}
		return new(big.Int)
	}

	c.Handle(addr, parsed, "poolLength", func([]interface{}) ([]interface{}, error) {
		return []interface{}{big.NewInt(int64(len(m.pools)))}, nil
	})
	c.Handle(addr, parsed, "poolInfo", func(args []interface{}) ([]interface{}, error) {
		p, err := pool(args[0])
		if err != nil {
			return nil, err
		}
		return []interface{}{p.lpToken, new(big.Int).Set(p.allocPoint), new(big.Int), new(big.Int), new(big.Int).Set(p.feeBP)}, nil
	})
	c.Handle(addr, parsed, "userInfo", func(args []interface{}) ([]interface{}, error) {
		p, err := pool(args[0])
		if err != nil {
			return nil, err
		}
		return []interface{}{get(p.staked, args[1].(common.Address)), new(big.Int)}, nil
	})
	c.Handle(addr, parsed, "pendingReward", func(args []interface{}) ([]interface{}, error) {
		p, err := pool(args[0])
		if err != nil {
			return nil, err
		}
		return []interface{}{get(p.pending, args[1].(common.Address))}, nil
	})
	c.Handle(addr, parsed, "rewardPerBlock", func([]interface{}) ([]interface{}, error) {
		return []interface{}{new(big.Int).Set(m.rewardPerBlock)}, nil
	})
	c.Handle(addr, parsed, "totalAllocPoint", func([]interface{}) ([]interface{}, error) {
		total := new(big.Int)
		for _, p := range m.pools {
			total.Add(total, p.allocPoint)
		}
		return []interface{}{total}, nil
	})

	c.OnTx(addr, parsed, "deposit", func(from common.Address, _ *big.Int, args []interface{}) error {
		p, err := pool(args[0])
		if err != nil {
			return err
		}
		amount := args[1].(*big.Int)
		if amount.Sign() > 0 {
			l, ok := c.ledgerLocked(p.lpToken)
			if !ok {
				return errors.New("execution reverted: unknown lp token")
			}
			if err := l.transferFrom(from, m.Address, m.Address, amount); err != nil {
				return err
			}
			p.staked[from] = new(big.Int).Add(get(p.staked, from), amount)
		}
		m.harvestLocked(p, from)
		return nil
	})
	c.OnTx(addr, parsed, "withdraw", func(from common.Address, _ *big.Int, args []interface{}) error {
		p, err := pool(args[0])
		if err != nil {
			return err
		}
		amount := args[1].(*big.Int)
		staked := get(p.staked, from)
		if staked.Cmp(amount) < 0 {
			return errors.New("execution reverted: withdraw: not good")
		}
		l, ok := c.ledgerLocked(p.lpToken)
		if !ok {
			return errors.New("execution reverted: unknown lp token")
		}
		if err := l.transfer(m.Address, from, amount); err != nil {
			return err
		}
		p.staked[from] = staked.Sub(staked, amount)
		m.harvestLocked(p, from)
		return nil
	})
	return m
}

func (m *MasterChef) harvestLocked(p *chefPool, user common.Address) {
	if v, ok := p.pending[user]; ok {
		m.harvested[user] = new(big.Int).Add(m.harvestedLocked(user), v)
	}
	p.pending[user] = new(big.Int)
}

func (m *MasterChef) harvestedLocked(user common.Address) *big.Int {
	if v, ok := m.harvested[user]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// AddPool registers lpToken and returns its pool id.
func (m *MasterChef) AddPool(lpToken common.Address, allocPoint, depositFeeBP int64) uint64 {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	m.pools = append(m.pools, &chefPool{
		lpToken:    lpToken,
		allocPoint: big.NewInt(allocPoint),
		feeBP:      big.NewInt(depositFeeBP),
		staked:     make(map[common.Address]*big.Int),
		pending:    make(map[common.Address]*big.Int),
	})
	return uint64(len(m.pools) - 1)
}

func (m *MasterChef) SetPending(pid uint64, user common.Address, amount *big.Int) {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	m.pools[pid].pending[user] = new(big.Int).Set(amount)
}

func (m *MasterChef) Staked(pid uint64, user common.Address) *big.Int {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	if v, ok := m.pools[pid].staked[user]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Harvested returns the total rewards paid out to user.
func (m *MasterChef) Harvested(user common.Address) *big.Int {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	return m.harvestedLocked(user)
}

// Badge is a fake one-per-account badge contract.
type Badge struct {
	chain   *FakeChain
	Address common.Address
	open    bool
	owners  map[common.Address]*big.Int
}

func (c *FakeChain) AddBadge(addr common.Address, open bool) *Badge {
	parsed, err := dex.BadgeABI()
	if err != nil {
		panic(err)
	}
	b := &Badge{chain: c, Address: addr, open: open, owners: make(map[common.Address]*big.Int)}
	balance := func(owner common.Address) *big.Int {
		if v, ok := b.owners[owner]; ok {
			return new(big.Int).Set(v)
		}
		return new(big.Int)
	}
	c.Handle(addr, parsed, "claimOpen", func([]interface{}) ([]interface{}, error) {
		return []interface{}{b.open}, nil
	})
	c.Handle(addr, parsed, "balanceOf", func(args []interface{}) ([]interface{}, error) {
		return []interface{}{balance(args[0].(common.Address))}, nil
	})
	c.OnTx(addr, parsed, "claim", func(from common.Address, _ *big.Int, _ []interface{}) error {
		if !b.open {
			return errors.New("execution reverted: ClaimClosed()")
		}
		if balance(from).Sign() > 0 {
			return errors.New("execution reverted: AlreadyClaimed()")
		}
		b.owners[from] = big.NewInt(1)
		return nil
	})
	return b
}

func (b *Badge) SetOpen(open bool) {
	b.chain.mu.Lock()
	b.open = open
	b.chain.mu.Unlock()
}

func (b *Badge) Give(owner common.Address) {
	b.chain.mu.Lock()
	b.owners[owner] = big.NewInt(1)
	b.chain.mu.Unlock()
}
