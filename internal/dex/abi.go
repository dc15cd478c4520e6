package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const routerABIJSON = `[
  {"inputs": [{"name": "amountIn", "type": "uint256"}, {"name": "path", "type": "address[]"}], "name": "getAmountsOut", "outputs": [{"name": "amounts", "type": "uint256[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "amountIn", "type": "uint256"}, {"name": "amountOutMin", "type": "uint256"}, {"name": "path", "type": "address[]"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "swapExactTokensForTokens", "outputs": [{"name": "amounts", "type": "uint256[]"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "amountOutMin", "type": "uint256"}, {"name": "path", "type": "address[]"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "swapExactETHForTokens", "outputs": [{"name": "amounts", "type": "uint256[]"}], "stateMutability": "payable", "type": "function"},
  {"inputs": [{"name": "amountIn", "type": "uint256"}, {"name": "amountOutMin", "type": "uint256"}, {"name": "path", "type": "address[]"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "swapExactTokensForETH", "outputs": [{"name": "amounts", "type": "uint256[]"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "tokenA", "type": "address"}, {"name": "tokenB", "type": "address"}, {"name": "amountADesired", "type": "uint256"}, {"name": "amountBDesired", "type": "uint256"}, {"name": "amountAMin", "type": "uint256"}, {"name": "amountBMin", "type": "uint256"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "addLiquidity", "outputs": [{"name": "amountA", "type": "uint256"}, {"name": "amountB", "type": "uint256"}, {"name": "liquidity", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}, {"name": "amountTokenDesired", "type": "uint256"}, {"name": "amountTokenMin", "type": "uint256"}, {"name": "amountETHMin", "type": "uint256"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "addLiquidityETH", "outputs": [{"name": "amountToken", "type": "uint256"}, {"name": "amountETH", "type": "uint256"}, {"name": "liquidity", "type": "uint256"}], "stateMutability": "payable", "type": "function"},
  {"inputs": [{"name": "tokenA", "type": "address"}, {"name": "tokenB", "type": "address"}, {"name": "liquidity", "type": "uint256"}, {"name": "amountAMin", "type": "uint256"}, {"name": "amountBMin", "type": "uint256"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "removeLiquidity", "outputs": [{"name": "amountA", "type": "uint256"}, {"name": "amountB", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "token", "type": "address"}, {"name": "liquidity", "type": "uint256"}, {"name": "amountTokenMin", "type": "uint256"}, {"name": "amountETHMin", "type": "uint256"}, {"name": "to", "type": "address"}, {"name": "deadline", "type": "uint256"}], "name": "removeLiquidityETH", "outputs": [{"name": "amountToken", "type": "uint256"}, {"name": "amountETH", "type": "uint256"}], "stateMutability": "nonpayable", "type": "function"}
]`

const factoryABIJSON = `[
  {"inputs": [{"name": "", "type": "uint256"}], "name": "allPairs", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "allPairsLength", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "tokenA", "type": "address"}, {"name": "tokenB", "type": "address"}], "name": "getPair", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"}
]`

const pairABIJSON = `[
  {"inputs": [], "name": "token0", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "token1", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getReserves", "outputs": [{"name": "reserve0", "type": "uint112"}, {"name": "reserve1", "type": "uint112"}, {"name": "blockTimestampLast", "type": "uint32"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}], "name": "balanceOf", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}], "name": "allowance", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "spender", "type": "address"}, {"name": "amount", "type": "uint256"}], "name": "approve", "outputs": [{"name": "", "type": "bool"}], "stateMutability": "nonpayable", "type": "function"}
]`

const masterChefABIJSON = `[
  {"inputs": [], "name": "poolLength", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "", "type": "uint256"}], "name": "poolInfo", "outputs": [{"name": "lpToken", "type": "address"}, {"name": "allocPoint", "type": "uint256"}, {"name": "lastRewardBlock", "type": "uint256"}, {"name": "accRewardPerShare", "type": "uint256"}, {"name": "depositFee", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "", "type": "uint256"}, {"name": "", "type": "address"}], "name": "userInfo", "outputs": [{"name": "amount", "type": "uint256"}, {"name": "rewardDebt", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_pid", "type": "uint256"}, {"name": "_user", "type": "address"}], "name": "pendingReward", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "rewardPerBlock", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalAllocPoint", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_pid", "type": "uint256"}, {"name": "_amount", "type": "uint256"}], "name": "deposit", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [{"name": "_pid", "type": "uint256"}, {"name": "_amount", "type": "uint256"}], "name": "withdraw", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

const badgeABIJSON = `[
  {"inputs": [], "name": "claimOpen", "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}], "name": "balanceOf", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "claim", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [], "name": "AlreadyClaimed", "type": "error"},
  {"inputs": [], "name": "ClaimClosed", "type": "error"}
]`

// lazyABI parses its JSON definition on first use.
type lazyABI struct {
	json   string
	once   sync.Once
	parsed abi.ABI
	err    error
}

func (l *lazyABI) get() (abi.ABI, error) {
	l.once.Do(func() {
		l.parsed, l.err = abi.JSON(strings.NewReader(l.json))
	})
	return l.parsed, l.err
}

var (
	routerABI     = &lazyABI{json: routerABIJSON}
	factoryABI    = &lazyABI{json: factoryABIJSON}
	pairABI       = &lazyABI{json: pairABIJSON}
	masterChefABI = &lazyABI{json: masterChefABIJSON}
	badgeABI      = &lazyABI{json: badgeABIJSON}
)

// RouterABI returns the parsed router ABI.
func RouterABI() (abi.ABI, error) { return routerABI.get() }

// FactoryABI returns the parsed factory ABI.
func FactoryABI() (abi.ABI, error) { return factoryABI.get() }

// PairABI returns the parsed pair ABI. Pairs are also ERC20 LP tokens.
func PairABI() (abi.ABI, error) { return pairABI.get() }

// MasterChefABI returns the parsed staking contract ABI.
func MasterChefABI() (abi.ABI, error) { return masterChefABI.get() }

// BadgeABI returns the parsed badge contract ABI.
func BadgeABI() (abi.ABI, error) { return badgeABI.get() }
