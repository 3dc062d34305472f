package sim

import (
	"errors"
	"fmt"
	"sync"

	"escrow-core/internal/campaign"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownContract   = errors.New("unknown contract")
	ErrContractExists    = errors.New("contract already deployed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// World 内存中的宿主环境
// 维护区块时间、外部账户余额以及已部署的活动；每次调用串行执行，失败整体回滚
type World struct {
	mu        sync.Mutex
	now       uint64
	accounts  map[campaign.Identity]decimal.Decimal
	contracts map[string]*contract
}

type contract struct {
	owner    campaign.Identity
	campaign *campaign.Campaign
	ledger   *campaign.MemoryLedger
	balance  decimal.Decimal
}

func NewWorld() *World {
	return &World{
		accounts:  make(map[campaign.Identity]decimal.Decimal),
		contracts: make(map[string]*contract),
	}
}

// SetTime 设置区块时间
func (w *World) SetTime(ts uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = ts
}

func (w *World) Now() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

// SetBalance 设置外部账户余额
func (w *World) SetBalance(id campaign.Identity, amount decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accounts[id] = amount
}

// Balance 外部账户余额
func (w *World) Balance(id campaign.Identity) decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accounts[id]
}

// Deploy 以 owner 身份部署一个活动，在当前区块时间执行 create
func (w *World) Deploy(name string, owner campaign.Identity, p campaign.Params) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.contracts[name]; ok {
		return fmt.Errorf("%w: %s", ErrContractExists, name)
	}
	ledger := campaign.NewMemoryLedger()
	c, err := campaign.Create(p, w.now, ledger)
	if err != nil {
		return err
	}
	w.contracts[name] = &contract{owner: owner, campaign: c, ledger: ledger, balance: decimal.Zero}
	return nil
}

// Fund payable 调用: 先从调用者扣款并记入合约余额，再执行 contribute
// 任何失败都会撤销扣款
func (w *World) Fund(name string, caller campaign.Identity, amount decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return err
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative payment", campaign.ErrInvalidInput)
	}
	if w.accounts[caller].LessThan(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, caller.Hex(), w.accounts[caller], amount)
	}

	w.accounts[caller] = w.accounts[caller].Sub(amount)
	ct.balance = ct.balance.Add(amount)

	if err := ct.campaign.Contribute(w.host(ct, caller), amount); err != nil {
		ct.balance = ct.balance.Sub(amount)
		w.accounts[caller] = w.accounts[caller].Add(amount)
		return err
	}
	return nil
}

// Claim 执行 claim，转账直接记入外部账户
func (w *World) Claim(name string, caller campaign.Identity) (campaign.Settlement, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return campaign.Settlement{}, err
	}
	return ct.campaign.Claim(w.host(ct, caller))
}

// Status 当前区块时间下的状态
func (w *World) Status(name string) (campaign.Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return campaign.FundingPeriod, err
	}
	return ct.campaign.Status(w.host(ct, ct.owner))
}

// HeldBalance 合约持有的资金
func (w *World) HeldBalance(name string) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return decimal.Zero, err
	}
	return ct.balance, nil
}

// Deposit 查询账本条目
func (w *World) Deposit(name string, id campaign.Identity) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return decimal.Zero, err
	}
	return ct.campaign.DepositOf(id)
}

// Params 活动参数
func (w *World) Params(name string) (campaign.Params, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return campaign.Params{}, err
	}
	return ct.campaign.Params(), nil
}

// LedgerTotal 账本总额，用于校验记账不变量
func (w *World) LedgerTotal(name string) (decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ct, err := w.contract(name)
	if err != nil {
		return decimal.Zero, err
	}
	return ct.ledger.Total(), nil
}

func (w *World) contract(name string) (*contract, error) {
	ct, ok := w.contracts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	return ct, nil
}

func (w *World) host(ct *contract, caller campaign.Identity) *callHost {
	return &callHost{world: w, ct: ct, caller: caller}
}

// callHost 单次调用的宿主视图，调用方已持有 world 锁
type callHost struct {
	world  *World
	ct     *contract
	caller campaign.Identity
}

func (h *callHost) Now() uint64               { return h.world.now }
func (h *callHost) Caller() campaign.Identity { return h.caller }
func (h *callHost) Owner() campaign.Identity  { return h.ct.owner }
func (h *callHost) HeldBalance() (decimal.Decimal, error) {
	return h.ct.balance, nil
}

func (h *callHost) Transfer(to campaign.Identity, amount decimal.Decimal) error {
	if h.ct.balance.LessThan(amount) {
		return fmt.Errorf("%w: contract holds %s, transfer %s", ErrInsufficientFunds, h.ct.balance, amount)
	}
	h.ct.balance = h.ct.balance.Sub(amount)
	h.world.accounts[to] = h.world.accounts[to].Add(amount)
	return nil
}
