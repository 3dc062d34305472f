package campaign

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Campaign 一个众筹活动的状态机
// 参数不可变；账本由 Ledger 持有；时间、身份、余额、转账来自 Host
type Campaign struct {
	mu     sync.Mutex
	params Params
	ledger Ledger
}

// Create 校验参数并创建活动，不转移任何资金
func Create(p Params, now uint64, ledger Ledger) (*Campaign, error) {
	if err := p.Validate(now); err != nil {
		return nil, err
	}
	return Load(p, ledger), nil
}

// Load 使用已持久化的参数恢复活动 (不再校验 deadline)
func Load(p Params, ledger Ledger) *Campaign {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Campaign{params: p, ledger: ledger}
}

// DeriveStatus 纯函数: 由 (now, deadline, balance, target) 推导状态
// now == deadline 时仍处于 FundingPeriod
func DeriveStatus(now, deadline uint64, balance, target decimal.Decimal) Status {
	switch {
	case now <= deadline:
		return FundingPeriod
	case balance.GreaterThanOrEqual(target):
		return Successful
	default:
		return Failed
	}
}

// Contribute 接受一笔入金
// 检查顺序固定，任何检查失败都不会产生副作用
func (c *Campaign) Contribute(h Host, amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !isUnsigned(amount) {
		return fmt.Errorf("%w: amount must be a non-negative integer", ErrInvalidInput)
	}

	// 1. 单笔最小金额
	if amount.LessThan(c.params.MinContribution) {
		return fmt.Errorf("%w: %s < %s", ErrBelowMinimumContribution, amount, c.params.MinContribution)
	}

	// 2. 截止时间 (严格小于)
	if h.Now() >= c.params.Deadline {
		return ErrDeadlinePassed
	}

	// 3. Hard Cap: 余额已包含本次入金
	balance, err := h.HeldBalance()
	if err != nil {
		return err
	}
	if balance.GreaterThan(c.params.MaxCap) {
		return fmt.Errorf("%w: %s > %s", ErrHardCapExceeded, balance, c.params.MaxCap)
	}

	// 4. 单用户累计上限
	caller := h.Caller()
	deposited, err := c.ledger.Deposit(caller)
	if err != nil {
		return err
	}
	newTotal := deposited.Add(amount)
	if newTotal.GreaterThan(c.params.MaxPerUser) {
		return fmt.Errorf("%w: %s > %s", ErrPerUserCapExceeded, newTotal, c.params.MaxPerUser)
	}

	return c.ledger.SetDeposit(caller, newTotal)
}

// Status 当前状态，没有副作用
func (c *Campaign) Status(h Host) (Status, error) {
	balance, err := h.HeldBalance()
	if err != nil {
		return FundingPeriod, err
	}
	return DeriveStatus(h.Now(), c.params.Deadline, balance, c.params.Target), nil
}

// Claim 按状态结算
func (c *Campaign) Claim(h Host) (Settlement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status, err := c.Status(h)
	if err != nil {
		return Settlement{}, err
	}

	caller := h.Caller()
	switch status {
	case FundingPeriod:
		return Settlement{}, ErrClaimTooEarly

	case Successful:
		if caller != h.Owner() {
			return Settlement{}, ErrUnauthorized
		}
		balance, err := h.HeldBalance()
		if err != nil {
			return Settlement{}, err
		}
		// 已经提取过: 余额为 0，什么也不做
		if !balance.IsPositive() {
			return Settlement{Kind: SettlementNone, To: caller, Amount: decimal.Zero}, nil
		}
		if err := h.Transfer(caller, balance); err != nil {
			return Settlement{}, err
		}
		return Settlement{Kind: SettlementPayout, To: caller, Amount: balance}, nil

	case Failed:
		deposit, err := c.ledger.Deposit(caller)
		if err != nil {
			return Settlement{}, err
		}
		if !deposit.IsPositive() {
			return Settlement{Kind: SettlementNone, To: caller, Amount: decimal.Zero}, nil
		}
		// 先清账本再转账，防止重入重复提取
		if err := c.ledger.ClearDeposit(caller); err != nil {
			return Settlement{}, err
		}
		if err := h.Transfer(caller, deposit); err != nil {
			if rerr := c.ledger.SetDeposit(caller, deposit); rerr != nil {
				return Settlement{}, fmt.Errorf("transfer failed: %w (restore deposit: %v)", err, rerr)
			}
			return Settlement{}, err
		}
		return Settlement{Kind: SettlementRefund, To: caller, Amount: deposit}, nil
	}

	return Settlement{}, fmt.Errorf("unknown status %s", status)
}

// Params 活动参数
func (c *Campaign) Params() Params { return c.params }

func (c *Campaign) Target() decimal.Decimal          { return c.params.Target }
func (c *Campaign) Deadline() uint64                 { return c.params.Deadline }
func (c *Campaign) MinContribution() decimal.Decimal { return c.params.MinContribution }
func (c *Campaign) MaxPerUser() decimal.Decimal      { return c.params.MaxPerUser }
func (c *Campaign) MaxCap() decimal.Decimal          { return c.params.MaxCap }

// DepositOf 查询某个贡献者的累计入金
func (c *Campaign) DepositOf(id Identity) (decimal.Decimal, error) {
	return c.ledger.Deposit(id)
}

// DepositOfAddress 同 DepositOf，但接受十六进制地址
func (c *Campaign) DepositOfAddress(addr string) (decimal.Decimal, error) {
	id, err := ParseIdentity(addr)
	if err != nil {
		return decimal.Zero, err
	}
	return c.ledger.Deposit(id)
}
