package campaign

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Host 运行环境 (宿主) 提供的能力
// 对 payable 调用，HeldBalance 已经包含本次入金
type Host interface {
	// Now 当前时间 (Unix 秒)
	Now() uint64
	// Caller 本次调用者
	Caller() Identity
	// Owner 活动受益人，部署时确定
	Owner() Identity
	// HeldBalance 合约当前持有的资金
	HeldBalance() (decimal.Decimal, error)
	// Transfer 转出资金，失败时整个调用必须中止
	Transfer(to Identity, amount decimal.Decimal) error
}

// Ledger 贡献者账本: identity -> 累计入金
// 不存在的 identity 返回 0
type Ledger interface {
	Deposit(id Identity) (decimal.Decimal, error)
	SetDeposit(id Identity, amount decimal.Decimal) error
	ClearDeposit(id Identity) error
}

// MemoryLedger 基于 map 的账本实现
type MemoryLedger struct {
	mu       sync.RWMutex
	deposits map[Identity]decimal.Decimal
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{deposits: make(map[Identity]decimal.Decimal)}
}

func (l *MemoryLedger) Deposit(id Identity) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if amt, ok := l.deposits[id]; ok {
		return amt, nil
	}
	return decimal.Zero, nil
}

func (l *MemoryLedger) SetDeposit(id Identity, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deposits[id] = amount
	return nil
}

func (l *MemoryLedger) ClearDeposit(id Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.deposits, id)
	return nil
}

// Entries 返回账本快照
func (l *MemoryLedger) Entries() map[Identity]decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[Identity]decimal.Decimal, len(l.deposits))
	for k, v := range l.deposits {
		out[k] = v
	}
	return out
}

// Total 所有账本条目之和
func (l *MemoryLedger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := decimal.Zero
	for _, v := range l.deposits {
		total = total.Add(v)
	}
	return total
}
