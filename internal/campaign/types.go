package campaign

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Status 活动状态，只能推导，永不持久化
type Status int

const (
	FundingPeriod Status = iota
	Successful
	Failed
)

func (s Status) String() string {
	switch s {
	case FundingPeriod:
		return "FundingPeriod"
	case Successful:
		return "Successful"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus 解析状态名 (大小写不敏感)
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "fundingperiod", "funding_period":
		return FundingPeriod, nil
	case "successful":
		return Successful, nil
	case "failed":
		return Failed, nil
	}
	return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, v)
}

// Identity 调用者身份 (20 字节账户地址)
type Identity = common.Address

// ParseIdentity 解析十六进制地址，格式错误返回 ErrInvalidInput
func ParseIdentity(v string) (Identity, error) {
	v = strings.TrimSpace(v)
	if !common.IsHexAddress(v) {
		return Identity{}, fmt.Errorf("%w: malformed identity %q", ErrInvalidInput, v)
	}
	return common.HexToAddress(v), nil
}

// ParseAmount 解析金额: 只接受非负整数
func ParseAmount(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed amount %q", ErrInvalidInput, v)
	}
	if !isUnsigned(d) {
		return decimal.Zero, fmt.Errorf("%w: amount must be a non-negative integer, got %s", ErrInvalidInput, v)
	}
	return d, nil
}

func isUnsigned(d decimal.Decimal) bool {
	return !d.IsNegative() && d.IsInteger()
}

// Params 活动参数，创建后不可变
// Deadline 为 Unix 秒
type Params struct {
	Target          decimal.Decimal `json:"target" yaml:"target"`
	Deadline        uint64          `json:"deadline" yaml:"deadline"`
	MinContribution decimal.Decimal `json:"min_contribution" yaml:"min_contribution"`
	MaxPerUser      decimal.Decimal `json:"max_per_user" yaml:"max_per_user"`
	MaxCap          decimal.Decimal `json:"max_cap" yaml:"max_cap"`
}

// Validate 按固定顺序校验，遇到第一个错误立即返回
// 后面的检查依赖前面的检查已经通过
func (p Params) Validate(now uint64) error {
	for _, amt := range []decimal.Decimal{p.Target, p.MinContribution, p.MaxPerUser, p.MaxCap} {
		if !isUnsigned(amt) {
			return fmt.Errorf("%w: amounts must be non-negative integers", ErrInvalidParameters)
		}
	}
	if !p.Target.IsPositive() {
		return fmt.Errorf("%w: target must be more than 0", ErrInvalidParameters)
	}
	if p.MaxCap.LessThan(p.Target) {
		return fmt.Errorf("%w: max cap must be >= target", ErrInvalidParameters)
	}
	if p.MaxPerUser.LessThan(p.MinContribution) {
		return fmt.Errorf("%w: max per user must be >= min contribution", ErrInvalidParameters)
	}
	if p.Deadline <= now {
		return fmt.Errorf("%w: deadline can't be in the past", ErrInvalidParameters)
	}
	return nil
}

// SettlementKind 结算结果类型
type SettlementKind int

const (
	SettlementNone SettlementKind = iota
	SettlementPayout
	SettlementRefund
)

func (k SettlementKind) String() string {
	switch k {
	case SettlementPayout:
		return "payout"
	case SettlementRefund:
		return "refund"
	default:
		return "none"
	}
}

func (k SettlementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Settlement 描述一次 claim 实际转出的资金
type Settlement struct {
	Kind   SettlementKind  `json:"kind"`
	To     Identity        `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Moved 是否发生了资金转移
func (s Settlement) Moved() bool {
	return s.Kind != SettlementNone
}
