package escrow

import (
	"escrow-core/internal/campaign"
	"escrow-core/internal/model"
	"escrow-core/internal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// txHost 在一个 store 事务里为核心状态机提供宿主能力，同时充当账本
// 托管账户就是 "合约余额"；转账 = 托管账户扣款 + 收款账户入账
type txHost struct {
	tx     store.Tx
	now    uint64
	caller campaign.Identity
	owner  campaign.Identity
	escrow string
}

func newTxHost(tx store.Tx, now uint64, caller campaign.Identity) *txHost {
	c := tx.Campaign()
	return &txHost{
		tx:     tx,
		now:    now,
		caller: caller,
		owner:  common.HexToAddress(c.Owner),
		escrow: model.EscrowHolder(c.ID),
	}
}

func (h *txHost) Now() uint64               { return h.now }
func (h *txHost) Caller() campaign.Identity { return h.caller }
func (h *txHost) Owner() campaign.Identity  { return h.owner }

func (h *txHost) HeldBalance() (decimal.Decimal, error) {
	return h.tx.Balance(h.escrow)
}

func (h *txHost) Transfer(to campaign.Identity, amount decimal.Decimal) error {
	if err := h.tx.Debit(h.escrow, amount); err != nil {
		return err
	}
	return h.tx.Credit(to.Hex(), amount)
}

// campaign.Ledger

func (h *txHost) Deposit(id campaign.Identity) (decimal.Decimal, error) {
	return h.tx.Deposit(id.Hex())
}

func (h *txHost) SetDeposit(id campaign.Identity, amount decimal.Decimal) error {
	return h.tx.SetDeposit(id.Hex(), amount)
}

func (h *txHost) ClearDeposit(id campaign.Identity) error {
	return h.tx.ClearDeposit(id.Hex())
}

func paramsOf(c *model.Campaign) campaign.Params {
	return campaign.Params{
		Target:          c.Target,
		Deadline:        c.Deadline,
		MinContribution: c.MinContribution,
		MaxPerUser:      c.MaxPerUser,
		MaxCap:          c.MaxCap,
	}
}
