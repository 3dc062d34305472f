package sim

import (
	"testing"

	"escrow-core/internal/campaign"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = addr("0x00000000000000000000000000000000000000aa")
	donor = addr("0x00000000000000000000000000000000000000d1")
)

func addr(v string) campaign.Identity {
	id, err := campaign.ParseIdentity(v)
	if err != nil {
		panic(err)
	}
	return id
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func setup(t *testing.T) *World {
	t.Helper()
	w := NewWorld()
	w.SetTime(100)
	w.SetBalance(donor, d(5000))
	require.NoError(t, w.Deploy("crowdfunding", owner, campaign.Params{
		Target:          d(1000),
		Deadline:        600,
		MinContribution: d(10),
		MaxPerUser:      d(1000),
		MaxCap:          d(1000),
	}))
	return w
}

func TestWorldSuccessfulCampaign(t *testing.T) {
	w := setup(t)
	require.NoError(t, w.Fund("crowdfunding", donor, d(1000)))

	w.SetTime(601)
	st, err := w.Status("crowdfunding")
	require.NoError(t, err)
	assert.Equal(t, campaign.Successful, st)

	_, err = w.Claim("crowdfunding", donor)
	assert.ErrorIs(t, err, campaign.ErrUnauthorized)

	s, err := w.Claim("crowdfunding", owner)
	require.NoError(t, err)
	assert.True(t, s.Amount.Equal(d(1000)))
	assert.True(t, w.Balance(owner).Equal(d(1000)))
	assert.True(t, w.Balance(donor).Equal(d(4000)))

	s, err = w.Claim("crowdfunding", owner)
	require.NoError(t, err)
	assert.False(t, s.Moved())
	assert.True(t, w.Balance(owner).Equal(d(1000)))
}

func TestWorldFailedCampaign(t *testing.T) {
	w := setup(t)
	require.NoError(t, w.Fund("crowdfunding", donor, d(500)))
	w.SetTime(601)

	st, err := w.Status("crowdfunding")
	require.NoError(t, err)
	assert.Equal(t, campaign.Failed, st)

	s, err := w.Claim("crowdfunding", donor)
	require.NoError(t, err)
	assert.Equal(t, campaign.SettlementRefund, s.Kind)
	assert.True(t, w.Balance(donor).Equal(d(5000)))

	s, err = w.Claim("crowdfunding", owner)
	require.NoError(t, err)
	assert.False(t, s.Moved())

	held, err := w.HeldBalance("crowdfunding")
	require.NoError(t, err)
	assert.True(t, held.IsZero())
}

func TestWorldRejectedFundReverts(t *testing.T) {
	w := setup(t)
	require.NoError(t, w.Fund("crowdfunding", donor, d(995)))

	err := w.Fund("crowdfunding", donor, d(10))
	assert.ErrorIs(t, err, campaign.ErrHardCapExceeded)
	assert.True(t, w.Balance(donor).Equal(d(4005)))

	held, _ := w.HeldBalance("crowdfunding")
	total, _ := w.LedgerTotal("crowdfunding")
	assert.True(t, held.Equal(d(995)))
	assert.True(t, total.Equal(held))

	err = w.Fund("crowdfunding", donor, d(5))
	assert.ErrorIs(t, err, campaign.ErrBelowMinimumContribution)
	assert.True(t, w.Balance(donor).Equal(d(4005)))
}

func TestWorldInsufficientFunds(t *testing.T) {
	w := setup(t)
	poor := addr("0x00000000000000000000000000000000000000e5")
	err := w.Fund("crowdfunding", poor, d(10))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	dep, err := w.Deposit("crowdfunding", poor)
	require.NoError(t, err)
	assert.True(t, dep.IsZero())
}

func TestWorldDeployErrors(t *testing.T) {
	w := setup(t)
	err := w.Deploy("crowdfunding", owner, campaign.Params{Target: d(1), Deadline: 700, MaxCap: d(1)})
	assert.ErrorIs(t, err, ErrContractExists)

	err = w.Deploy("late", owner, campaign.Params{Target: d(1), Deadline: 50, MaxCap: d(1)})
	assert.ErrorIs(t, err, campaign.ErrInvalidParameters)

	_, err = w.Status("missing")
	assert.ErrorIs(t, err, ErrUnknownContract)
}

func TestWorldDeadlineBoundary(t *testing.T) {
	w := setup(t)
	w.SetTime(600)

	err := w.Fund("crowdfunding", donor, d(100))
	assert.ErrorIs(t, err, campaign.ErrDeadlinePassed)
	assert.True(t, w.Balance(donor).Equal(d(5000)))

	st, err := w.Status("crowdfunding")
	require.NoError(t, err)
	assert.Equal(t, campaign.FundingPeriod, st)

	_, err = w.Claim("crowdfunding", owner)
	assert.ErrorIs(t, err, campaign.ErrClaimTooEarly)
}
