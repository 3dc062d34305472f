package handler

import (
	"errors"

	"escrow-core/internal/campaign"
	"escrow-core/internal/service/escrow"
	"escrow-core/internal/store"
	"escrow-core/pkg/errno"
	"escrow-core/pkg/logger"

	"go.uber.org/zap"
)

var errnoTable = []struct {
	err  error
	code errno.Errno
}{
	{campaign.ErrInvalidParameters, errno.ErrInvalidParameters},
	{campaign.ErrBelowMinimumContribution, errno.ErrBelowMinimumContribution},
	{campaign.ErrDeadlinePassed, errno.ErrDeadlinePassed},
	{campaign.ErrHardCapExceeded, errno.ErrHardCapExceeded},
	{campaign.ErrPerUserCapExceeded, errno.ErrPerUserCapExceeded},
	{campaign.ErrClaimTooEarly, errno.ErrClaimTooEarly},
	{campaign.ErrUnauthorized, errno.ErrUnauthorized},
	{campaign.ErrInvalidInput, errno.ErrInvalidInput},
	{escrow.ErrCampaignNotFound, errno.ErrCampaignNotFound},
	{store.ErrInsufficientFunds, errno.ErrInsufficientFunds},
}

// toErrno 把业务错误翻译成错误码，带上具体原因
// 未知错误只记日志，对外返回 InternalServerError
func toErrno(err error) errno.Errno {
	for _, e := range errnoTable {
		if errors.Is(err, e.err) {
			return e.code.WithMessage(err.Error())
		}
	}
	logger.Error("Unexpected error", zap.Error(err))
	return errno.InternalServerError
}
