package repository

import (
	"context"
	"time"

	"tradevault/internal/domain/entity"
)

type TradeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.TradeTransaction, error)
	ListByUserID(ctx context.Context, userID string, role string, status string, limit, offset int) ([]*entity.TradeTransaction, int64, error)

	// ListDueForRelease returns pending_release trades whose ReleaseAt is at
	// or before now. It is a plain query; the release itself re-validates
	// state inside its own atomic unit.
	ListDueForRelease(ctx context.Context, now time.Time, limit int) ([]*entity.TradeTransaction, error)

	// ListOpenDisputes returns disputed trades for the admin queue, oldest
	// dispute deadline first.
	ListOpenDisputes(ctx context.Context, limit, offset int) ([]*entity.TradeTransaction, int64, error)

	CreateLog(ctx context.Context, log *entity.TradeLog) error
	ListLogsByTradeID(ctx context.Context, tradeID string) ([]*entity.TradeLog, error)
}
