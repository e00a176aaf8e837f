package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

type firestoreTradeRepository struct {
	client *firestore.Client
}

func NewFirestoreTradeRepository(client *firestore.Client) repository.TradeRepository {
	return &firestoreTradeRepository{client: client}
}

func (r *firestoreTradeRepository) GetByID(ctx context.Context, id string) (*entity.TradeTransaction, error) {
	doc, err := r.client.Collection(tradesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Trade", err)
		}
		return nil, errors.Internal("Failed to get trade", err)
	}

	var trade entity.TradeTransaction
	if err := doc.DataTo(&trade); err != nil {
		return nil, errors.Internal("Failed to parse trade data", err)
	}
	return &trade, nil
}

func (r *firestoreTradeRepository) ListByUserID(ctx context.Context, userID string, role string, status string, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	var field string
	switch role {
	case "buyer":
		field = "buyerId"
	case "seller":
		field = "sellerId"
	default:
		return nil, 0, errors.BadRequest("Invalid role", nil)
	}

	query := r.client.Collection(tradesCollection).Where(field, "==", userID)
	if status != "" {
		query = query.Where("status", "==", status)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	return r.runTradeQuery(ctx, query, limit, offset)
}

func (r *firestoreTradeRepository) ListDueForRelease(ctx context.Context, now time.Time, limit int) ([]*entity.TradeTransaction, error) {
	query := r.client.Collection(tradesCollection).
		Where("status", "==", entity.TradeTxnPendingRelease).
		Where("releaseAt", "<=", now).
		OrderBy("releaseAt", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var trades []*entity.TradeTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate due trades", err)
		}

		var trade entity.TradeTransaction
		if err := doc.DataTo(&trade); err != nil {
			return nil, errors.Internal("Failed to parse trade data", err)
		}
		trades = append(trades, &trade)
	}

	return trades, nil
}

func (r *firestoreTradeRepository) ListOpenDisputes(ctx context.Context, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	query := r.client.Collection(tradesCollection).
		Where("status", "==", entity.TradeTxnDisputed).
		OrderBy("dispute.expiresAt", firestore.Asc)

	return r.runTradeQuery(ctx, query, limit, offset)
}

func (r *firestoreTradeRepository) runTradeQuery(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.TradeTransaction, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count trades", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var trades []*entity.TradeTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate trades", err)
		}

		var trade entity.TradeTransaction
		if err := doc.DataTo(&trade); err != nil {
			return nil, 0, errors.Internal("Failed to parse trade data", err)
		}
		trades = append(trades, &trade)
	}

	return trades, total, nil
}

func (r *firestoreTradeRepository) CreateLog(ctx context.Context, log *entity.TradeLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()

	_, err := r.client.Collection(tradeLogsCollection).Doc(log.ID).Set(ctx, log)
	if err != nil {
		return errors.Internal("Failed to create trade log", err)
	}
	return nil
}

func (r *firestoreTradeRepository) ListLogsByTradeID(ctx context.Context, tradeID string) ([]*entity.TradeLog, error) {
	query := r.client.Collection(tradeLogsCollection).
		Where("tradeId", "==", tradeID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var logs []*entity.TradeLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate trade logs", err)
		}

		var log entity.TradeLog
		if err := doc.DataTo(&log); err != nil {
			return nil, errors.Internal("Failed to parse trade log data", err)
		}
		logs = append(logs, &log)
	}

	return logs, nil
}
