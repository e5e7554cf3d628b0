package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelops/internal/app/uow"
	domainpricing "hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/apperr"
)

var (
	ErrConcurrentUpdate = apperr.Wrap(apperr.KindConflict, "mongo: concurrent update detected", uow.ErrConcurrentUpdate)
	ErrLedgerNotFound   = apperr.NotFound("mongo: ledger not found")
)

// LedgerRepository stores the pricing ledger as a single document with
// the history embedded; entries are never written separately.
type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection("agg_pricing_ledger")}
}

func (r *LedgerRepository) ByOccupancy(ctx context.Context, occupancyID string) (*domainpricing.Ledger, error) {
	var doc ledgerDocument
	if err := r.col.FindOne(ctx, bson.M{"occupancy_id": occupancyID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *LedgerRepository) Save(ctx context.Context, l *domainpricing.Ledger) error {
	doc := newLedgerDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *LedgerRepository) Delete(ctx context.Context, occupancyID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"occupancy_id": occupancyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrLedgerNotFound
	}
	return nil
}

type ledgerDocument struct {
	ID               string          `bson:"_id"`
	OccupancyID      string          `bson:"occupancy_id"`
	Mode             string          `bson:"mode"`
	WindowStart      int64           `bson:"window_start"`
	WindowEnd        *int64          `bson:"window_end,omitempty"`
	CalculatedAmount string          `bson:"calculated_amount"`
	History          []entryDocument `bson:"history"`
	EntrySeq         int64           `bson:"entry_seq"`
	CreatedAt        int64           `bson:"created_at"`
	UpdatedAt        int64           `bson:"updated_at"`
	Version          int64           `bson:"version"`
}

type entryDocument struct {
	ID          string `bson:"id"`
	Action      string `bson:"action"`
	Mode        string `bson:"mode"`
	Amount      string `bson:"amount"`
	From        int64  `bson:"applied_from"`
	To          *int64 `bson:"applied_to,omitempty"`
	FirstHour   string `bson:"applied_first_hour_price"`
	NextHour    string `bson:"applied_next_hour_price"`
	Day         string `bson:"applied_day_price"`
	Night       string `bson:"applied_night_price"`
	Description string `bson:"description,omitempty"`
}

func newLedgerDocument(l *domainpricing.Ledger) ledgerDocument {
	doc := ledgerDocument{
		ID:               l.ID,
		OccupancyID:      l.OccupancyID,
		Mode:             string(l.Mode),
		WindowStart:      l.WindowStart.UnixMilli(),
		WindowEnd:        timePtrToMillis(l.WindowEnd),
		CalculatedAmount: decString(l.CalculatedAmount),
		EntrySeq:         l.EntrySeq,
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
		Version:          l.Version,
	}
	doc.History = make([]entryDocument, len(l.History))
	for i, e := range l.History {
		doc.History[i] = entryDocument{
			ID:          e.ID,
			Action:      string(e.Action),
			Mode:        string(e.Mode),
			Amount:      decString(e.Amount),
			From:        e.From.UnixMilli(),
			To:          timePtrToMillis(e.To),
			FirstHour:   decString(e.Rates.FirstHour),
			NextHour:    decString(e.Rates.NextHour),
			Day:         decString(e.Rates.Day),
			Night:       decString(e.Rates.Night),
			Description: e.Description,
		}
	}
	return doc
}

func (d ledgerDocument) toAggregate() *domainpricing.Ledger {
	l := &domainpricing.Ledger{
		ID:               d.ID,
		OccupancyID:      d.OccupancyID,
		Mode:             domainpricing.BillingMode(d.Mode),
		WindowStart:      timestampToTime(d.WindowStart),
		WindowEnd:        millisToTimePtr(d.WindowEnd),
		CalculatedAmount: decFromString(d.CalculatedAmount),
		EntrySeq:         d.EntrySeq,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
	l.History = make([]domainpricing.HistoryEntry, len(d.History))
	for i, e := range d.History {
		l.History[i] = domainpricing.HistoryEntry{
			ID:     e.ID,
			Action: domainpricing.Action(e.Action),
			Mode:   domainpricing.BillingMode(e.Mode),
			Amount: decFromString(e.Amount),
			From:   timestampToTime(e.From),
			To:     millisToTimePtr(e.To),
			Rates: domainpricing.RateSnapshot{
				FirstHour: decFromString(e.FirstHour),
				NextHour:  decFromString(e.NextHour),
				Day:       decFromString(e.Day),
				Night:     decFromString(e.Night),
			},
			Description: e.Description,
		}
	}
	return l
}
