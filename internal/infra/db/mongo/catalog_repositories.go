package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	domainutility "hotelops/internal/domain/utility"
)

// HotelRepository stores hotels.
type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection("agg_hotel")}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := hotelDocument{
		ID:        string(h.ID),
		Name:      h.Name,
		Address:   h.Address,
		CreatedAt: h.CreatedAt.UnixMilli(),
		UpdatedAt: h.UpdatedAt.UnixMilli(),
		Version:   h.Version,
	}
	filter := bson.M{"_id": doc.ID, "version": h.Version}
	doc.Version = h.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	h.Version = doc.Version
	return nil
}

func (r *HotelRepository) List(ctx context.Context) ([]*domainhotel.Hotel, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainhotel.Hotel
	for cur.Next(ctx) {
		var doc hotelDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type hotelDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Address   string `bson:"address,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:        domainhotel.HotelID(d.ID),
		Name:      d.Name,
		Address:   d.Address,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

// UtilityRepository stores the extras catalog.
type UtilityRepository struct {
	col *mongo.Collection
}

func NewUtilityRepository(db *mongo.Database) *UtilityRepository {
	return &UtilityRepository{col: db.Collection("agg_utility")}
}

func (r *UtilityRepository) ByID(ctx context.Context, id domainutility.UtilityID) (*domainutility.Utility, error) {
	var doc utilityDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainutility.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UtilityRepository) List(ctx context.Context) ([]*domainutility.Utility, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainutility.Utility
	for cur.Next(ctx) {
		var doc utilityDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *UtilityRepository) Save(ctx context.Context, u *domainutility.Utility) error {
	doc := utilityDocument{
		ID:        string(u.ID),
		Name:      u.Name,
		Price:     decString(u.Price),
		Icon:      u.Icon,
		CreatedAt: u.CreatedAt.UnixMilli(),
		UpdatedAt: u.UpdatedAt.UnixMilli(),
		Version:   u.Version,
	}
	filter := bson.M{"_id": doc.ID, "version": u.Version}
	doc.Version = u.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	u.Version = doc.Version
	return nil
}

func (r *UtilityRepository) Delete(ctx context.Context, id domainutility.UtilityID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainutility.ErrNotFound
	}
	return nil
}

type utilityDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Price     string `bson:"price"`
	Icon      string `bson:"icon,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func (d utilityDocument) toAggregate() *domainutility.Utility {
	return &domainutility.Utility{
		ID:        domainutility.UtilityID(d.ID),
		Name:      d.Name,
		Price:     decFromString(d.Price),
		Icon:      d.Icon,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

// ExpenseRepository stores operating costs; they are written once and
// never concurrently edited, so saves skip the version filter.
type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection("agg_expense")}
}

func (r *ExpenseRepository) ByID(ctx context.Context, id domainexpense.ExpenseID) (*domainexpense.Expense, error) {
	var doc expenseDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainexpense.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ExpenseRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID, from, to time.Time) ([]*domainexpense.Expense, error) {
	filter := bson.M{"hotel_id": string(hotelID)}
	span := bson.M{}
	if !from.IsZero() {
		span["$gte"] = from.UnixMilli()
	}
	if !to.IsZero() {
		span["$lt"] = to.UnixMilli()
	}
	if len(span) > 0 {
		filter["spent_at"] = span
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "spent_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainexpense.Expense
	for cur.Next(ctx) {
		var doc expenseDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ExpenseRepository) Save(ctx context.Context, e *domainexpense.Expense) error {
	doc := expenseDocument{
		ID:        string(e.ID),
		HotelID:   string(e.HotelID),
		Label:     e.Label,
		Amount:    decString(e.Amount),
		SpentAt:   e.SpentAt.UnixMilli(),
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ExpenseRepository) Delete(ctx context.Context, id domainexpense.ExpenseID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainexpense.ErrNotFound
	}
	return nil
}

type expenseDocument struct {
	ID        string `bson:"_id"`
	HotelID   string `bson:"hotel_id"`
	Label     string `bson:"label"`
	Amount    string `bson:"amount"`
	SpentAt   int64  `bson:"spent_at"`
	CreatedAt int64  `bson:"created_at"`
}

func (d expenseDocument) toAggregate() *domainexpense.Expense {
	return &domainexpense.Expense{
		ID:        domainexpense.ExpenseID(d.ID),
		HotelID:   domainhotel.HotelID(d.HotelID),
		Label:     d.Label,
		Amount:    decFromString(d.Amount),
		SpentAt:   timestampToTime(d.SpentAt),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
