package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbilling "hotelops/internal/domain/billing"
	domainhotel "hotelops/internal/domain/hotel"
	domainroom "hotelops/internal/domain/room"
)

// BillRepository stores issued bills. Bills are immutable once written.
type BillRepository struct {
	col *mongo.Collection
}

func NewBillRepository(db *mongo.Database) *BillRepository {
	return &BillRepository{col: db.Collection("agg_bill")}
}

func (r *BillRepository) ByID(ctx context.Context, id domainbilling.BillID) (*domainbilling.Bill, error) {
	var doc billDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbilling.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BillRepository) List(ctx context.Context, filter domainbilling.ListFilter) ([]*domainbilling.Bill, error) {
	query := bson.M{}
	if filter.HotelID != "" {
		query["hotel_id"] = string(filter.HotelID)
	}
	if filter.RoomID != "" {
		query["room_id"] = string(filter.RoomID)
	}
	span := bson.M{}
	if !filter.From.IsZero() {
		span["$gte"] = filter.From.UnixMilli()
	}
	if !filter.To.IsZero() {
		span["$lt"] = filter.To.UnixMilli()
	}
	if len(span) > 0 {
		query["check_out"] = span
	}
	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "check_out", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbilling.Bill
	for cur.Next(ctx) {
		var doc billDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BillRepository) Save(ctx context.Context, b *domainbilling.Bill) error {
	doc := newBillDocument(b)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *BillRepository) Delete(ctx context.Context, id domainbilling.BillID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbilling.ErrNotFound
	}
	return nil
}

type billDocument struct {
	ID             string `bson:"_id"`
	RoomID         string `bson:"room_id"`
	HotelID        string `bson:"hotel_id"`
	RoomName       string `bson:"room_name"`
	RoomTotal      string `bson:"total_room_price"`
	UtilitiesTotal string `bson:"total_utilities_price"`
	Total          string `bson:"total"`
	CheckIn        int64  `bson:"check_in"`
	CheckOut       int64  `bson:"check_out"`
	CreatedAt      int64  `bson:"created_at"`
}

func newBillDocument(b *domainbilling.Bill) billDocument {
	return billDocument{
		ID:             string(b.ID),
		RoomID:         string(b.RoomID),
		HotelID:        string(b.HotelID),
		RoomName:       b.RoomName,
		RoomTotal:      decString(b.RoomTotal),
		UtilitiesTotal: decString(b.UtilitiesTotal),
		Total:          decString(b.Total),
		CheckIn:        b.CheckIn.UnixMilli(),
		CheckOut:       b.CheckOut.UnixMilli(),
		CreatedAt:      b.CreatedAt.UnixMilli(),
	}
}

func (d billDocument) toAggregate() *domainbilling.Bill {
	return &domainbilling.Bill{
		ID:             domainbilling.BillID(d.ID),
		RoomID:         domainroom.RoomID(d.RoomID),
		HotelID:        domainhotel.HotelID(d.HotelID),
		RoomName:       d.RoomName,
		RoomTotal:      decFromString(d.RoomTotal),
		UtilitiesTotal: decFromString(d.UtilitiesTotal),
		Total:          decFromString(d.Total),
		CheckIn:        timestampToTime(d.CheckIn),
		CheckOut:       timestampToTime(d.CheckOut),
		CreatedAt:      timestampToTime(d.CreatedAt),
	}
}
