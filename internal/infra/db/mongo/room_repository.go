package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "hotelops/internal/domain/hotel"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("agg_room")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainroom.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainroom.Room, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "floor", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"hotel_id": string(hotelID)}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainroom.Room
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	doc := newRoomDocument(rm)
	filter := bson.M{"_id": doc.ID, "version": rm.Version}
	doc.Version = rm.Version + 1
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
	rm.Version = doc.Version
	return nil
}

type roomDocument struct {
	ID          string `bson:"_id"`
	HotelID     string `bson:"hotel_id"`
	Name        string `bson:"name"`
	Floor       int    `bson:"floor"`
	Description string `bson:"description,omitempty"`
	FirstHour   string `bson:"first_hour_price"`
	NextHour    string `bson:"next_hour_price"`
	Day         string `bson:"day_price"`
	Night       string `bson:"night_price"`
	Mode        int    `bson:"type_hire"`
	Available   bool   `bson:"available"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
	Version     int64  `bson:"version"`
}

func newRoomDocument(rm *domainroom.Room) roomDocument {
	return roomDocument{
		ID:          string(rm.ID),
		HotelID:     string(rm.HotelID),
		Name:        rm.Name,
		Floor:       rm.Floor,
		Description: rm.Description,
		FirstHour:   decString(rm.Rates.FirstHour),
		NextHour:    decString(rm.Rates.NextHour),
		Day:         decString(rm.Rates.Day),
		Night:       decString(rm.Rates.Night),
		Mode:        rm.Mode,
		Available:   rm.Available,
		CreatedAt:   rm.CreatedAt.UnixMilli(),
		UpdatedAt:   rm.UpdatedAt.UnixMilli(),
		Version:     rm.Version,
	}
}

func (d roomDocument) toAggregate() *domainroom.Room {
	return &domainroom.Room{
		ID:          domainroom.RoomID(d.ID),
		HotelID:     domainhotel.HotelID(d.HotelID),
		Name:        d.Name,
		Floor:       d.Floor,
		Description: d.Description,
		Rates: domainpricing.RateCard{
			FirstHour: decFromString(d.FirstHour),
			NextHour:  decFromString(d.NextHour),
			Day:       decFromString(d.Day),
			Night:     decFromString(d.Night),
		},
		Mode:      d.Mode,
		Available: d.Available,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}
