package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainoccupancy "hotelops/internal/domain/occupancy"
	domainroom "hotelops/internal/domain/room"
)

type OccupancyRepository struct {
	col *mongo.Collection
}

func NewOccupancyRepository(db *mongo.Database) *OccupancyRepository {
	return &OccupancyRepository{col: db.Collection("agg_occupancy")}
}

func (r *OccupancyRepository) ByID(ctx context.Context, id domainoccupancy.OccupancyID) (*domainoccupancy.Occupancy, error) {
	var doc occupancyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainoccupancy.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *OccupancyRepository) ByRoom(ctx context.Context, roomID domainroom.RoomID) (*domainoccupancy.Occupancy, error) {
	var doc occupancyDocument
	if err := r.col.FindOne(ctx, bson.M{"room_id": string(roomID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainoccupancy.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *OccupancyRepository) List(ctx context.Context) ([]*domainoccupancy.Occupancy, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainoccupancy.Occupancy
	for cur.Next(ctx) {
		var doc occupancyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *OccupancyRepository) Save(ctx context.Context, o *domainoccupancy.Occupancy) error {
	doc := newOccupancyDocument(o)
	filter := bson.M{"_id": doc.ID, "version": o.Version}
	doc.Version = o.Version + 1
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
	o.Version = doc.Version
	return nil
}

func (r *OccupancyRepository) Delete(ctx context.Context, id domainoccupancy.OccupancyID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainoccupancy.ErrNotFound
	}
	return nil
}

type occupancyDocument struct {
	ID         string              `bson:"_id"`
	RoomID     string              `bson:"room_id"`
	CheckIn    int64               `bson:"check_in"`
	CheckOut   *int64              `bson:"check_out,omitempty"`
	Extras     []extraDocument     `bson:"extras,omitempty"`
	Surcharges []surchargeDocument `bson:"surcharges,omitempty"`
	Note       *noteDocument       `bson:"note,omitempty"`
	Documents  []identityDocument  `bson:"documents,omitempty"`
	Vehicles   []vehicleDocument   `bson:"vehicles,omitempty"`
	CreatedAt  int64               `bson:"created_at"`
	UpdatedAt  int64               `bson:"updated_at"`
	Version    int64               `bson:"version"`
}

type extraDocument struct {
	UtilityID string `bson:"utility_id"`
	Name      string `bson:"name"`
	UnitPrice string `bson:"unit_price"`
	Quantity  int64  `bson:"quantity"`
}

type surchargeDocument struct {
	Label  string `bson:"label"`
	Amount string `bson:"amount"`
}

type noteDocument struct {
	Content         string `bson:"content,omitempty"`
	Discount        string `bson:"discount"`
	Prepayment      string `bson:"pay_in_advance"`
	NegotiatedPrice string `bson:"negotiated_price"`
}

type identityDocument struct {
	Number      string `bson:"number"`
	Type        string `bson:"type,omitempty"`
	FullName    string `bson:"full_name,omitempty"`
	Address     string `bson:"address,omitempty"`
	BirthDay    string `bson:"birth_day,omitempty"`
	Gender      bool   `bson:"gender"`
	EthnicGroup string `bson:"ethnic_group,omitempty"`
}

type vehicleDocument struct {
	LicensePlate string `bson:"license_plate"`
}

func newOccupancyDocument(o *domainoccupancy.Occupancy) occupancyDocument {
	doc := occupancyDocument{
		ID:        string(o.ID),
		RoomID:    string(o.RoomID),
		CheckIn:   o.CheckIn.UnixMilli(),
		CheckOut:  timePtrToMillis(o.CheckOut),
		CreatedAt: o.CreatedAt.UnixMilli(),
		UpdatedAt: o.UpdatedAt.UnixMilli(),
		Version:   o.Version,
	}
	for _, e := range o.Extras {
		doc.Extras = append(doc.Extras, extraDocument{
			UtilityID: e.UtilityID,
			Name:      e.Name,
			UnitPrice: decString(e.UnitPrice),
			Quantity:  e.Quantity,
		})
	}
	for _, s := range o.Surcharges {
		doc.Surcharges = append(doc.Surcharges, surchargeDocument{Label: s.Label, Amount: decString(s.Amount)})
	}
	if o.Note != nil {
		doc.Note = &noteDocument{
			Content:         o.Note.Content,
			Discount:        decString(o.Note.Discount),
			Prepayment:      decString(o.Note.Prepayment),
			NegotiatedPrice: decString(o.Note.NegotiatedPrice),
		}
	}
	for _, d := range o.Documents {
		doc.Documents = append(doc.Documents, identityDocument(d))
	}
	for _, v := range o.Vehicles {
		doc.Vehicles = append(doc.Vehicles, vehicleDocument(v))
	}
	return doc
}

func (d occupancyDocument) toAggregate() *domainoccupancy.Occupancy {
	o := &domainoccupancy.Occupancy{
		ID:        domainoccupancy.OccupancyID(d.ID),
		RoomID:    domainroom.RoomID(d.RoomID),
		CheckIn:   timestampToTime(d.CheckIn),
		CheckOut:  millisToTimePtr(d.CheckOut),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
	for _, e := range d.Extras {
		o.Extras = append(o.Extras, domainoccupancy.ExtraItem{
			UtilityID: e.UtilityID,
			Name:      e.Name,
			UnitPrice: decFromString(e.UnitPrice),
			Quantity:  e.Quantity,
		})
	}
	for _, s := range d.Surcharges {
		o.Surcharges = append(o.Surcharges, domainoccupancy.Surcharge{Label: s.Label, Amount: decFromString(s.Amount)})
	}
	if d.Note != nil {
		o.Note = &domainoccupancy.Note{
			Content:         d.Note.Content,
			Discount:        decFromString(d.Note.Discount),
			Prepayment:      decFromString(d.Note.Prepayment),
			NegotiatedPrice: decFromString(d.Note.NegotiatedPrice),
		}
	}
	for _, id := range d.Documents {
		o.Documents = append(o.Documents, domainoccupancy.IdentityDocument(id))
	}
	for _, v := range d.Vehicles {
		o.Vehicles = append(o.Vehicles, domainoccupancy.VehicleInfo(v))
	}
	return o
}
