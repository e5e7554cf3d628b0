package occupancy

import (
	"context"
	"time"

	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
	"hotelops/internal/domain/shared/events"

	"github.com/shopspring/decimal"
)

type OccupancyID string

var (
	ErrNotFound      = apperr.NotFound("occupancy: not found")
	ErrExtraNotFound = apperr.NotFound("occupancy: extra not found")
	ErrAlreadyClosed = apperr.Conflict("occupancy: already closed")
)

// Surcharge is an ad-hoc charge added by staff during the stay.
type Surcharge struct {
	Label  string
	Amount decimal.Decimal
}

// ExtraItem is a consumed catalog extra. Name and unit price are snapshots
// taken when the extra was added; later catalog edits do not reprice it.
type ExtraItem struct {
	UtilityID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}

// Note is the single free-text note with its monetary adjustments. A
// positive NegotiatedPrice overrides the computed total entirely.
type Note struct {
	Content         string
	Discount        decimal.Decimal
	Prepayment      decimal.Decimal
	NegotiatedPrice decimal.Decimal
}

// IdentityDocument and VehicleInfo are guest records attached to the stay;
// they never influence pricing.
type IdentityDocument struct {
	Number      string
	Type        string
	FullName    string
	Address     string
	BirthDay    string
	Gender      bool
	EthnicGroup string
}

type VehicleInfo struct {
	LicensePlate string
}

// Occupancy is one ongoing stay of a room. At most one occupancy exists
// per room at a time; the room's occupancy flag enforces that.
type Occupancy struct {
	ID         OccupancyID
	RoomID     room.RoomID
	CheckIn    time.Time
	CheckOut   *time.Time
	Extras     []ExtraItem
	Surcharges []Surcharge
	Note       *Note
	Documents  []IdentityDocument
	Vehicles   []VehicleInfo
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

func New(id OccupancyID, roomID room.RoomID, mode pricing.BillingMode, now time.Time) *Occupancy {
	now = now.UTC()
	o := &Occupancy{
		ID:        id,
		RoomID:    roomID,
		CheckIn:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.Record(Opened{OccupancyID: id, RoomID: roomID, Mode: mode, At: now})
	return o
}

func (o *Occupancy) Closed() bool { return o.CheckOut != nil }

func (o *Occupancy) AddSurcharge(label string, amount decimal.Decimal, now time.Time) error {
	if label == "" {
		return apperr.Validation("occupancy: surcharge label required")
	}
	if amount.IsNegative() {
		return apperr.Validation("occupancy: surcharge amount cannot be negative")
	}
	o.Surcharges = append(o.Surcharges, Surcharge{Label: label, Amount: amount})
	o.UpdatedAt = now.UTC()
	return nil
}

// SetNote replaces the stay's single note.
func (o *Occupancy) SetNote(n Note, now time.Time) error {
	if n.Discount.IsNegative() || n.Prepayment.IsNegative() || n.NegotiatedPrice.IsNegative() {
		return apperr.Validation("occupancy: note amounts cannot be negative")
	}
	o.Note = &n
	o.UpdatedAt = now.UTC()
	return nil
}

// AddExtra records a consumed extra, merging quantity when the same
// catalog item was already consumed at the same snapshot price.
func (o *Occupancy) AddExtra(utilityID, name string, unitPrice decimal.Decimal, quantity int64, now time.Time) error {
	if quantity <= 0 {
		return apperr.Validation("occupancy: extra quantity must be positive")
	}
	for i := range o.Extras {
		if o.Extras[i].UtilityID == utilityID && o.Extras[i].UnitPrice.Equal(unitPrice) {
			o.Extras[i].Quantity += quantity
			o.UpdatedAt = now.UTC()
			return nil
		}
	}
	o.Extras = append(o.Extras, ExtraItem{UtilityID: utilityID, Name: name, UnitPrice: unitPrice, Quantity: quantity})
	o.UpdatedAt = now.UTC()
	return nil
}

// RemoveExtra decrements a consumed extra, dropping the line once the
// quantity reaches zero.
func (o *Occupancy) RemoveExtra(utilityID string, quantity int64, now time.Time) error {
	if quantity <= 0 {
		return apperr.Validation("occupancy: extra quantity must be positive")
	}
	for i := range o.Extras {
		if o.Extras[i].UtilityID != utilityID {
			continue
		}
		o.Extras[i].Quantity -= quantity
		if o.Extras[i].Quantity <= 0 {
			o.Extras = append(o.Extras[:i], o.Extras[i+1:]...)
		}
		o.UpdatedAt = now.UTC()
		return nil
	}
	return ErrExtraNotFound
}

// MoveTo points the stay at a different room after a transfer.
func (o *Occupancy) MoveTo(newRoom room.RoomID, now time.Time) {
	from := o.RoomID
	o.RoomID = newRoom
	o.UpdatedAt = now.UTC()
	o.Record(RoomMoved{OccupancyID: o.ID, FromRoom: from, ToRoom: newRoom, At: now.UTC()})
}

// Close finalizes the stay at checkout time.
func (o *Occupancy) Close(now time.Time) error {
	if o.Closed() {
		return ErrAlreadyClosed
	}
	out := now.UTC()
	o.CheckOut = &out
	o.UpdatedAt = out
	return nil
}

// ExtrasTotal sums consumed extras at their snapshot prices.
func (o *Occupancy) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range o.Extras {
		total = total.Add(e.UnitPrice.Mul(decimal.NewFromInt(e.Quantity)))
	}
	return total
}

// Adjustments assembles the occupancy-side input of the total calculator.
func (o *Occupancy) Adjustments() pricing.Adjustments {
	adj := pricing.Adjustments{}
	for _, s := range o.Surcharges {
		adj.Surcharges = append(adj.Surcharges, s.Amount)
	}
	for _, e := range o.Extras {
		adj.Extras = append(adj.Extras, pricing.ExtraLine{Quantity: e.Quantity, UnitPrice: e.UnitPrice})
	}
	if o.Note != nil {
		adj.Discount = o.Note.Discount
		adj.Prepayment = o.Note.Prepayment
		adj.Negotiated = o.Note.NegotiatedPrice
	}
	return adj
}

type Repository interface {
	ByID(ctx context.Context, id OccupancyID) (*Occupancy, error)
	ByRoom(ctx context.Context, roomID room.RoomID) (*Occupancy, error)
	List(ctx context.Context) ([]*Occupancy, error)
	Save(ctx context.Context, o *Occupancy) error
	Delete(ctx context.Context, id OccupancyID) error
}
