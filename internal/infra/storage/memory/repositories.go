// Package memory backs the application ports with in-process stores.
// It is the default when no Mongo URI is configured and what the
// handler tests run against. Saves enforce the same version check the
// Mongo repositories do, so optimistic-concurrency paths behave alike.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotelops/internal/app/uow"
	domainbilling "hotelops/internal/domain/billing"
	domainexpense "hotelops/internal/domain/expense"
	domainhotel "hotelops/internal/domain/hotel"
	domainoccupancy "hotelops/internal/domain/occupancy"
	domainpricing "hotelops/internal/domain/pricing"
	domainroom "hotelops/internal/domain/room"
	"hotelops/internal/domain/shared/apperr"
	"hotelops/internal/domain/shared/events"
	domainutility "hotelops/internal/domain/utility"
)

var ErrConcurrentUpdate = apperr.Wrap(apperr.KindConflict, "memory: concurrent update detected", uow.ErrConcurrentUpdate)

// HotelRepository keeps hotels in a map guarded by a RWMutex.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.HotelID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.HotelID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[h.ID]; ok && existing.Version != h.Version {
		return ErrConcurrentUpdate
	}
	h.Version++
	cp := *h
	r.items[h.ID] = &cp
	return nil
}

func (r *HotelRepository) List(ctx context.Context) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RoomRepository keeps rooms in a map guarded by a RWMutex.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainroom.RoomID]*domainroom.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[domainroom.RoomID]*domainroom.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.RoomID) (*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.items[id]
	if !ok {
		return nil, domainroom.ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainroom.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainroom.Room, 0)
	for _, rm := range r.items {
		if rm.HotelID != hotelID {
			continue
		}
		cp := *rm
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[rm.ID]; ok && existing.Version != rm.Version {
		return ErrConcurrentUpdate
	}
	rm.Version++
	cp := *rm
	r.items[rm.ID] = &cp
	return nil
}

// OccupancyRepository keeps stays in a map guarded by a RWMutex.
type OccupancyRepository struct {
	mu    sync.RWMutex
	items map[domainoccupancy.OccupancyID]*domainoccupancy.Occupancy
}

func NewOccupancyRepository() *OccupancyRepository {
	return &OccupancyRepository{items: make(map[domainoccupancy.OccupancyID]*domainoccupancy.Occupancy)}
}

func cloneOccupancy(o *domainoccupancy.Occupancy) *domainoccupancy.Occupancy {
	cp := *o
	cp.EventRecorder = events.EventRecorder{}
	cp.Extras = append([]domainoccupancy.ExtraItem(nil), o.Extras...)
	cp.Surcharges = append([]domainoccupancy.Surcharge(nil), o.Surcharges...)
	cp.Documents = append([]domainoccupancy.IdentityDocument(nil), o.Documents...)
	cp.Vehicles = append([]domainoccupancy.VehicleInfo(nil), o.Vehicles...)
	if o.Note != nil {
		note := *o.Note
		cp.Note = &note
	}
	if o.CheckOut != nil {
		out := *o.CheckOut
		cp.CheckOut = &out
	}
	return &cp
}

func (r *OccupancyRepository) ByID(ctx context.Context, id domainoccupancy.OccupancyID) (*domainoccupancy.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.items[id]
	if !ok {
		return nil, domainoccupancy.ErrNotFound
	}
	return cloneOccupancy(o), nil
}

func (r *OccupancyRepository) ByRoom(ctx context.Context, roomID domainroom.RoomID) (*domainoccupancy.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.items {
		if o.RoomID == roomID {
			return cloneOccupancy(o), nil
		}
	}
	return nil, domainoccupancy.ErrNotFound
}

func (r *OccupancyRepository) List(ctx context.Context) ([]*domainoccupancy.Occupancy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainoccupancy.Occupancy, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, cloneOccupancy(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (r *OccupancyRepository) Save(ctx context.Context, o *domainoccupancy.Occupancy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[o.ID]; ok && existing.Version != o.Version {
		return ErrConcurrentUpdate
	}
	o.Version++
	r.items[o.ID] = cloneOccupancy(o)
	return nil
}

func (r *OccupancyRepository) Delete(ctx context.Context, id domainoccupancy.OccupancyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainoccupancy.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// LedgerRepository keeps pricing ledgers keyed by occupancy.
type LedgerRepository struct {
	mu    sync.RWMutex
	items map[string]*domainpricing.Ledger
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{items: make(map[string]*domainpricing.Ledger)}
}

func cloneLedger(l *domainpricing.Ledger) *domainpricing.Ledger {
	cp := *l
	cp.History = make([]domainpricing.HistoryEntry, len(l.History))
	for i, e := range l.History {
		cp.History[i] = e
		if e.To != nil {
			to := *e.To
			cp.History[i].To = &to
		}
	}
	if l.WindowEnd != nil {
		end := *l.WindowEnd
		cp.WindowEnd = &end
	}
	return &cp
}

func (r *LedgerRepository) ByOccupancy(ctx context.Context, occupancyID string) (*domainpricing.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[occupancyID]
	if !ok {
		return nil, apperr.NotFound("memory: ledger not found")
	}
	return cloneLedger(l), nil
}

func (r *LedgerRepository) Save(ctx context.Context, l *domainpricing.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[l.OccupancyID]; ok && existing.Version != l.Version {
		return ErrConcurrentUpdate
	}
	l.Version++
	r.items[l.OccupancyID] = cloneLedger(l)
	return nil
}

func (r *LedgerRepository) Delete(ctx context.Context, occupancyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[occupancyID]; !ok {
		return apperr.NotFound("memory: ledger not found")
	}
	delete(r.items, occupancyID)
	return nil
}

// UtilityRepository keeps the extras catalog.
type UtilityRepository struct {
	mu    sync.RWMutex
	items map[domainutility.UtilityID]*domainutility.Utility
}

func NewUtilityRepository() *UtilityRepository {
	return &UtilityRepository{items: make(map[domainutility.UtilityID]*domainutility.Utility)}
}

func (r *UtilityRepository) ByID(ctx context.Context, id domainutility.UtilityID) (*domainutility.Utility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainutility.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UtilityRepository) List(ctx context.Context) ([]*domainutility.Utility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainutility.Utility, 0, len(r.items))
	for _, u := range r.items {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UtilityRepository) Save(ctx context.Context, u *domainutility.Utility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[u.ID]; ok && existing.Version != u.Version {
		return ErrConcurrentUpdate
	}
	u.Version++
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *UtilityRepository) Delete(ctx context.Context, id domainutility.UtilityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainutility.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// BillRepository keeps issued bills.
type BillRepository struct {
	mu    sync.RWMutex
	items map[domainbilling.BillID]*domainbilling.Bill
}

func NewBillRepository() *BillRepository {
	return &BillRepository{items: make(map[domainbilling.BillID]*domainbilling.Bill)}
}

func (r *BillRepository) ByID(ctx context.Context, id domainbilling.BillID) (*domainbilling.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbilling.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *BillRepository) List(ctx context.Context, filter domainbilling.ListFilter) ([]*domainbilling.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbilling.Bill, 0)
	for _, b := range r.items {
		if filter.HotelID != "" && b.HotelID != filter.HotelID {
			continue
		}
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if !filter.From.IsZero() && b.CheckOut.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !b.CheckOut.Before(filter.To) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckOut.Before(out[j].CheckOut) })
	return out, nil
}

func (r *BillRepository) Save(ctx context.Context, b *domainbilling.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *BillRepository) Delete(ctx context.Context, id domainbilling.BillID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbilling.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ExpenseRepository keeps logged expenses.
type ExpenseRepository struct {
	mu    sync.RWMutex
	items map[domainexpense.ExpenseID]*domainexpense.Expense
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{items: make(map[domainexpense.ExpenseID]*domainexpense.Expense)}
}

func (r *ExpenseRepository) ByID(ctx context.Context, id domainexpense.ExpenseID) (*domainexpense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domainexpense.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *ExpenseRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID, from, to time.Time) ([]*domainexpense.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainexpense.Expense, 0)
	for _, e := range r.items {
		if e.HotelID != hotelID {
			continue
		}
		if !from.IsZero() && e.SpentAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.SpentAt.Before(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpentAt.Before(out[j].SpentAt) })
	return out, nil
}

func (r *ExpenseRepository) Save(ctx context.Context, e *domainexpense.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.items[e.ID] = &cp
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id domainexpense.ExpenseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainexpense.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
