package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/core/ports"
	"orderdispatch/internal/pkg/errs"
)

// memStore is an in-memory order store and rejection ledger. Calls outside a
// transaction lock per call; a transaction holds the lock from Begin to
// Commit or Rollback and undoes its writes on Rollback.
type memStore struct {
	mu         sync.Mutex
	orders     map[kernel.UUID]*order.Order
	ledger     []rejection.Record
	unreadable []ports.UnreadableOrder
}

func newMemStore(orders ...*order.Order) *memStore {
	s := &memStore{orders: make(map[kernel.UUID]*order.Order)}
	for _, o := range orders {
		s.orders[o.ID()] = o.Clone()
	}
	return s
}

func (s *memStore) Create() commands.UoW {
	return &memUoW{store: s}
}

func (s *memStore) order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Clone()
}

func (s *memStore) records(orderID kernel.UUID) []rejection.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []rejection.Record
	for _, r := range s.ledger {
		if r.OrderID().IsEqual(orderID) {
			out = append(out, r)
		}
	}
	return out
}

type memUoW struct {
	store     *memStore
	inTx      bool
	undo      map[kernel.UUID]*order.Order
	ledgerLen int
}

func (u *memUoW) Begin(_ context.Context) error {
	if u.inTx {
		return nil
	}
	u.store.mu.Lock()
	u.inTx = true
	u.undo = make(map[kernel.UUID]*order.Order)
	u.ledgerLen = len(u.store.ledger)
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if !u.inTx {
		return errors.New("invalid transaction")
	}
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if !u.inTx {
		return errors.New("invalid transaction")
	}
	for id, o := range u.undo {
		u.store.orders[id] = o
	}
	u.store.ledger = u.store.ledger[:u.ledgerLen]
	u.inTx = false
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return memOrderRepo{uow: u}
}

func (u *memUoW) RejectionLedger() ports.RejectionLedger {
	return memLedger{uow: u}
}

// with runs fn under the store lock unless a transaction already holds it.
func (u *memUoW) with(fn func() error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn()
}

// mutate applies fn to the stored order, saving an undo copy inside a transaction.
func (u *memUoW) mutate(id kernel.UUID, fn func(o *order.Order) error) error {
	return u.with(func() error {
		o, ok := u.store.orders[id]
		if !ok {
			return errs.NewObjectNotFoundError("orderId", id)
		}
		if u.inTx {
			if _, saved := u.undo[id]; !saved {
				u.undo[id] = o.Clone()
			}
		}
		return fn(o)
	})
}

type memOrderRepo struct{ uow *memUoW }

func (r memOrderRepo) Add(_ context.Context, o *order.Order) error {
	return r.uow.with(func() error {
		r.uow.store.orders[o.ID()] = o.Clone()
		return nil
	})
}

func (r memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	var out *order.Order
	err := r.uow.with(func() error {
		o, ok := r.uow.store.orders[id]
		if !ok {
			return errs.NewObjectNotFoundError("orderId", id)
		}
		out = o.Clone()
		return nil
	})
	return out, err
}

func (r memOrderRepo) FetchPending(_ context.Context) ([]*order.Order, []ports.UnreadableOrder, error) {
	var out []*order.Order
	err := r.uow.with(func() error {
		for _, o := range r.uow.store.orders {
			if o.Status() == order.Pending {
				out = append(out, o.Clone())
			}
		}
		return nil
	})
	return out, r.uow.store.unreadable, err
}

func (r memOrderRepo) FetchUnnotifiedOffered(_ context.Context) ([]*order.Order, []ports.UnreadableOrder, error) {
	var out []*order.Order
	err := r.uow.with(func() error {
		for _, o := range r.uow.store.orders {
			if o.Status() == order.Pending && o.IsOffered() && o.CustomerLocation() != nil && !o.DriverNotifiedOfLocation() {
				out = append(out, o.Clone())
			}
		}
		return nil
	})
	return out, nil, err
}

func (r memOrderRepo) TryAssignDriver(_ context.Context, orderID, driverID kernel.UUID, now time.Time) error {
	return r.uow.mutate(orderID, func(o *order.Order) error { return o.OfferTo(driverID, now) })
}

func (r memOrderRepo) TryClearDriver(_ context.Context, orderID, expected kernel.UUID, now time.Time) error {
	return r.uow.mutate(orderID, func(o *order.Order) error { return o.RevokeOffer(expected, now) })
}

func (r memOrderRepo) TryRejectOrder(_ context.Context, orderID kernel.UUID, expectedRevokedAt *time.Time) error {
	return r.uow.mutate(orderID, func(o *order.Order) error {
		if !sameInstant(o.OfferRevokedAt(), expectedRevokedAt) {
			return errs.NewPreconditionFailedError("order", orderID, "offer revoke time unchanged")
		}
		return o.Reject()
	})
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r memOrderRepo) UpdateCustomerLocation(_ context.Context, orderID kernel.UUID, loc kernel.Location) error {
	return r.uow.mutate(orderID, func(o *order.Order) error { return o.UpdateCustomerLocation(loc) })
}

func (r memOrderRepo) TryMarkDriverNotified(_ context.Context, orderID, driverID kernel.UUID) error {
	return r.uow.mutate(orderID, func(o *order.Order) error { return o.MarkDriverNotified(driverID) })
}

type memLedger struct{ uow *memUoW }

func (l memLedger) Append(_ context.Context, record rejection.Record) error {
	return l.uow.with(func() error {
		l.uow.store.ledger = append(l.uow.store.ledger, record)
		return nil
	})
}

func (l memLedger) ListDriversForOrder(_ context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	var out []kernel.UUID
	err := l.uow.with(func() error {
		seen := make(map[kernel.UUID]struct{})
		for _, r := range l.uow.store.ledger {
			if !r.OrderID().IsEqual(orderID) {
				continue
			}
			if _, ok := seen[r.DriverID()]; ok {
				continue
			}
			seen[r.DriverID()] = struct{}{}
			out = append(out, r.DriverID())
		}
		return nil
	})
	return out, err
}

func (l memLedger) ListForOrder(_ context.Context, orderID kernel.UUID) ([]rejection.Record, error) {
	var out []rejection.Record
	err := l.uow.with(func() error {
		for _, r := range l.uow.store.ledger {
			if r.OrderID().IsEqual(orderID) {
				out = append(out, r)
			}
		}
		return nil
	})
	return out, err
}

// rosterSelector returns the first driver of its roster that is not excluded.
type rosterSelector struct {
	drivers []kernel.UUID
}

func (s rosterSelector) SelectCandidateDriver(
	_ context.Context,
	_ *order.Order,
	excluded []kernel.UUID,
) (kernel.UUID, bool, error) {
	for _, d := range s.drivers {
		isExcluded := false
		for _, e := range excluded {
			if e.IsEqual(d) {
				isExcluded = true
				break
			}
		}
		if !isExcluded {
			return d, true, nil
		}
	}
	return kernel.UUID{}, false, nil
}

// forgetfulSelector ignores the exclusion set and cycles through its roster.
type forgetfulSelector struct {
	mu      sync.Mutex
	drivers []kernel.UUID
	next    int
}

func (s *forgetfulSelector) SelectCandidateDriver(
	_ context.Context,
	_ *order.Order,
	_ []kernel.UUID,
) (kernel.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.drivers[s.next%len(s.drivers)]
	s.next++
	return d, true, nil
}

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.DispatchEvent
}

func (n *recordingNotifier) Publish(_ context.Context, events ...ports.DispatchEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
	return nil
}

func (n *recordingNotifier) count(eventType ports.DispatchEventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	c := 0
	for _, e := range n.events {
		if e.Type == eventType {
			c++
		}
	}
	return c
}
