package commands_test

import (
	"context"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"
	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FetchPending(ctx context.Context) ([]*order.Order, []ports.UnreadableOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	unreadable, _ := args.Get(1).([]ports.UnreadableOrder)
	return orders, unreadable, args.Error(2)
}

func (m *MockOrderRepository) FetchUnnotifiedOffered(ctx context.Context) ([]*order.Order, []ports.UnreadableOrder, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*order.Order)
	unreadable, _ := args.Get(1).([]ports.UnreadableOrder)
	return orders, unreadable, args.Error(2)
}

func (m *MockOrderRepository) TryAssignDriver(ctx context.Context, orderID, driverID kernel.UUID, now time.Time) error {
	args := m.Called(ctx, orderID, driverID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) TryClearDriver(ctx context.Context, orderID, expected kernel.UUID, now time.Time) error {
	args := m.Called(ctx, orderID, expected, now)
	return args.Error(0)
}

func (m *MockOrderRepository) TryRejectOrder(ctx context.Context, orderID kernel.UUID, expectedRevokedAt *time.Time) error {
	args := m.Called(ctx, orderID, expectedRevokedAt)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateCustomerLocation(ctx context.Context, orderID kernel.UUID, loc kernel.Location) error {
	args := m.Called(ctx, orderID, loc)
	return args.Error(0)
}

func (m *MockOrderRepository) TryMarkDriverNotified(ctx context.Context, orderID, driverID kernel.UUID) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

type MockRejectionLedger struct{ mock.Mock }

func (m *MockRejectionLedger) Append(ctx context.Context, record rejection.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRejectionLedger) ListDriversForOrder(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockRejectionLedger) ListForOrder(ctx context.Context, orderID kernel.UUID) ([]rejection.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rejection.Record), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RejectionLedger() ports.RejectionLedger {
	args := m.Called()
	return args.Get(0).(ports.RejectionLedger)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCandidateSelector struct{ mock.Mock }

func (m *MockCandidateSelector) SelectCandidateDriver(
	ctx context.Context,
	o *order.Order,
	excluded []kernel.UUID,
) (kernel.UUID, bool, error) {
	args := m.Called(ctx, o, excluded)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

type MockDispatchNotifier struct{ mock.Mock }

func (m *MockDispatchNotifier) Publish(ctx context.Context, events ...ports.DispatchEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockDriverLocationIndex struct{ mock.Mock }

func (m *MockDriverLocationIndex) UpdateDriverLocation(ctx context.Context, driverID kernel.UUID, loc kernel.Location) error {
	args := m.Called(ctx, driverID, loc)
	return args.Error(0)
}

func (m *MockDriverLocationIndex) RemoveDriver(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

type MockPendingOrdersProcedure struct{ mock.Mock }

func (m *MockPendingOrdersProcedure) AssignOrReassignAllPending(
	ctx context.Context,
	now time.Time,
	policy services.Policy,
) ([]ports.ProcedureResult, error) {
	args := m.Called(ctx, now, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.ProcedureResult), args.Error(1)
}

// mockedStore wires one MockUoW, returned for every Create, to a mocked
// order repository and ledger.
type mockedStore struct {
	factory *MockUoWFactory
	uow     *MockUoW
	orders  *MockOrderRepository
	ledger  *MockRejectionLedger
}

func newMockedStore() mockedStore {
	s := mockedStore{
		factory: new(MockUoWFactory),
		uow:     new(MockUoW),
		orders:  new(MockOrderRepository),
		ledger:  new(MockRejectionLedger),
	}
	s.factory.On("Create").Return(s.uow).Maybe()
	s.uow.On("OrderRepository").Return(s.orders).Maybe()
	s.uow.On("RejectionLedger").Return(s.ledger).Maybe()
	return s
}

func (s mockedStore) assertExpectations(t mock.TestingT) {
	s.orders.AssertExpectations(t)
	s.ledger.AssertExpectations(t)
	s.uow.AssertExpectations(t)
}
