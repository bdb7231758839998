package commands_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"
	"orderdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustRecordTimeout(t *testing.T, orderID, driverID kernel.UUID) rejection.Record {
	t.Helper()

	r, err := rejection.NewRecord(orderID, driverID, rejection.Timeout, sweepNow.Add(-time.Hour))
	require.NoError(t, err)
	return r
}

func TestRecordDriverDeclineCommandHandler_ClearsOfferOfDecliningDriver(t *testing.T) {
	ctx := t.Context()
	store := newMockedStore()
	notifier := new(MockDispatchNotifier)

	driverID := kernel.NewUUID()
	o := offeredOrder(t, driverID, 5*time.Second)

	mock.InOrder(
		store.uow.On("Begin", mock.Anything).Return(nil).Once(),
		store.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		store.ledger.On("Append", mock.Anything, mock.MatchedBy(func(r rejection.Record) bool {
			return r.DriverID().IsEqual(driverID) && r.Reason() == rejection.Declined
		})).Return(nil).Once(),
		store.orders.On("TryClearDriver", mock.Anything, o.ID(), driverID, sweepNow).Return(nil).Once(),
		store.uow.On("Commit", mock.Anything).Return(nil).Once(),
	)
	store.uow.On("Rollback", mock.Anything).Return(nil).Once()
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	handler := commands.NewRecordDriverDeclineCommandHandler(store.factory, notifier)
	cmd, err := commands.NewRecordDriverDeclineCommand(o.ID(), driverID, sweepNow)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	store.assertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRecordDriverDeclineCommandHandler_PublishFailureIsLoggedNotReturned(t *testing.T) {
	ctx := t.Context()
	store := newMockedStore()
	notifier := new(MockDispatchNotifier)

	driverID := kernel.NewUUID()
	o := offeredOrder(t, driverID, 5*time.Second)

	store.uow.On("Begin", mock.Anything).Return(nil).Once()
	store.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	store.ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	store.orders.On("TryClearDriver", mock.Anything, o.ID(), driverID, sweepNow).Return(nil).Once()
	store.uow.On("Commit", mock.Anything).Return(nil).Once()
	store.uow.On("Rollback", mock.Anything).Return(nil).Once()
	notifier.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	handler := commands.NewRecordDriverDeclineCommandHandler(store.factory, notifier, commands.WithLogger(logger))
	cmd, err := commands.NewRecordDriverDeclineCommand(o.ID(), driverID, sweepNow)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Contains(t, logs.String(), "failed to publish dispatch events")
	assert.Contains(t, logs.String(), "broker down")
	assert.Contains(t, logs.String(), o.ID().String())
	store.assertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRecordDriverDeclineCommandHandler_OtherDriverOnlyRecords(t *testing.T) {
	ctx := t.Context()
	store := newMockedStore()

	offered := kernel.NewUUID()
	declining := kernel.NewUUID()
	o := offeredOrder(t, offered, 5*time.Second)

	store.uow.On("Begin", mock.Anything).Return(nil).Once()
	store.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	store.ledger.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	store.uow.On("Commit", mock.Anything).Return(nil).Once()
	store.uow.On("Rollback", mock.Anything).Return(nil).Once()

	handler := commands.NewRecordDriverDeclineCommandHandler(store.factory, nil)
	cmd, _ := commands.NewRecordDriverDeclineCommand(o.ID(), declining, sweepNow)

	require.NoError(t, handler.Handle(ctx, cmd))

	store.orders.AssertNotCalled(t, "TryClearDriver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.assertExpectations(t)
}

func TestRecordDriverDeclineCommandHandler_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	store := newMockedStore()
	orderID := kernel.NewUUID()

	store.uow.On("Begin", mock.Anything).Return(nil).Once()
	store.orders.On("Get", mock.Anything, orderID).Return(nil, errs.NewObjectNotFoundError("orderId", orderID)).Once()
	store.uow.On("Rollback", mock.Anything).Return(nil).Once()

	handler := commands.NewRecordDriverDeclineCommandHandler(store.factory, nil)
	cmd, _ := commands.NewRecordDriverDeclineCommand(orderID, kernel.NewUUID(), sweepNow)

	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	store.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRecordDriverDeclineCommandHandler_LedgerFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	store := newMockedStore()
	driverID := kernel.NewUUID()
	o := offeredOrder(t, driverID, 5*time.Second)

	store.uow.On("Begin", mock.Anything).Return(nil).Once()
	store.orders.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	store.ledger.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	store.uow.On("Rollback", mock.Anything).Return(nil).Once()

	handler := commands.NewRecordDriverDeclineCommandHandler(store.factory, nil)
	cmd, _ := commands.NewRecordDriverDeclineCommand(o.ID(), driverID, sweepNow)

	require.EqualError(t, handler.Handle(ctx, cmd), "disk full")
	store.uow.AssertNotCalled(t, "Commit", mock.Anything)
	store.orders.AssertNotCalled(t, "TryClearDriver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordDriverDeclineCommandHandler_RejectsUnconstructedCommand(t *testing.T) {
	handler := commands.NewRecordDriverDeclineCommandHandler(new(MockUoWFactory), nil)

	require.ErrorIs(t, handler.Handle(t.Context(), commands.RecordDriverDeclineCommand{}),
		commands.ErrRecordDriverDeclineCommandIsNotConstructed)
}
