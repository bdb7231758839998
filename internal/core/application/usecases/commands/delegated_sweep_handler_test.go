package commands_test

import (
	"errors"
	"testing"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"
	"orderdispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDelegatedSweepHandler_MapsProcedureOutcomes(t *testing.T) {
	ctx := t.Context()
	procedure := new(MockPendingOrdersProcedure)
	notifier := new(MockDispatchNotifier)

	assignedOrder, driverID := kernel.NewUUID(), kernel.NewUUID()
	rejectedOrder := kernel.NewUUID()
	waitingOrder := kernel.NewUUID()

	procedure.On("AssignOrReassignAllPending", mock.Anything, sweepNow, services.DefaultPolicy()).Return([]ports.ProcedureResult{
		{Outcome: sweep.AssignedTo(assignedOrder, driverID)},
		{Outcome: sweep.RejectedOrder(rejectedOrder)},
		{Outcome: sweep.Pending(waitingOrder)},
	}, nil).Once()
	notifier.On("Publish", mock.Anything, mock.MatchedBy(func(events []ports.DispatchEvent) bool {
		return len(events) == 2 &&
			events[0].Type == ports.OrderOffered && events[0].OrderID.IsEqual(assignedOrder) &&
			events[1].Type == ports.OrderRejected && events[1].OrderID.IsEqual(rejectedOrder)
	})).Return(nil).Once()

	handler := commands.NewDelegatedSweepHandler(procedure, notifier)

	report, err := handler.Handle(ctx, sweepCommand(t))

	require.NoError(t, err)
	assert.Equal(t, sweep.ModeDelegated, report.Mode)
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.StillPending())
	procedure.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDelegatedSweepHandler_PublishesRevokedOffers(t *testing.T) {
	ctx := t.Context()
	procedure := new(MockPendingOrdersProcedure)
	notifier := new(MockDispatchNotifier)

	reassigned, staleDriver, newDriver := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	freed, freedDriver := kernel.NewUUID(), kernel.NewUUID()

	procedure.On("AssignOrReassignAllPending", mock.Anything, sweepNow, mock.Anything).Return([]ports.ProcedureResult{
		{Outcome: sweep.AssignedTo(reassigned, newDriver), RevokedDriverID: &staleDriver},
		{Outcome: sweep.Pending(freed), RevokedDriverID: &freedDriver},
	}, nil).Once()

	var published []ports.DispatchEvent
	notifier.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]ports.DispatchEvent)
	}).Return(nil).Once()

	handler := commands.NewDelegatedSweepHandler(procedure, notifier)

	report, err := handler.Handle(ctx, sweepCommand(t))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.StillPending())
	require.Len(t, published, 3)

	assert.Equal(t, ports.OrderOfferRevoked, published[0].Type)
	assert.True(t, published[0].OrderID.IsEqual(reassigned))
	assert.True(t, published[0].DriverID.IsEqual(staleDriver))

	assert.Equal(t, ports.OrderOffered, published[1].Type)
	assert.True(t, published[1].DriverID.IsEqual(newDriver))

	assert.Equal(t, ports.OrderOfferRevoked, published[2].Type)
	assert.True(t, published[2].OrderID.IsEqual(freed))
	assert.True(t, published[2].DriverID.IsEqual(freedDriver))
	assert.Equal(t, sweepNow, published[2].OccurredAt)
}

func TestDelegatedSweepHandler_ProcedureFailureIsReported(t *testing.T) {
	procedure := new(MockPendingOrdersProcedure)
	notifier := new(MockDispatchNotifier)

	procedure.On("AssignOrReassignAllPending", mock.Anything, sweepNow, mock.Anything).
		Return(nil, errors.New("function assign_or_reassign_pending_orders does not exist")).Once()

	handler := commands.NewDelegatedSweepHandler(procedure, notifier)

	report, err := handler.Handle(t.Context(), sweepCommand(t))

	require.NoError(t, err)
	assert.Contains(t, report.Failure, "does not exist")
	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDelegatedSweepHandler_RejectsUnconstructedCommand(t *testing.T) {
	handler := commands.NewDelegatedSweepHandler(new(MockPendingOrdersProcedure), nil)

	_, err := handler.Handle(t.Context(), commands.SweepPendingOrdersCommand{})

	require.ErrorIs(t, err, commands.ErrSweepPendingOrdersCommandIsNotConstructed)
}
