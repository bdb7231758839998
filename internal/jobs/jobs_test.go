package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/sweep"
	"orderdispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockSweepRunner struct {
	mock.Mock
}

func (m *MockSweepRunner) Handle(ctx context.Context, command commands.SweepPendingOrdersCommand) (sweep.Report, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(sweep.Report), args.Error(1)
}

type MockRejectRunner struct {
	mock.Mock
}

func (m *MockRejectRunner) Handle(ctx context.Context, command commands.RejectExpiredOrdersCommand) (sweep.Report, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(sweep.Report), args.Error(1)
}

type MockNotifyRunner struct {
	mock.Mock
}

func (m *MockNotifyRunner) Handle(
	ctx context.Context,
	command commands.NotifyLocationChangesCommand,
) (commands.NotifyLocationChangesResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.NotifyLocationChangesResult), args.Error(1)
}

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func TestDispatchSweepJob_RunUsesClockPolicyAndDeadline(t *testing.T) {
	runner := &MockSweepRunner{}
	policy, err := services.NewPolicy(10*time.Second, 20*time.Second)
	require.NoError(t, err)

	runner.On("Handle",
		mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}),
		mock.MatchedBy(func(c commands.SweepPendingOrdersCommand) bool {
			return c.Now().Equal(fixedNow) && c.Policy() == policy
		}),
	).Return(sweep.NewReport(sweep.ModeInline, fixedNow, nil), nil).Once()

	job := NewDispatchSweepJob(runner, policy, "* * * * * *", time.Second, discardLogger())
	job.now = func() time.Time { return fixedNow }

	job.Run(t.Context())

	runner.AssertExpectations(t)
}

func TestDispatchSweepJob_RunWithoutDeadline(t *testing.T) {
	runner := &MockSweepRunner{}
	runner.On("Handle",
		mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return !ok
		}),
		mock.Anything,
	).Return(sweep.Report{}, errors.New("boom")).Once()

	job := NewDispatchSweepJob(runner, services.DefaultPolicy(), "* * * * * *", 0, discardLogger())

	job.Run(context.Background())

	runner.AssertExpectations(t)
}

func TestDispatchSweepJob_InvalidScheduleFailsStart(t *testing.T) {
	job := NewDispatchSweepJob(&MockSweepRunner{}, services.DefaultPolicy(), "not a schedule", time.Second, discardLogger())

	require.Error(t, job.Start())
}

func TestAutoRejectJob_Run(t *testing.T) {
	runner := &MockRejectRunner{}
	policy := services.DefaultPolicy()

	runner.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.RejectExpiredOrdersCommand) bool {
		return c.Now().Equal(fixedNow) && c.Policy() == policy
	})).Return(sweep.NewReport(sweep.ModeRejectExpired, fixedNow, nil), nil).Once()

	job := NewAutoRejectJob(runner, policy, "*/5 * * * * *", time.Second, discardLogger())
	job.now = func() time.Time { return fixedNow }

	job.Run(t.Context())

	runner.AssertExpectations(t)
}

func TestLocationNotificationJob_Run(t *testing.T) {
	runner := &MockNotifyRunner{}
	runner.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.NotifyLocationChangesCommand) bool {
		return c.Now().Equal(fixedNow)
	})).Return(commands.NotifyLocationChangesResult{Notified: 2}, nil).Once()

	job := NewLocationNotificationJob(runner, "*/2 * * * * *", discardLogger())
	job.now = func() time.Time { return fixedNow }

	job.Run(t.Context())

	runner.AssertExpectations(t)
}

func TestDispatchSweepJob_StartAndStop(t *testing.T) {
	runner := &MockSweepRunner{}
	runner.On("Handle", mock.Anything, mock.Anything).
		Return(sweep.NewReport(sweep.ModeInline, fixedNow, nil), nil).Maybe()

	job := NewDispatchSweepJob(runner, services.DefaultPolicy(), "@every 1h", time.Second, discardLogger())

	require.NoError(t, job.Start())
	job.Stop()
}

func TestJobManager_StartAllAndStopAllInReverse(t *testing.T) {
	var stopped []string

	first := &MockJob{}
	first.On("Start").Return(nil).Once()
	first.On("Stop").Run(func(mock.Arguments) { stopped = append(stopped, "first") }).Once()

	second := &MockJob{}
	second.On("Start").Return(nil).Once()
	second.On("Stop").Run(func(mock.Arguments) { stopped = append(stopped, "second") }).Once()

	jm := NewJobManager().Add("first", first).Add("second", second)

	require.NoError(t, jm.StartAll())
	jm.StopAll()
	jm.StopAll()

	assert.Equal(t, []string{"second", "first"}, stopped)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestJobManager_StartFailureStopsStartedJobs(t *testing.T) {
	first := &MockJob{}
	first.On("Start").Return(nil).Once()
	first.On("Stop").Once()

	second := &MockJob{}
	second.On("Start").Return(errors.New("bad schedule")).Once()

	third := &MockJob{}

	err := NewJobManager().
		Add("first", first).
		Add("second", second).
		Add("third", third).
		StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start second job")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	third.AssertNotCalled(t, "Start")
	second.AssertNotCalled(t, "Stop")
}
