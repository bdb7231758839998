package sweep_test

import (
	"errors"
	"testing"
	"time"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	driverID := kernel.NewUUID()

	outcomes := []sweep.Outcome{
		sweep.AssignedTo(kernel.NewUUID(), driverID),
		sweep.RejectedOrder(kernel.NewUUID()),
		sweep.Pending(kernel.NewUUID()),
		sweep.Pending(kernel.NewUUID()),
		sweep.Failed(kernel.NewUUID(), errors.New("store unavailable")),
	}

	r := sweep.NewReport(sweep.ModeInline, now, outcomes)

	assert.Equal(t, sweep.ModeInline, r.Mode)
	assert.Equal(t, now, r.Now)
	assert.Equal(t, 5, r.Checked)
	assert.Equal(t, 1, r.Assigned)
	assert.Equal(t, 1, r.Rejected)
	assert.Equal(t, 1, r.Errors)
	assert.Equal(t, 2, r.StillPending())
	assert.Empty(t, r.Failure)
	require.NotNil(t, r.Outcomes[0].DriverID)
	assert.True(t, r.Outcomes[0].DriverID.IsEqual(driverID))
	assert.Equal(t, "store unavailable", r.Outcomes[4].Error)
}

func TestFailedReport(t *testing.T) {
	r := sweep.FailedReport(sweep.ModeDelegated, time.Now(), errors.New("procedure missing"))

	assert.Equal(t, "procedure missing", r.Failure)
	assert.Zero(t, r.Checked)
	assert.NotNil(t, r.Outcomes)
	assert.Empty(t, r.Outcomes)
}

func TestFailed_NilError(t *testing.T) {
	o := sweep.Failed(kernel.NewUUID(), nil)

	assert.Equal(t, sweep.Error, o.Kind)
	assert.Empty(t, o.Error)
}
