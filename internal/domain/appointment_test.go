package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

func TestAppointment_Transition(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		wantErr bool
	}{
		{"start scheduled", StatusScheduled, StatusInProgress, false},
		{"cancel scheduled", StatusScheduled, StatusCancelled, false},
		{"finish in progress", StatusInProgress, StatusFinished, false},
		{"finish scheduled", StatusScheduled, StatusFinished, true},
		{"start cancelled", StatusCancelled, StatusInProgress, true},
		{"cancel in progress", StatusInProgress, StatusCancelled, true},
		{"cancel finished", StatusFinished, StatusCancelled, true},
		{"restart finished", StatusFinished, StatusInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			err := a.Transition(tt.to, now)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.to, a.Status)
				return
			}

			require.ErrorIs(t, err, ErrInvalidTransition)
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, string(tt.from), te.From)
			assert.Equal(t, string(tt.to), te.To)
			assert.Equal(t, tt.from, a.Status)
		})
	}
}

func TestAppointment_TransitionStampsTime(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Appointment{Status: StatusScheduled}

	require.NoError(t, a.Transition(StatusInProgress, at))
	require.NotNil(t, a.StartedAt)
	assert.Equal(t, at, *a.StartedAt)

	require.NoError(t, a.Transition(StatusFinished, at.Add(30*time.Minute)))
	require.NotNil(t, a.FinishedAt)
}

func TestBlock_ApproveReject(t *testing.T) {
	now := time.Now()
	b := &ScheduleBlock{Status: BlockPending}

	require.NoError(t, b.Approve(1, now))
	assert.Equal(t, BlockApproved, b.Status)
	assert.Equal(t, ptr.Ptr(int64(1)), b.ApprovedBy)
	assert.Equal(t, ptr.Ptr(now), b.ApprovedAt)

	assert.ErrorIs(t, b.Reject(1, "late", now), ErrInvalidTransition)

	r := &ScheduleBlock{Status: BlockPending}
	require.NoError(t, r.Reject(2, "coverage needed", now))
	assert.Equal(t, BlockRejected, r.Status)
	assert.Equal(t, ptr.Ptr(int64(2)), r.ApprovedBy)
	assert.Equal(t, ptr.Ptr(now), r.ApprovedAt)
	assert.Equal(t, ptr.Ptr("coverage needed"), r.RejectionReason)
	assert.ErrorIs(t, r.Approve(1, now), ErrInvalidTransition)
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidAppointmentType("follow_up"))
	assert.False(t, IsValidAppointmentType("surgery"))
	assert.True(t, IsValidAppointmentStatus("in_progress"))
	assert.True(t, IsValidBlockStatus("pending"))
	assert.False(t, IsValidBlockStatus("archived"))
}
