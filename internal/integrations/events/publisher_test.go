package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type message struct {
	channel string
	payload []byte
}

type recordingBroker struct {
	messages []message
	err      error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, message{channel: channel, payload: payload})
	return nil
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:             42,
		PatientID:      1,
		ProfessionalID: 2,
		SpecialtyID:    3,
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      types.MustTimeString("08:40"),
		Type:           domain.TypeFirstVisit,
		Status:         domain.StatusScheduled,
	}
}

func TestPublisher_NotifyNewAppointment(t *testing.T) {
	broker := &recordingBroker{}
	p := NewPublisher(broker, "scheduling", logger.NewNop())

	require.NoError(t, p.NotifyNewAppointment(context.Background(), testAppointment()))
	require.Len(t, broker.messages, 1)
	assert.Equal(t, "scheduling.appointments.created", broker.messages[0].channel)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(broker.messages[0].payload, &event))
	assert.Equal(t, int64(42), event.AppointmentID)
	assert.Equal(t, "2025-03-10", event.Date)
	assert.Equal(t, "08:40", event.StartTime)
	assert.Equal(t, "scheduled", event.Status)
}

func TestPublisher_NotifyCancelled(t *testing.T) {
	broker := &recordingBroker{}
	p := NewPublisher(broker, "", logger.NewNop())

	a := testAppointment()
	cancelledAt := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	a.Status = domain.StatusCancelled
	a.CancelledBy = ptr.Ptr(int64(1))
	a.CancellationReason = ptr.Ptr("не смогу")
	a.CancelledAt = &cancelledAt

	require.NoError(t, p.NotifyCancelled(context.Background(), a))
	require.Len(t, broker.messages, 1)
	assert.Equal(t, ChannelAppointmentCancelled, broker.messages[0].channel)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(broker.messages[0].payload, &event))
	require.NotNil(t, event.CancelledBy)
	assert.Equal(t, int64(1), *event.CancelledBy)
	assert.True(t, cancelledAt.Equal(event.OccurredAt))
}

func TestPublisher_RecordAction(t *testing.T) {
	broker := &recordingBroker{}
	p := NewPublisher(broker, "", logger.NewNop())

	require.NoError(t, p.RecordAction(context.Background(), AuditAction{ActorID: 9, Action: ActionBlockApproved, Entity: "block", EntityID: 5}))
	require.Len(t, broker.messages, 1)
	assert.Equal(t, ChannelAuditActions, broker.messages[0].channel)

	var action AuditAction
	require.NoError(t, json.Unmarshal(broker.messages[0].payload, &action))
	assert.Equal(t, ActionBlockApproved, action.Action)
	assert.False(t, action.OccurredAt.IsZero())
}

func TestPublisher_BrokerError(t *testing.T) {
	p := NewPublisher(&recordingBroker{err: errors.New("connection refused")}, "", logger.NewNop())

	err := p.NotifyNewAppointment(context.Background(), testAppointment())
	assert.ErrorIs(t, err, ErrPublish)
}

func TestLogBroker(t *testing.T) {
	p := NewPublisher(NewLogBroker(logger.NewNop()), "", logger.NewNop())
	assert.NoError(t, p.RecordAction(context.Background(), AuditAction{Action: ActionScheduleCreated}))
}

type slowBroker struct{}

func (slowBroker) Publish(ctx context.Context, _ string, _ []byte) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNotifier_SwallowsErrorsWithinTimeout(t *testing.T) {
	n := NewNotifier(NewPublisher(slowBroker{}, "", logger.NewNop()), 20*time.Millisecond, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	n.NotifyNewAppointment(ctx, testAppointment())
	n.RecordAction(ctx, AuditAction{Action: ActionAppointmentBooked})
	assert.Less(t, time.Since(start), time.Second)
}
