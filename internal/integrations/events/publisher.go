package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Publisher уведомления и аудит
type Publisher struct {
	broker Broker
	prefix string
	log    Logger
}

// NewPublisher prefix добавляется к именам каналов через точку, пустой prefix не добавляется
func NewPublisher(broker Broker, prefix string, log Logger) *Publisher {
	return &Publisher{
		broker: broker,
		prefix: prefix,
		log:    log,
	}
}

// NotifyNewAppointment уведомляет о новой записи
func (p *Publisher) NotifyNewAppointment(ctx context.Context, a *domain.Appointment) error {
	return p.publish(ctx, ChannelAppointmentCreated, newAppointmentEvent(a))
}

// NotifyCancelled уведомляет об отмене записи
func (p *Publisher) NotifyCancelled(ctx context.Context, a *domain.Appointment) error {
	event := newAppointmentEvent(a)
	event.CancelledBy = a.CancelledBy
	event.CancellationReason = a.CancellationReason
	if a.CancelledAt != nil {
		event.OccurredAt = *a.CancelledAt
	}
	return p.publish(ctx, ChannelAppointmentCancelled, event)
}

// RecordAction пишет действие в аудит
func (p *Publisher) RecordAction(ctx context.Context, action AuditAction) error {
	if action.OccurredAt.IsZero() {
		action.OccurredAt = time.Now()
	}
	return p.publish(ctx, ChannelAuditActions, action)
}

func (p *Publisher) channel(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

func (p *Publisher) publish(ctx context.Context, name string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	channel := p.channel(name)
	if err := p.broker.Publish(ctx, channel, payload); err != nil {
		p.log.Warn("Publish: channel=%s failed: %v", channel, err)
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, channel, err)
	}

	return nil
}

func newAppointmentEvent(a *domain.Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:  a.ID,
		PatientID:      a.PatientID,
		ProfessionalID: a.ProfessionalID,
		SpecialtyID:    a.SpecialtyID,
		Date:           a.Date.Format(domain.DateFormat),
		StartTime:      a.StartTime.String(),
		Status:         string(a.Status),
		OccurredAt:     a.UpdatedAt,
	}
}
