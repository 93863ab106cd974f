package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Notifier вызывает Publisher с ограничением по времени и не возвращает ошибок.
// Сбой уведомления или аудита логируется и не влияет на результат операции
type Notifier struct {
	publisher *Publisher
	timeout   time.Duration
	log       Logger
}

func NewNotifier(publisher *Publisher, timeout time.Duration, log Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		timeout:   timeout,
		log:       log,
	}
}

func (n *Notifier) NotifyNewAppointment(ctx context.Context, a *domain.Appointment) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	if err := n.publisher.NotifyNewAppointment(ctx, a); err != nil {
		n.log.Warn("NotifyNewAppointment: appointment=%d: %v", a.ID, err)
	}
}

func (n *Notifier) NotifyCancelled(ctx context.Context, a *domain.Appointment) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	if err := n.publisher.NotifyCancelled(ctx, a); err != nil {
		n.log.Warn("NotifyCancelled: appointment=%d: %v", a.ID, err)
	}
}

func (n *Notifier) RecordAction(ctx context.Context, action AuditAction) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	if err := n.publisher.RecordAction(ctx, action); err != nil {
		n.log.Warn("RecordAction: action=%s entity=%s/%d: %v", action.Action, action.Entity, action.EntityID, err)
	}
}

// detach не наследует отмену запроса, чтобы событие ушло после ответа клиенту
func (n *Notifier) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if n.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, n.timeout)
}
