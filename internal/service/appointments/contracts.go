package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
)

// AppointmentRepository интерфейс репозитория приемов
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error
}

// ActorResolver определяет роль пользователя
type ActorResolver interface {
	GetActor(ctx context.Context, userID int64) (domain.Actor, error)
}

// Notifier уведомления и аудит (best effort)
type Notifier interface {
	NotifyCancelled(ctx context.Context, a *domain.Appointment)
	RecordAction(ctx context.Context, action events.AuditAction)
}

// Metrics учет переходов статусов
type Metrics interface {
	ObserveTransition(to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
