package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
)

// AppointmentRepository интерфейс репозитория приемов
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ListActiveByProfessional(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository чтение активного шаблона напрямую из БД, без кэша
type ScheduleRepository interface {
	GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListOverlapping(ctx context.Context, professionalIDs []int64, from, to time.Time, statuses []domain.BlockStatus) ([]*domain.ScheduleBlock, error)
}

// Locker блокировка по ключу специалист+дата
type Locker = keylock.Locker

// Notifier уведомления и аудит (best effort, ошибки не возвращаются)
type Notifier interface {
	NotifyNewAppointment(ctx context.Context, a *domain.Appointment)
	RecordAction(ctx context.Context, action events.AuditAction)
}

// Metrics метрики бронирования
type Metrics interface {
	ObserveBooking(outcome string)
	ObserveLockWait(d time.Duration, acquired bool)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
