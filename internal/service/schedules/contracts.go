package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
)

// ScheduleRepository интерфейс репозитория шаблонов расписания
type ScheduleRepository interface {
	Create(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleTemplate, error)
	GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.ScheduleTemplate, error)
	Deactivate(ctx context.Context, id int64) error
	SetSupersededBy(ctx context.Context, id int64, supersededBy int64) error
}

// TemplateCache кэш активных шаблонов
type TemplateCache interface {
	GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error)
	Invalidate(professionalID int64)
}

// ActorResolver определяет роль пользователя
type ActorResolver interface {
	GetActor(ctx context.Context, userID int64) (domain.Actor, error)
}

// AuditRecorder аудит действий (best effort)
type AuditRecorder interface {
	RecordAction(ctx context.Context, action events.AuditAction)
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
