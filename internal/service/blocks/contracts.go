package blocks

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
)

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	Create(ctx context.Context, b *domain.ScheduleBlock) (*domain.ScheduleBlock, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleBlock, error)
	ListByProfessional(ctx context.Context, professionalID int64, status *domain.BlockStatus) ([]*domain.ScheduleBlock, error)
	UpdateDecision(ctx context.Context, b *domain.ScheduleBlock, from domain.BlockStatus) error
	Delete(ctx context.Context, id int64) error
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
