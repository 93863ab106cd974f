package get_month_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TemplateReader чтение активного шаблона (через кэш)
type TemplateReader interface {
	GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListOverlapping(ctx context.Context, professionalIDs []int64, from, to time.Time, statuses []domain.BlockStatus) ([]*domain.ScheduleBlock, error)
}

// AppointmentRepository интерфейс репозитория приемов
type AppointmentRepository interface {
	ListActiveByProfessionals(ctx context.Context, professionalIDs []int64, from, to time.Time) ([]*domain.Appointment, error)
}

// ProfessionalDirectory справочник специалистов по специальности
type ProfessionalDirectory interface {
	ListProfessionalsBySpecialty(ctx context.Context, specialtyID int64) ([]int64, error)
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
