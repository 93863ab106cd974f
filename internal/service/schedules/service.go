package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// Service сервис шаблонов расписания
type Service struct {
	scheduleRepo ScheduleRepository
	cache        TemplateCache
	actors       ActorResolver
	audit        AuditRecorder
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	cache TemplateCache,
	actors ActorResolver,
	audit AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		actors:       actors,
		audit:        audit,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateSchedule создает активный шаблон, заменяя текущий.
// Доступно самому специалисту или администратору
func (s *Service) CreateSchedule(ctx context.Context, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("CreateSchedule: professional=%d by user=%d", req.ProfessionalID, req.ActorID)

	// 1. Валидация конфигурации
	template := req.ToDomainTemplate()
	if err := validateTemplate(template); err != nil {
		s.logger.Warn("CreateSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка прав
	if err := s.checkAccess(ctx, req.ActorID, req.ProfessionalID); err != nil {
		return nil, err
	}

	// 3. Замена активного шаблона в одной транзакции
	created, err := s.supersede(ctx, template, 0)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(req.ProfessionalID)
	s.audit.RecordAction(ctx, events.AuditAction{
		ActorID:  req.ActorID,
		Action:   events.ActionScheduleCreated,
		Entity:   "schedule",
		EntityID: created.ID,
	})

	s.logger.Info("CreateSchedule: created schedule id=%d for professional=%d", created.ID, req.ProfessionalID)
	return models.FromDomainSchedule(created), nil
}

// UpdateSchedule применяет изменения к копии активного шаблона и сохраняет ее как новую версию.
// Исходная строка не изменяется, кроме флага active и ссылки superseded_by
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: schedule=%d by user=%d", req.ScheduleID, req.ActorID)

	base, err := s.scheduleRepo.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, s.translateRepoError("UpdateSchedule", err)
	}

	if err := s.checkAccess(ctx, req.ActorID, base.ProfessionalID); err != nil {
		return nil, err
	}

	if !base.Active {
		s.logger.Warn("UpdateSchedule: schedule id=%d is superseded by %v", base.ID, base.SupersededBy)
		return nil, ErrScheduleNotActive
	}

	template := req.Apply(base)
	if err := validateTemplate(template); err != nil {
		s.logger.Warn("UpdateSchedule: validation failed: %v", err)
		return nil, err
	}

	created, err := s.supersede(ctx, template, base.ID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(base.ProfessionalID)
	s.audit.RecordAction(ctx, events.AuditAction{
		ActorID:  req.ActorID,
		Action:   events.ActionScheduleUpdated,
		Entity:   "schedule",
		EntityID: created.ID,
		Details:  fmt.Sprintf("supersedes=%d", base.ID),
	})

	s.logger.Info("UpdateSchedule: schedule id=%d superseded by id=%d", base.ID, created.ID)
	return models.FromDomainSchedule(created), nil
}

// GetActiveSchedule активный шаблон специалиста. Публичный метод
func (s *Service) GetActiveSchedule(ctx context.Context, professionalID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetActiveSchedule: professional=%d", professionalID)

	template, err := s.cache.GetActiveByProfessional(ctx, professionalID)
	if err != nil {
		return nil, s.translateRepoError("GetActiveSchedule", err)
	}

	return models.FromDomainSchedule(template), nil
}

// GetSchedule шаблон по ID, включая замененные версии
func (s *Service) GetSchedule(ctx context.Context, scheduleID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: schedule=%d", scheduleID)

	template, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, s.translateRepoError("GetSchedule", err)
	}

	return models.FromDomainSchedule(template), nil
}

// ListSchedules история версий шаблона специалиста
func (s *Service) ListSchedules(ctx context.Context, professionalID int64) ([]*models.ScheduleResponse, error) {
	templates, err := s.scheduleRepo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, s.translateRepoError("ListSchedules", err)
	}

	result := make([]*models.ScheduleResponse, 0, len(templates))
	for _, t := range templates {
		result = append(result, models.FromDomainSchedule(t))
	}
	return result, nil
}

// supersede деактивирует текущий шаблон, сохраняет новый и связывает их
// supersede деактивирует текущий шаблон и создает новый. baseID != 0 требует,
// чтобы внутри транзакции активным все еще был именно baseID
func (s *Service) supersede(ctx context.Context, template *domain.ScheduleTemplate, baseID int64) (*domain.ScheduleTemplate, error) {
	var created *domain.ScheduleTemplate

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.scheduleRepo.GetActiveByProfessional(txCtx, template.ProfessionalID)
		if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return err
		}

		if baseID != 0 && (current == nil || current.ID != baseID) {
			s.logger.Warn("supersede: schedule id=%d is no longer active for professional=%d", baseID, template.ProfessionalID)
			return ErrScheduleNotActive
		}

		if current != nil {
			if err := s.scheduleRepo.Deactivate(txCtx, current.ID); err != nil {
				return err
			}
		}

		created, err = s.scheduleRepo.Create(txCtx, template)
		if err != nil {
			return err
		}

		if current != nil {
			if err := s.scheduleRepo.SetSupersededBy(txCtx, current.ID, created.ID); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, s.translateRepoError("supersede", err)
	}
	return created, nil
}

func (s *Service) checkAccess(ctx context.Context, actorID, professionalID int64) error {
	actor, err := s.actors.GetActor(ctx, actorID)
	if err != nil {
		s.logger.Error("checkAccess: failed to resolve user=%d: %v", actorID, err)
		return fmt.Errorf("%w: resolve actor: %v", ErrInternal, err)
	}

	if actor.IsAdmin() || actor.Is(professionalID) {
		return nil
	}

	s.logger.Warn("checkAccess: user=%d has no access to schedule of professional=%d", actorID, professionalID)
	return ErrAccessDenied
}

func (s *Service) translateRepoError(op string, err error) error {
	switch {
	case errors.Is(err, ErrScheduleNotActive):
		return ErrScheduleNotActive
	case errors.Is(err, scheduleRepo.ErrScheduleNotFound):
		return ErrScheduleNotFound
	case errors.Is(err, scheduleRepo.ErrActiveConflict),
		errors.Is(err, scheduleRepo.ErrSerialization),
		errors.Is(err, txmanager.ErrSerialization):
		s.logger.Warn("%s: concurrent schedule change: %v", op, err)
		return ErrScheduleConflict
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
