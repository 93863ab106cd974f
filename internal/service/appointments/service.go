package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Options настройки жизненного цикла приема
type Options struct {
	AllowEarlyStart bool
	Location        *time.Location
}

// Service жизненный цикл приема: scheduled -> in_progress -> finished, scheduled -> cancelled
type Service struct {
	appointmentRepo AppointmentRepository
	actors          ActorResolver
	notifier        Notifier
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewService создает новый экземпляр сервиса приемов
func NewService(
	appointmentRepo AppointmentRepository,
	actors ActorResolver,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	opts Options,
	logger Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		actors:          actors,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// GetAppointment прием по ID. Доступен участникам приема и администратору
func (s *Service) GetAppointment(ctx context.Context, id, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetAppointment: appointment=%d for user=%d", id, actorID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError("GetAppointment", err)
	}

	actor, err := s.resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !appointment.IsParticipant(actorID) {
		s.logger.Warn("GetAppointment: access denied for user=%d to appointment id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListAppointments список приемов пациента или специалиста
func (s *Service) ListAppointments(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListAppointments: user=%d, patient=%v, professional=%v", req.ActorID, req.PatientID, req.ProfessionalID)

	filter := domain.AppointmentsFilter{
		PatientID:        req.PatientID,
		ProfessionalID:   req.ProfessionalID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.Status != nil {
		if !domain.IsValidAppointmentStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *req.Status)
		}
		status := domain.AppointmentStatus(*req.Status)
		filter.Status = &status
	}
	if filter.StartDate != nil && filter.EndDate != nil && domain.IsDateInPast(*filter.EndDate, *filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}

	actor, err := s.resolve(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		// Без явного фильтра показываем приемы самого пользователя
		if filter.PatientID == nil && filter.ProfessionalID == nil {
			self := actor.ID
			if actor.Role == domain.RoleProfessional {
				filter.ProfessionalID = &self
			} else {
				filter.PatientID = &self
			}
		}

		ownsPatient := filter.PatientID != nil && *filter.PatientID == actor.ID
		ownsProfessional := filter.ProfessionalID != nil && *filter.ProfessionalID == actor.ID
		if !ownsPatient && !ownsProfessional {
			s.logger.Warn("ListAppointments: access denied for user=%d", req.ActorID)
			return nil, ErrAccessDenied
		}
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		return nil, s.translateRepoError("ListAppointments", err)
	}

	s.logger.Info("ListAppointments: fetched %d appointments for user=%d", len(list), req.ActorID)
	return models.FromDomainAppointmentList(list), nil
}

// CancelAppointment отменяет прием. Пациент, специалист приема или администратор, только из scheduled
func (s *Service) CancelAppointment(ctx context.Context, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("CancelAppointment: appointment=%d by user=%d", req.AppointmentID, req.ActorID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrValidation, domain.MaxCancellationReasonLength)
	}

	cancelled, err := s.transition(ctx, "CancelAppointment", req.AppointmentID, req.ActorID, domain.StatusCancelled,
		func(actor domain.Actor, a *domain.Appointment) error {
			if !actor.IsAdmin() && !a.IsParticipant(actor.ID) {
				return ErrAccessDenied
			}
			return nil
		},
		func(actor domain.Actor, a *domain.Appointment) {
			a.CancelledBy = &actor.ID
			if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
				reason := strings.TrimSpace(*req.Reason)
				a.CancellationReason = &reason
			}
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyCancelled(ctx, cancelled)
	return models.FromDomainAppointment(cancelled), nil
}

// StartAppointment начинает прием. Специалист приема или администратор, только из scheduled
func (s *Service) StartAppointment(ctx context.Context, id, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("StartAppointment: appointment=%d by user=%d", id, actorID)

	started, err := s.transition(ctx, "StartAppointment", id, actorID, domain.StatusInProgress,
		func(actor domain.Actor, a *domain.Appointment) error {
			if !actor.IsAdmin() && !actor.Is(a.ProfessionalID) {
				return ErrAccessDenied
			}
			if !s.opts.AllowEarlyStart && a.Status == domain.StatusScheduled && s.now().Before(s.startsAt(a)) {
				return ErrTooEarly
			}
			return nil
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(started), nil
}

// FinishAppointment завершает прием. Специалист приема или администратор, только из in_progress
func (s *Service) FinishAppointment(ctx context.Context, id, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("FinishAppointment: appointment=%d by user=%d", id, actorID)

	finished, err := s.transition(ctx, "FinishAppointment", id, actorID, domain.StatusFinished,
		func(actor domain.Actor, a *domain.Appointment) error {
			if !actor.IsAdmin() && !actor.Is(a.ProfessionalID) {
				return ErrAccessDenied
			}
			return nil
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(finished), nil
}

// transition общий путь смены статуса: чтение с блокировкой строки, проверка прав, переход
// и запись по условию текущего статуса. Проигравший в гонке получает TransitionError
func (s *Service) transition(
	ctx context.Context,
	op string,
	id, actorID int64,
	to domain.AppointmentStatus,
	guard func(actor domain.Actor, a *domain.Appointment) error,
	mutate func(actor domain.Actor, a *domain.Appointment),
) (*domain.Appointment, error) {
	actor, err := s.resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var result *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := guard(actor, appointment); err != nil {
			return err
		}

		from := appointment.Status
		if err := appointment.Transition(to, s.now()); err != nil {
			return err
		}
		if mutate != nil {
			mutate(actor, appointment)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointment, from); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				return domain.NewTransitionError("appointment", string(from), string(to))
			}
			return err
		}

		result = appointment
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAccessDenied):
			s.logger.Warn("%s: access denied for user=%d to appointment id=%d", op, actorID, id)
			return nil, err
		case errors.Is(err, ErrTooEarly), errors.Is(err, domain.ErrInvalidTransition):
			s.logger.Warn("%s: appointment id=%d: %v", op, id, err)
			return nil, err
		default:
			return nil, s.translateRepoError(op, err)
		}
	}

	s.metrics.ObserveTransition(string(to))
	s.notifier.RecordAction(ctx, events.AuditAction{
		ActorID:  actorID,
		Action:   actionFor(to),
		Entity:   "appointment",
		EntityID: result.ID,
	})

	s.logger.Info("%s: appointment id=%d is %s", op, id, result.Status)
	return result, nil
}

func (s *Service) now() time.Time {
	return s.timeProvider.Now().In(s.opts.Location)
}

// startsAt время начала приема в настроенном часовом поясе
func (s *Service) startsAt(a *domain.Appointment) time.Time {
	y, m, d := a.Date.Date()
	return a.StartTime.OnDate(time.Date(y, m, d, 0, 0, 0, 0, s.opts.Location))
}

func (s *Service) resolve(ctx context.Context, userID int64) (domain.Actor, error) {
	actor, err := s.actors.GetActor(ctx, userID)
	if err != nil {
		s.logger.Error("resolve: failed to resolve user=%d: %v", userID, err)
		return domain.Actor{}, fmt.Errorf("%w: resolve actor: %v", ErrInternal, err)
	}
	return actor, nil
}

func (s *Service) translateRepoError(op string, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment not found", op)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func actionFor(to domain.AppointmentStatus) string {
	switch to {
	case domain.StatusCancelled:
		return events.ActionAppointmentCancelled
	case domain.StatusInProgress:
		return events.ActionAppointmentStarted
	case domain.StatusFinished:
		return events.ActionAppointmentFinished
	default:
		return "appointment." + string(to)
	}
}
