package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	blockRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/block"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// UseCase use case записи пациента на прием.
// Запись на один слот сериализуется блокировкой специалист+дата, сериализуемой транзакцией
// и уникальным индексом по неотмененным приемам
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	blockRepo       BlockRepository
	locker          Locker
	notifier        Notifier
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	opts            Options
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	blockRepo BlockRepository,
	locker Locker,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		blockRepo:       blockRepo,
		locker:          locker,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		opts:            opts,
		logger:          logger,
	}
}

// Execute выполняет use case записи на прием
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: patient=%d, professional=%d, specialty=%d, date=%s, time=%s",
		req.PatientID, req.ProfessionalID, req.SpecialtyID, req.Date.Format(domain.DateFormat), req.StartTime)

	created, err := uc.book(ctx, req)
	uc.metrics.ObserveBooking(outcome(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d", created.ID)

	// Уведомление и аудит после коммита, ошибки только логируются
	uc.notifier.NotifyNewAppointment(ctx, created)
	uc.notifier.RecordAction(ctx, events.AuditAction{
		ActorID:    created.PatientID,
		Action:     events.ActionAppointmentBooked,
		Entity:     "appointment",
		EntityID:   created.ID,
		Details:    fmt.Sprintf("professional=%d date=%s time=%s", created.ProfessionalID, created.Date.Format(domain.DateFormat), created.StartTime),
		OccurredAt: uc.timeProvider.Now(),
	})

	return fromDomain(created), nil
}

func (uc *UseCase) book(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка времени относительно текущего момента
	now := uc.timeProvider.Now().In(uc.opts.Location)
	date := localDate(req.Date, uc.opts.Location)

	if err := validateBookingTime(date, req.StartTime, now, uc.opts.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("BookAppointment: time validation failed: %v", err)
		return nil, err
	}

	// 3. Блокировка специалист+дата
	key := lockKey(req.ProfessionalID, date)
	waitStart := time.Now()
	release, err := uc.locker.Acquire(ctx, key, uc.opts.LockTimeout)
	uc.metrics.ObserveLockWait(time.Since(waitStart), err == nil)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			uc.logger.Warn("BookAppointment: lock %s not acquired within %s", key, uc.opts.LockTimeout)
			return nil, fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
		}
		uc.logger.Error("BookAppointment: failed to acquire lock %s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to acquire lock: %v", ErrInternal, err)
	}
	defer release()

	// 4. Сериализуемая транзакция с повтором при конфликте сериализации
	var created *domain.Appointment
	for attempt := 0; attempt <= uc.opts.MaxRetries; attempt++ {
		created, err = uc.tryBook(ctx, req, date)
		if !errors.Is(err, errRetry) {
			break
		}
		uc.logger.Warn("BookAppointment: serialization conflict, attempt %d/%d", attempt+1, uc.opts.MaxRetries+1)
	}

	if errors.Is(err, errRetry) {
		uc.logger.Warn("BookAppointment: retries exhausted for %s %s", key, req.StartTime)
		return nil, fmt.Errorf("%w: concurrent booking", ErrSlotUnavailable)
	}
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (uc *UseCase) tryBook(ctx context.Context, req *Request, date time.Time) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Активный шаблон без кэша
		template, err := uc.scheduleRepo.GetActiveByProfessional(txCtx, req.ProfessionalID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("BookAppointment: professional=%d has no active schedule", req.ProfessionalID)
				return ErrScheduleNotFound
			}
			return uc.storageError("get schedule", err)
		}

		if !template.Covers(date) {
			uc.logger.Warn("BookAppointment: schedule id=%d does not cover %s", template.ID, date.Format(domain.DateFormat))
			return ErrScheduleNotFound
		}

		// 4.2. Нерабочий день неотличим от занятого слота, затем время должно совпадать с началом слота сетки
		cfg := template.ResolveDayConfig(date.Weekday())
		if !cfg.IsWorking {
			uc.logger.Warn("BookAppointment: %s is not a working day for professional=%d",
				date.Format(domain.DateFormat), req.ProfessionalID)
			return ErrSlotUnavailable
		}
		if !domain.IsOnGrid(cfg, req.StartTime) {
			uc.logger.Warn("BookAppointment: %s is not a slot start on %s", req.StartTime, date.Format(domain.DateFormat))
			return fmt.Errorf("%w: %s is not a slot start", ErrInvalidTime, req.StartTime)
		}

		// 4.3. Блокировки и приемы на дату с блокировкой строк (FOR UPDATE)
		blocks, err := uc.blockRepo.ListOverlapping(txCtx, []int64{req.ProfessionalID}, date, date, uc.opts.Policy.Statuses())
		if err != nil {
			return uc.storageError("get blocks", err)
		}

		appointments, err := uc.appointmentRepo.ListActiveByProfessional(txCtx, req.ProfessionalID, date, date)
		if err != nil {
			return uc.storageError("get appointments", err)
		}

		// 4.4. Повторная генерация слотов
		slots := domain.GenerateSlots(domain.SlotInput{
			ProfessionalID: req.ProfessionalID,
			Date:           date,
			Template:       template,
			Blocks:         blocks,
			Appointments:   appointments,
			Policy:         uc.opts.Policy,
		})

		slot, ok := domain.FindSlot(slots, req.StartTime)
		if !ok {
			uc.logger.Warn("BookAppointment: slot %s %s is taken or blocked", date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotUnavailable
		}

		// 4.5. Сохраняем прием
		appointment := &domain.Appointment{
			PatientID:      req.PatientID,
			ProfessionalID: req.ProfessionalID,
			SpecialtyID:    req.SpecialtyID,
			Date:           date,
			StartTime:      slot.Start,
			EndTime:        ptr.Ptr(slot.End),
			Type:           domain.AppointmentType(req.Type),
			Status:         domain.StatusScheduled,
			Observation:    req.Observation,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				uc.logger.Warn("BookAppointment: slot %s %s taken concurrently", date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotUnavailable
			}
			return uc.storageError("create appointment", err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			return nil, errRetry
		}
		return nil, err
	}

	return result, nil
}

// storageError конфликт сериализации превращается в errRetry, остальное во внутреннюю ошибку
func (uc *UseCase) storageError(op string, err error) error {
	if isSerialization(err) {
		return errRetry
	}
	uc.logger.Error("BookAppointment: failed to %s: %v", op, err)
	return fmt.Errorf("%w: failed to %s", ErrInternal, op)
}

func isSerialization(err error) bool {
	return errors.Is(err, appointmentRepo.ErrSerialization) ||
		errors.Is(err, scheduleRepo.ErrSerialization) ||
		errors.Is(err, blockRepo.ErrSerialization) ||
		errors.Is(err, txmanager.ErrSerialization)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeBooked
	case errors.Is(err, keylock.ErrTimeout):
		return OutcomeLockTimeout
	case errors.Is(err, ErrSlotUnavailable):
		return OutcomeSlotUnavailable
	case errors.Is(err, ErrInternal):
		return OutcomeError
	default:
		return OutcomeRejected
	}
}

func lockKey(professionalID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", professionalID, date.Format(domain.DateFormat))
}

// localDate дата запроса как полночь в часовом поясе расписания
func localDate(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
