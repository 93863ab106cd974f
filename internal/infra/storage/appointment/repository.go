package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"patient_id",
	"professional_id",
	"specialty_id",
	"appointment_date",
	"start_time",
	"end_time",
	"type",
	"status",
	"observation",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"started_at",
	"finished_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий приемов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория приемов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет прием.
// Занятый слот (частичный уникальный индекс) возвращается как ErrSlotTaken,
// конфликт сериализации как ErrSerialization
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"patient_id",
			"professional_id",
			"specialty_id",
			"appointment_date",
			"start_time",
			"end_time",
			"type",
			"status",
			"observation",
		).
		Values(
			a.PatientID,
			a.ProfessionalID,
			a.SpecialtyID,
			a.Date.Format(domain.DateFormat),
			a.StartTime,
			a.EndTime,
			a.Type,
			a.Status,
			a.Observation,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate("Create", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает прием по ID. Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListActiveByProfessional неотмененные приемы специалиста в диапазоне дат (включительно).
// Для одной даты внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListActiveByProfessional(ctx context.Context, professionalID int64, from, to time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"appointment_date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("appointment_date ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) && domain.IsSameDay(from, to) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("ListActiveByProfessional", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListActiveByProfessionals то же для нескольких специалистов (месячный обзор по специальности)
func (r *Repository) ListActiveByProfessionals(ctx context.Context, professionalIDs []int64, from, to time.Time) ([]*domain.Appointment, error) {
	if len(professionalIDs) == 0 {
		return []*domain.Appointment{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.GtOrEq{"appointment_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"appointment_date": to.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("appointment_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("ListActiveByProfessionals", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// List приемы по фильтру пациента/специалиста, новые сверху
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date DESC", "start_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("List", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus записывает новый статус, только если текущий статус в БД равен from.
// 0 затронутых строк означает, что прием исчез или его статус уже изменили
func (r *Repository) UpdateStatus(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", a.Status).
		Set("started_at", a.StartedAt).
		Set("finished_at", a.FinishedAt).
		Set("cancelled_at", a.CancelledAt).
		Set("cancelled_by", a.CancelledBy).
		Set("cancellation_reason", a.CancellationReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return translate("UpdateStatus", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// translate переводит ошибки драйвера в ошибки репозитория
func translate(op string, err error) error {
	switch {
	case pgerrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s - constraint %s", ErrSlotTaken, op, pgerrors.Constraint(err))
	case pgerrors.IsRetryable(err):
		return fmt.Errorf("%w: %s", ErrSerialization, op)
	default:
		return fmt.Errorf("%w: %s - %v", ErrExecQuery, op, err)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ProfessionalID,
		&a.SpecialtyID,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.Type,
		&a.Status,
		&a.Observation,
		&a.CancelledBy,
		&a.CancellationReason,
		&a.CancelledAt,
		&a.StartedAt,
		&a.FinishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
