package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgerrors"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "schedule_templates"

var columns = []string{
	"id",
	"professional_id",
	"daily_start",
	"daily_end",
	"break_start",
	"break_end",
	"slot_duration_minutes",
	"gap_minutes",
	"day_overrides",
	"valid_from",
	"valid_to",
	"active",
	"superseded_by",
	"created_by",
	"created_at",
	"updated_at",
}

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий шаблонов расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый шаблон.
// Если у специалиста уже есть активный шаблон, возвращает ErrActiveConflict
func (r *Repository) Create(ctx context.Context, t *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	overrides, err := json.Marshal(t.DayOverrides)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncodeOverrides, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"daily_start",
			"daily_end",
			"break_start",
			"break_end",
			"slot_duration_minutes",
			"gap_minutes",
			"day_overrides",
			"valid_from",
			"valid_to",
			"active",
			"created_by",
		).
		Values(
			t.ProfessionalID,
			t.Global.DailyStart,
			t.Global.DailyEnd,
			t.Global.BreakStart,
			t.Global.BreakEnd,
			t.Global.SlotDurationMinutes,
			t.Global.GapMinutes,
			string(overrides),
			t.ValidFrom.Format(domain.DateFormat),
			formatOptionalDate(t.ValidTo),
			t.Active,
			t.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, translate("Create", err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetByID получает шаблон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan template: %v", ErrScanRow, err)
	}

	return t, nil
}

// GetActiveByProfessional получает активный шаблон специалиста.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы замена шаблона не шла параллельно
func (r *Repository) GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID, "active": true})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProfessional - scan template: %v", ErrScanRow, err)
	}

	return t, nil
}

// ListByProfessional история шаблонов специалиста, новые сверху
func (r *Repository) ListByProfessional(ctx context.Context, professionalID int64) ([]*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate("ListByProfessional", err)
	}
	defer rows.Close()

	templates := make([]*domain.ScheduleTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProfessional - scan row: %v", ErrScanRow, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProfessional - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}

// Deactivate снимает флаг active с шаблона
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	return r.update(ctx, "Deactivate", id, map[string]interface{}{"active": false})
}

// SetSupersededBy связывает старый шаблон с заменившим его
func (r *Repository) SetSupersededBy(ctx context.Context, id int64, supersededBy int64) error {
	return r.update(ctx, "SetSupersededBy", id, map[string]interface{}{"superseded_by": supersededBy})
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

func translate(op string, err error) error {
	switch {
	case pgerrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s - constraint %s", ErrActiveConflict, op, pgerrors.Constraint(err))
	case pgerrors.IsRetryable(err):
		return fmt.Errorf("%w: %s", ErrSerialization, op)
	default:
		return fmt.Errorf("%w: %s - %v", ErrExecQuery, op, err)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row rowScanner) (*domain.ScheduleTemplate, error) {
	var t domain.ScheduleTemplate
	var overrides []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.ProfessionalID,
		&t.Global.DailyStart,
		&t.Global.DailyEnd,
		&t.Global.BreakStart,
		&t.Global.BreakEnd,
		&t.Global.SlotDurationMinutes,
		&t.Global.GapMinutes,
		&overrides,
		&t.ValidFrom,
		&t.ValidTo,
		&t.Active,
		&t.SupersededBy,
		&t.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeOverrides(overrides, &t.DayOverrides); err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}

// decodeOverrides разбирает JSONB массив переопределений; пустой массив означает отсутствие переопределений
func decodeOverrides(data []byte, dst *domain.DayOverrides) error {
	if len(data) == 0 {
		return nil
	}

	var list []*domain.DayOverride
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode day_overrides: %w", err)
	}
	for i := 0; i < len(list) && i < domain.DaysInWeek; i++ {
		dst[i] = list[i]
	}
	return nil
}
