package block

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

const table = "schedule_blocks"

var columns = []string{
	"id",
	"professional_id",
	"kind",
	"block_date",
	"start_date",
	"end_date",
	"start_time",
	"end_time",
	"reason",
	"status",
	"approved_by",
	"approved_at",
	"rejection_reason",
	"created_by",
	"created_at",
	"updated_at",
}

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий блокировок расписания
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет блокировку
func (r *Repository) Create(ctx context.Context, b *domain.ScheduleBlock) (*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"professional_id",
			"kind",
			"block_date",
			"start_date",
			"end_date",
			"start_time",
			"end_time",
			"reason",
			"status",
			"approved_by",
			"approved_at",
			"created_by",
		).
		Values(
			b.ProfessionalID,
			b.Kind,
			formatOptionalDate(b.Date),
			formatOptionalDate(b.StartDate),
			formatOptionalDate(b.EndDate),
			b.StartTime,
			b.EndTime,
			b.Reason,
			b.Status,
			b.ApprovedBy,
			b.ApprovedAt,
			b.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает блокировку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ScheduleBlock, error) {
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

	b, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan block: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListByProfessional блокировки специалиста, опционально по статусу
func (r *Repository) ListByProfessional(ctx context.Context, professionalID int64, status *domain.BlockStatus) ([]*domain.ScheduleBlock, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("created_at DESC", "id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.query(ctx, "ListByProfessional", selectBuilder)
}

// ListOverlapping блокировки специалистов, пересекающие диапазон дат [from, to], в указанных статусах.
// Одиночные блокировки сравниваются по block_date, диапазонные по пересечению интервалов.
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListOverlapping(
	ctx context.Context,
	professionalIDs []int64,
	from, to time.Time,
	statuses []domain.BlockStatus,
) ([]*domain.ScheduleBlock, error) {
	if len(professionalIDs) == 0 || len(statuses) == 0 {
		return []*domain.ScheduleBlock{}, nil
	}

	fromStr, toStr := from.Format(domain.DateFormat), to.Format(domain.DateFormat)
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.Eq{"status": statusStrings}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"kind": domain.BlockSingleDay},
				squirrel.GtOrEq{"block_date": fromStr},
				squirrel.LtOrEq{"block_date": toStr},
			},
			squirrel.And{
				squirrel.Eq{"kind": domain.BlockRange},
				squirrel.LtOrEq{"start_date": toStr},
				squirrel.GtOrEq{"end_date": fromStr},
			},
		}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "ListOverlapping", selectBuilder)
}

// UpdateDecision сохраняет решение по блокировке, если она всё ещё в статусе from
func (r *Repository) UpdateDecision(ctx context.Context, b *domain.ScheduleBlock, from domain.BlockStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", b.Status).
		Set("approved_by", b.ApprovedBy).
		Set("approved_at", b.ApprovedAt).
		Set("rejection_reason", b.RejectionReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Delete удаляет блокировку в любом статусе
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.ScheduleBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsRetryable(err) {
			return nil, fmt.Errorf("%w: %s", ErrSerialization, op)
		}
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	blocks := make([]*domain.ScheduleBlock, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.ScheduleBlock, error) {
	var b domain.ScheduleBlock
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.ProfessionalID,
		&b.Kind,
		&b.Date,
		&b.StartDate,
		&b.EndDate,
		&b.StartTime,
		&b.EndTime,
		&b.Reason,
		&b.Status,
		&b.ApprovedBy,
		&b.ApprovedAt,
		&b.RejectionReason,
		&b.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

func formatOptionalDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateFormat)
}
