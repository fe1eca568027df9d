package subject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/dbmetrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository репозиторий для работы с предметами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория предметов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый предмет
// Конфликт уникальности name/code конвертируется в ErrSubjectExists
func (r *Repository) Create(ctx context.Context, subject *domain.Subject) (*domain.Subject, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("subjects").
		Columns("name", "code").
		Values(subject.Name, subject.Code).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&subject.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrSubjectExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return subject, nil
}

// GetByID получает предмет по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "code").
		From("subjects").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var subject domain.Subject
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Code,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan subject: %v", ErrScanRow, err)
	}

	return &subject, nil
}

// List получает страницу предметов и общее число под фильтром
func (r *Repository) List(ctx context.Context, filter domain.SubjectsFilter) ([]*domain.Subject, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countBuilder := psqlbuilder.Select("COUNT(*)").From("subjects")
	countBuilder = applySubjectsFilter(countBuilder, filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan total: %v", ErrScanRow, err)
	}

	selectBuilder := psqlbuilder.Select("id", "name", "code").
		From("subjects").
		OrderBy("id ASC")
	selectBuilder = applySubjectsFilter(selectBuilder, filter)

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	subjects := make([]*domain.Subject, 0)
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code); err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		subjects = append(subjects, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return subjects, total, nil
}

// Update обновляет предмет
func (r *Repository) Update(ctx context.Context, subject *domain.Subject) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("subjects").
		Set("name", subject.Name).
		Set("code", subject.Code).
		Where(squirrel.Eq{"id": subject.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrSubjectExists
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSubjectNotFound
	}

	return nil
}

// Delete удаляет предмет
// Использование предмета проверяется на уровне сервиса
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("subjects").
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
		return ErrSubjectNotFound
	}

	return nil
}

// applySubjectsFilter добавляет условия фильтра к select builder
func applySubjectsFilter(b squirrel.SelectBuilder, filter domain.SubjectsFilter) squirrel.SelectBuilder {
	if filter.Query != nil && *filter.Query != "" {
		like := "%" + *filter.Query + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"code": like},
		})
	}
	return b
}
