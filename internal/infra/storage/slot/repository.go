package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/dbmetrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/psqlbuilder"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

var slotColumns = []string{
	"id",
	"teacher_id",
	"subject_id",
	"date",
	"start_time",
	"end_time",
	"mode",
	"lesson_type",
	"capacity",
	"status",
}

// Repository репозиторий для работы со слотами расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"teacher_id",
			"subject_id",
			"date",
			"start_time",
			"end_time",
			"mode",
			"lesson_type",
			"capacity",
			"status",
		).
		Values(
			slot.TeacherID,
			slot.SubjectID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.Mode,
			slot.LessonType,
			slot.Capacity,
			slot.Status,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает слот по ID с эксклюзивной блокировкой строки
// (SELECT ... FOR UPDATE). Должен вызываться только внутри транзакции:
// блокировка сериализует конкурентные попытки бронирования одного слота
// и держится до commit/rollback
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return r.getByID(ctx, id, true)
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.SubjectID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Mode,
		&slot.LessonType,
		&slot.Capacity,
		&slot.Status,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return &slot, nil
}

// FindOverlap ищет первый неотменённый слот преподавателя на указанную дату,
// пересекающийся с интервалом [start, end). Пересечением считается любое
// наложение интервалов; граничные случаи (end == start соседнего) пересечением
// не являются. Возвращает nil, если пересечений нет
func (r *Repository) FindOverlap(
	ctx context.Context,
	teacherID int64,
	date time.Time,
	start, end types.TimeString,
) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"teacher_id": teacherID, "date": date}).
		Where(squirrel.NotEq{"status": domain.SlotCanceled}).
		Where(squirrel.Expr("NOT (end_time <= ? OR start_time >= ?)", start, end)).
		OrderBy("start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.SubjectID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Mode,
		&slot.LessonType,
		&slot.Capacity,
		&slot.Status,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlap - scan slot: %v", ErrScanRow, err)
	}

	return &slot, nil
}

// ListWithFreeSpots получает слоты с вычисленным количеством свободных мест
// free_spots = capacity - количество неотменённых бронирований
func (r *Repository) ListWithFreeSpots(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"ts.id",
		"ts.teacher_id",
		"ts.subject_id",
		"ts.date",
		"ts.start_time",
		"ts.end_time",
		"ts.mode",
		"ts.lesson_type",
		"ts.capacity",
		"ts.status",
		"ts.capacity - COALESCE(b.bcount, 0) AS free_spots",
	).
		From("time_slots ts").
		JoinClause(
			"LEFT JOIN (" +
				"SELECT slot_id, COUNT(*) AS bcount FROM bookings " +
				"WHERE status <> 'canceled' GROUP BY slot_id" +
				") b ON b.slot_id = ts.id",
		).
		OrderBy("ts.date ASC", "ts.start_time ASC")

	if filter.TeacherID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.teacher_id": *filter.TeacherID})
	}
	if filter.SubjectID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.subject_id": *filter.SubjectID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.date": *filter.Date})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"ts.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"ts.date": *filter.DateTo})
	}
	if filter.Mode != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.mode": *filter.Mode})
	}
	if filter.LessonType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.lesson_type": *filter.LessonType})
	}
	if filter.AvailableOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.status": domain.SlotAvailable})
	}
	if filter.FreeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Expr("ts.capacity - COALESCE(b.bcount, 0) > 0"))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFreeSpots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFreeSpots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.SlotWithSpots, 0)
	for rows.Next() {
		var s domain.SlotWithSpots
		err := rows.Scan(
			&s.ID,
			&s.TeacherID,
			&s.SubjectID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.Mode,
			&s.LessonType,
			&s.Capacity,
			&s.Status,
			&s.FreeSpots,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWithFreeSpots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWithFreeSpots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Update обновляет изменяемые поля слота (status, capacity, lesson_type)
func (r *Repository) Update(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", slot.Status).
		Set("capacity", slot.Capacity).
		Set("lesson_type", slot.LessonType).
		Where(squirrel.Eq{"id": slot.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Delete удаляет слот
// Бронирования слота должны быть удалены заранее той же транзакцией
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
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
		return ErrSlotNotFound
	}

	return nil
}

// DeleteByTeacherID удаляет все слоты преподавателя
// Используется при каскадном удалении преподавателя
func (r *Repository) DeleteByTeacherID(ctx context.Context, teacherID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByTeacherID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByTeacherID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// CountBySubjectID считает количество слотов по предмету
// Используется для защиты от удаления используемого предмета
func (r *Repository) CountBySubjectID(ctx context.Context, subjectID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("time_slots").
		Where(squirrel.Eq{"subject_id": subjectID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountBySubjectID - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySubjectID - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
