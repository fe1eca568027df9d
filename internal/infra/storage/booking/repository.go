package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/dbmetrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL для нарушения unique constraint
const pgUniqueViolation = "23505"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Нарушение уникального индекса (slot_id, client_id) по неотменённым броням
// конвертируется в ErrDuplicateBooking: это проигранная гонка, которую
// вызывающая сторона отдаёт клиенту как конфликт, а не как внутреннюю ошибку
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("slot_id", "client_id", "status").
		Values(booking.SlotID, booking.ClientID, booking.Status).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slot_id", "client_id", "status").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var booking domain.Booking
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.ClientID,
		&booking.Status,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return &booking, nil
}

// CountActiveBySlot считает неотменённые бронирования слота
// Внутри транзакции с заблокированным слотом результат стабилен
// до commit/rollback
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": domain.BookingCanceled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// HasActiveBySlotAndClient проверяет наличие неотменённой брони клиента на слот
func (r *Repository) HasActiveBySlotAndClient(ctx context.Context, slotID, clientID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID, "client_id": clientID}).
		Where(squirrel.NotEq{"status": domain.BookingCanceled}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBySlotAndClient - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasActiveBySlotAndClient - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// CountActiveByClient считает неотменённые бронирования клиента
// Используется при безопасном удалении пользователя
func (r *Repository) CountActiveByClient(ctx context.Context, clientID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.NotEq{"status": domain.BookingCanceled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByClient - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByClient - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListWithSlots получает бронирования с денормализованными полями слота
// Возвращает страницу и общее число строк под фильтром (для X-Total-Count)
func (r *Repository) ListWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	baseBuilder := psqlbuilder.Select(
		"b.id",
		"b.slot_id",
		"b.client_id",
		"b.status",
		"ts.date",
		"ts.start_time",
		"ts.end_time",
		"ts.teacher_id",
		"ts.subject_id",
	).
		From("bookings b").
		Join("time_slots ts ON ts.id = b.slot_id")

	baseBuilder = applyBookingsFilter(baseBuilder, filter)

	// total под тем же фильтром
	countBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings b").
		Join("time_slots ts ON ts.id = b.slot_id")
	countBuilder = applyBookingsFilter(countBuilder, filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithSlots - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithSlots - scan total: %v", ErrScanRow, err)
	}

	selectBuilder := baseBuilder.
		OrderBy("ts.date DESC", "ts.start_time DESC", "b.id DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.BookingWithSlot, 0)
	for rows.Next() {
		var b domain.BookingWithSlot
		err := rows.Scan(
			&b.ID,
			&b.SlotID,
			&b.ClientID,
			&b.Status,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.TeacherID,
			&b.SubjectID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: ListWithSlots - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: ListWithSlots - rows error: %v", ErrScanRow, err)
	}

	return bookings, total, nil
}

// ExportWithSlots получает все бронирования под фильтром для CSV экспорта
// В отличие от ListWithSlots без пагинации, сортировка хронологическая
func (r *Repository) ExportWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.slot_id",
		"b.client_id",
		"b.status",
		"ts.date",
		"ts.start_time",
		"ts.end_time",
		"ts.teacher_id",
		"ts.subject_id",
	).
		From("bookings b").
		Join("time_slots ts ON ts.id = b.slot_id")

	selectBuilder = applyBookingsFilter(selectBuilder, filter).
		OrderBy("ts.date ASC", "ts.start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExportWithSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ExportWithSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.BookingWithSlot, 0)
	for rows.Next() {
		var b domain.BookingWithSlot
		err := rows.Scan(
			&b.ID,
			&b.SlotID,
			&b.ClientID,
			&b.Status,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.TeacherID,
			&b.SubjectID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ExportWithSlots - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExportWithSlots - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// TeacherLoad агрегирует нагрузку преподавателя за период
// Считаются только подтверждённые бронирования; минуты суммируются из длительностей слотов
func (r *Repository) TeacherLoad(ctx context.Context, teacherID int64, dateFrom, dateTo time.Time) (*domain.TeacherLoad, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(b.id)",
		"COALESCE(SUM(EXTRACT(EPOCH FROM (ts.end_time - ts.start_time)) / 60.0), 0)",
	).
		From("bookings b").
		Join("time_slots ts ON ts.id = b.slot_id").
		Where(squirrel.Eq{"ts.teacher_id": teacherID}).
		Where(squirrel.Eq{"b.status": domain.BookingConfirmed}).
		Where(squirrel.GtOrEq{"ts.date": dateFrom}).
		Where(squirrel.LtOrEq{"ts.date": dateTo}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: TeacherLoad - build select query: %v", ErrBuildQuery, err)
	}

	var lessons int
	var minutes float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&lessons, &minutes); err != nil {
		return nil, fmt.Errorf("%w: TeacherLoad - scan row: %v", ErrScanRow, err)
	}

	minutesTotal := int(minutes)
	return &domain.TeacherLoad{
		TeacherID:    teacherID,
		LessonsCount: lessons,
		MinutesTotal: minutesTotal,
		HoursTotal:   float64(minutesTotal) / 60.0,
	}, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет бронирование
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
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
		return ErrBookingNotFound
	}

	return nil
}

// DeleteBySlotID удаляет все бронирования слота
// Используется при каскадном удалении слота
func (r *Repository) DeleteBySlotID(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBySlotID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteBySlotID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByTeacherSlots удаляет все бронирования слотов преподавателя
// Используется при каскадном удалении преподавателя
func (r *Repository) DeleteByTeacherSlots(ctx context.Context, teacherID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Expr("slot_id IN (SELECT id FROM time_slots WHERE teacher_id = ?)", teacherID)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByTeacherSlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByTeacherSlots - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByClientID удаляет все бронирования клиента
// Вызывается после проверки, что активных броней нет
func (r *Repository) DeleteByClientID(ctx context.Context, clientID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByClientID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByClientID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// applyBookingsFilter добавляет условия фильтра к select builder
func applyBookingsFilter(b squirrel.SelectBuilder, filter domain.BookingsFilter) squirrel.SelectBuilder {
	if filter.TeacherID != nil {
		b = b.Where(squirrel.Eq{"ts.teacher_id": *filter.TeacherID})
	}
	if filter.ClientID != nil {
		b = b.Where(squirrel.Eq{"b.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.SubjectID != nil {
		b = b.Where(squirrel.Eq{"ts.subject_id": *filter.SubjectID})
	}
	if filter.DateFrom != nil {
		b = b.Where(squirrel.GtOrEq{"ts.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		b = b.Where(squirrel.LtOrEq{"ts.date": *filter.DateTo})
	}
	return b
}
