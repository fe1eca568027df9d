package teacher

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/dbmetrics"
	"github.com/v1malina/TCS-ScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с карточками преподавателей
// и их привязками к предметам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория преподавателей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает карточку преподавателя
// ID карточки совпадает с ID пользователя
func (r *Repository) Create(ctx context.Context, teacher *domain.Teacher) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("teachers").
		Columns("id", "bio", "default_mode").
		Values(teacher.ID, teacher.Bio, teacher.DefaultMode).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает карточку преподавателя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "bio", "default_mode").
		From("teachers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var teacher domain.Teacher
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&teacher.ID,
		&teacher.Bio,
		&teacher.DefaultMode,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan teacher: %v", ErrScanRow, err)
	}

	return &teacher, nil
}

// Exists проверяет наличие карточки преподавателя
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("teachers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: Exists - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// List получает карточки преподавателей с данными пользователей
// и привязанными предметами
func (r *Repository) List(ctx context.Context, filter domain.TeachersFilter) ([]*domain.TeacherCard, int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	baseBuilder := psqlbuilder.Select(
		"t.id",
		"t.bio",
		"t.default_mode",
		"u.id",
		"u.telegram_id",
		"u.role",
		"u.first_name",
		"u.last_name",
		"u.username",
		"u.phone",
		"u.email",
		"u.is_verified",
	).
		From("teachers t").
		Join("users u ON u.id = t.id")

	countBuilder := psqlbuilder.Select("COUNT(DISTINCT t.id)").
		From("teachers t").
		Join("users u ON u.id = t.id")

	baseBuilder = applyTeachersFilter(baseBuilder, filter)
	countBuilder = applyTeachersFilter(countBuilder, filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: List - scan total: %v", ErrScanRow, err)
	}

	selectBuilder := baseBuilder.OrderBy("u.first_name ASC NULLS LAST", "u.id ASC")
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

	cards := make([]*domain.TeacherCard, 0)
	for rows.Next() {
		var card domain.TeacherCard
		err := rows.Scan(
			&card.Teacher.ID,
			&card.Bio,
			&card.DefaultMode,
			&card.User.ID,
			&card.User.TelegramID,
			&card.User.Role,
			&card.User.FirstName,
			&card.User.LastName,
			&card.User.Username,
			&card.User.Phone,
			&card.User.Email,
			&card.User.IsVerified,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	// пачкой подтягиваем subject_ids
	if err := r.fillSubjectIDs(ctx, cards); err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// GetSubjectIDs получает список ID предметов преподавателя
func (r *Repository) GetSubjectIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("subject_id").
		From("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("subject_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSubjectIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubjectIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetSubjectIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetSubjectIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// ReplaceSubjects заменяет набор предметов преподавателя
// Старые привязки удаляются, новые вставляются одним запросом
func (r *Repository) ReplaceSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReplaceSubjects - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceSubjects - execute delete: %v", ErrExecQuery, err)
	}

	if len(subjectIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("teacher_subjects").
		Columns("teacher_id", "subject_id")
	for _, sid := range subjectIDs {
		insertBuilder = insertBuilder.Values(teacherID, sid)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceSubjects - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceSubjects - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// CountSubjectUsage считает привязки предмета к преподавателям
func (r *Repository) CountSubjectUsage(ctx context.Context, subjectID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("teacher_subjects").
		Where(squirrel.Eq{"subject_id": subjectID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountSubjectUsage - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountSubjectUsage - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Delete удаляет карточку преподавателя вместе с привязками к предметам
// Слоты и брони преподавателя должны быть удалены заранее той же транзакцией
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	subjectsQuery, subjectsArgs, err := psqlbuilder.Delete("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build subjects delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, subjectsQuery, subjectsArgs...); err != nil {
		return fmt.Errorf("%w: Delete - execute subjects delete: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Delete("teachers").
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
		return ErrTeacherNotFound
	}

	return nil
}

// fillSubjectIDs подтягивает subject_ids для набора карточек одним запросом
func (r *Repository) fillSubjectIDs(ctx context.Context, cards []*domain.TeacherCard) error {
	if len(cards) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	teacherIDs := make([]int64, len(cards))
	byID := make(map[int64]*domain.TeacherCard, len(cards))
	for i, card := range cards {
		teacherIDs[i] = card.Teacher.ID
		byID[card.Teacher.ID] = card
		card.SubjectIDs = make([]int64, 0)
	}

	query, args, err := psqlbuilder.Select("teacher_id", "array_agg(subject_id ORDER BY subject_id)").
		From("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": teacherIDs}).
		GroupBy("teacher_id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: fillSubjectIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: fillSubjectIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var teacherID int64
		var subjectIDs pq.Int64Array
		if err := rows.Scan(&teacherID, &subjectIDs); err != nil {
			return fmt.Errorf("%w: fillSubjectIDs - scan row: %v", ErrScanRow, err)
		}
		if card, ok := byID[teacherID]; ok {
			card.SubjectIDs = []int64(subjectIDs)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: fillSubjectIDs - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// applyTeachersFilter добавляет условия фильтра к select builder
func applyTeachersFilter(b squirrel.SelectBuilder, filter domain.TeachersFilter) squirrel.SelectBuilder {
	if filter.Query != nil && *filter.Query != "" {
		like := "%" + *filter.Query + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"u.first_name": like},
			squirrel.ILike{"u.last_name": like},
			squirrel.ILike{"u.username": like},
			squirrel.ILike{"u.email": like},
			squirrel.ILike{"u.phone": like},
		})
	}
	if filter.SubjectID != nil {
		b = b.Join("teacher_subjects tsub ON tsub.teacher_id = t.id").
			Where(squirrel.Eq{"tsub.subject_id": *filter.SubjectID})
	}
	return b
}
