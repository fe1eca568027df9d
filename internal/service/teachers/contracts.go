package teachers

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	GetByID(ctx context.Context, id int64) (*domain.Teacher, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter domain.TeachersFilter) ([]*domain.TeacherCard, int64, error)
	GetSubjectIDs(ctx context.Context, teacherID int64) ([]int64, error)
	ReplaceSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// SubjectRepository интерфейс репозитория предметов
type SubjectRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteByTeacherID(ctx context.Context, teacherID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	DeleteByTeacherSlots(ctx context.Context, teacherID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
