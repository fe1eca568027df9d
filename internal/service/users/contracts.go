package users

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter domain.UsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteByTeacherID(ctx context.Context, teacherID int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveByClient(ctx context.Context, clientID int64) (int, error)
	DeleteByClientID(ctx context.Context, clientID int64) error
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
