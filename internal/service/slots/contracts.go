package slots

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListWithFreeSpots(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error)
	Update(ctx context.Context, slot *domain.TimeSlot) error
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
	DeleteBySlotID(ctx context.Context, slotID int64) error
}

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
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
