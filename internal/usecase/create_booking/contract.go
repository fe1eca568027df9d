package create_booking

import (
	"context"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// GetByIDForUpdate берет блокировку строки слота (SELECT ... FOR UPDATE)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	HasActiveBySlotAndClient(ctx context.Context, slotID, clientID int64) (bool, error)
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
