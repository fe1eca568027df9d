package bookings

import (
	"context"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error)
	ExportWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, error)
	TeacherLoad(ctx context.Context, teacherID int64, dateFrom, dateTo time.Time) (*domain.TeacherLoad, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
