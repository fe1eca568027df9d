package generate_slots

import (
	"context"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	FindOverlap(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error)
}

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// SubjectRepository интерфейс репозитория предметов
type SubjectRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
