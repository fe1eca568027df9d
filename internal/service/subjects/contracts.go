package subjects

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
)

// SubjectRepository интерфейс репозитория предметов
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) (*domain.Subject, error)
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)
	List(ctx context.Context, filter domain.SubjectsFilter) ([]*domain.Subject, int64, error)
	Update(ctx context.Context, subject *domain.Subject) error
	Delete(ctx context.Context, id int64) error
}

// TeacherRepository интерфейс репозитория преподавателей
type TeacherRepository interface {
	CountSubjectUsage(ctx context.Context, subjectID int64) (int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	CountBySubjectID(ctx context.Context, subjectID int64) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
