package teachers

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/teachers/models"
)

type TeachersService interface {
	Create(ctx context.Context, req *models.CreateTeacherRequest) (*models.TeacherResponse, error)
	GetByID(ctx context.Context, id int64) (*models.TeacherResponse, error)
	List(ctx context.Context, req *models.ListTeachersRequest) (*models.TeacherListResponse, error)
	SetSubjects(ctx context.Context, teacherID int64, req *models.SetSubjectsRequest) error
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
