package subjects

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/subjects/models"
)

type SubjectsService interface {
	Create(ctx context.Context, req *models.CreateSubjectRequest) (*models.SubjectResponse, error)
	GetByID(ctx context.Context, id int64) (*models.SubjectResponse, error)
	List(ctx context.Context, req *models.ListSubjectsRequest) (*models.SubjectListResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateSubjectRequest) (*models.SubjectResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
