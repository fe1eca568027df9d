package teacher_load

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
)

type BookingsService interface {
	TeacherLoad(ctx context.Context, req *models.TeacherLoadRequest) (*models.TeacherLoadResponse, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
