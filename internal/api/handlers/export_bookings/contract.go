package export_bookings

import (
	"context"
	"io"

	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
)

type BookingsService interface {
	ExportCSV(ctx context.Context, req *models.ListBookingsRequest, w io.Writer) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
