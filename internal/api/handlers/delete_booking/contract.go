package delete_booking

import "context"

type BookingsService interface {
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
