package delete_slot

import "context"

type SlotsService interface {
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
