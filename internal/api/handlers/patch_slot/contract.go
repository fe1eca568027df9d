package patch_slot

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
)

type SlotsService interface {
	Patch(ctx context.Context, id int64, req *models.PatchSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
