package list_slots

import (
	"context"

	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
)

type SlotsService interface {
	List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
