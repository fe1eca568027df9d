package delete_slot

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	slotsService "github.com/v1malina/TCS-ScheduleService/internal/service/slots"
)

const (
	msgInvalidSlotID   = "некорректный id слота"
	msgSlotNotFound    = "слот не найден"
	msgSlotHasBookings = "нельзя удалить слот с активными записями"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/slots/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /slots/{id} - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/%d - Slot not found", id)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrSlotHasBookings):
			h.logger.Warn("DELETE /slots/%d - Slot has active bookings", id)
			handlers.RespondConflict(w, msgSlotHasBookings)

		default:
			h.logger.Error("DELETE /slots/%d - Failed to delete slot: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/%d - Slot deleted", id)
	handlers.RespondNoContent(w)
}
