package patch_slot

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	slotsService "github.com/v1malina/TCS-ScheduleService/internal/service/slots"
	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
)

const (
	msgInvalidSlotID       = "некорректный id слота"
	msgInvalidBody         = "некорректное тело запроса"
	msgEmptyPatch          = "не указано ни одного поля для изменения"
	msgSlotNotFound        = "слот не найден"
	msgCapacityBelowBooked = "вместимость не может быть меньше числа активных записей"
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

// Handle PATCH /api/v1/slots/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /slots/{id} - Invalid slot id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.PatchSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/%d - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if req.IsEmpty() {
		h.logger.Warn("PATCH /slots/%d - Empty patch", id)
		handlers.RespondBadRequest(w, msgEmptyPatch)
		return
	}

	result, err := h.service.Patch(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/%d - Slot not found", id)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrCapacityBelowBooked):
			h.logger.Warn("PATCH /slots/%d - Capacity below booked: %v", id, err)
			handlers.RespondBadRequest(w, msgCapacityBelowBooked)

		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("PATCH /slots/%d - Validation failed: %v", id, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /slots/%d - Failed to patch slot: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/%d - Slot updated", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}
