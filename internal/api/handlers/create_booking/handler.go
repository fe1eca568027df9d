package create_booking

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	createBooking "github.com/v1malina/TCS-ScheduleService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgClientNotFound     = "клиент не найден"
	msgSlotNotFound       = "слот не найден"
	msgSlotNotBookable    = "слот недоступен для бронирования"
	msgPastSlot           = "нельзя забронировать слот на прошедшую дату"
	msgAlreadyBooked      = "у клиента уже есть бронь на этот слот"
	msgSlotFull           = "все места слота заняты"
	msgBookingConflict    = "бронь не создана из-за конкурентного запроса, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotNotBookable):
			h.logger.Warn("POST /bookings - Slot not bookable: slot_id=%d, %v", req.SlotID, err)
			handlers.RespondConflict(w, msgSlotNotBookable)

		case errors.Is(err, createBooking.ErrPastSlot):
			h.logger.Warn("POST /bookings - Past slot: slot_id=%d", req.SlotID)
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, createBooking.ErrAlreadyBooked):
			h.logger.Warn("POST /bookings - Duplicate booking: slot_id=%d, client_id=%d", req.SlotID, req.ClientID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, createBooking.ErrSlotFull):
			h.logger.Warn("POST /bookings - Slot full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, createBooking.ErrBookingConflict):
			h.logger.Warn("POST /bookings - Race lost: slot_id=%d, client_id=%d", req.SlotID, req.ClientID)
			handlers.RespondConflict(w, msgBookingConflict)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: slot_id=%d, client_id=%d, error=%v",
				req.SlotID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, slot_id=%d, client_id=%d",
		result.ID, req.SlotID, req.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
