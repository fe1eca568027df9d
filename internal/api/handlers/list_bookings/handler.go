package list_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	bookingsService "github.com/v1malina/TCS-ScheduleService/internal/service/bookings"
	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
)

const (
	msgInvalidFilter = "некорректные параметры фильтра"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ParseFilter разбирает query-параметры листинга бронирований.
// Экспортирован для переиспользования обработчиком экспорта.
func ParseFilter(r *http.Request) (*models.ListBookingsRequest, error) {
	teacherID, err := handlers.QueryInt64(r, "teacher_id")
	if err != nil {
		return nil, err
	}
	clientID, err := handlers.QueryInt64(r, "client_id")
	if err != nil {
		return nil, err
	}
	subjectID, err := handlers.QueryInt64(r, "subject_id")
	if err != nil {
		return nil, err
	}
	dateFrom, err := handlers.QueryDate(r, "date_from")
	if err != nil {
		return nil, err
	}
	dateTo, err := handlers.QueryDate(r, "date_to")
	if err != nil {
		return nil, err
	}
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := handlers.QueryInt(r, "offset")
	if err != nil {
		return nil, err
	}

	return &models.ListBookingsRequest{
		TeacherID: teacherID,
		ClientID:  clientID,
		Status:    handlers.QueryString(r, "status"),
		SubjectID: subjectID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// Handle GET /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ParseFilter(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	h.logger.Info("GET /bookings - Returned %d of %d bookings", len(result.Bookings), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
