package teacher_load

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	bookingsService "github.com/v1malina/TCS-ScheduleService/internal/service/bookings"
	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
)

const (
	msgInvalidParams   = "некорректные параметры отчёта"
	msgTeacherNotFound = "преподаватель не найден"
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

// Handle GET /api/v1/reports/teacher-load
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.QueryInt64(r, "teacher_id")
	if err != nil || teacherID == nil {
		h.logger.Warn("GET /reports/teacher-load - Invalid teacher_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	dateFrom, err := handlers.QueryDate(r, "date_from")
	if err != nil || dateFrom == nil {
		h.logger.Warn("GET /reports/teacher-load - Invalid date_from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	dateTo, err := handlers.QueryDate(r, "date_to")
	if err != nil || dateTo == nil {
		h.logger.Warn("GET /reports/teacher-load - Invalid date_to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	req := &models.TeacherLoadRequest{
		TeacherID: *teacherID,
		DateFrom:  *dateFrom,
		DateTo:    *dateTo,
	}

	result, err := h.service.TeacherLoad(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrTeacherNotFound):
			h.logger.Warn("GET /reports/teacher-load - Teacher %d not found", req.TeacherID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /reports/teacher-load - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /reports/teacher-load - Failed to build report: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reports/teacher-load - Teacher %d: %d lessons", result.TeacherID, result.LessonsCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
