package get_teacher_slots

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	listSlots "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/list_slots"
	slotsService "github.com/v1malina/TCS-ScheduleService/internal/service/slots"
)

const (
	msgInvalidTeacherID = "некорректный id преподавателя"
	msgInvalidFilter    = "некорректные параметры фильтра"
	msgTeacherNotFound  = "преподаватель не найден"
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

// Handle GET /api/v1/teachers/{teacher_id}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.PathInt64(r, "teacher_id")
	if err != nil {
		h.logger.Warn("GET /teachers/{id}/slots - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	req, err := listSlots.ParseFilter(r)
	if err != nil {
		h.logger.Warn("GET /teachers/%d/slots - Invalid filter: %v", teacherID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.ListByTeacher(r.Context(), teacherID, req)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrTeacherNotFound):
			h.logger.Warn("GET /teachers/%d/slots - Teacher not found", teacherID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("GET /teachers/%d/slots - Validation failed: %v", teacherID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /teachers/%d/slots - Failed to list slots: %v", teacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /teachers/%d/slots - Returned %d slots", teacherID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
