package teachers

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	teachersService "github.com/v1malina/TCS-ScheduleService/internal/service/teachers"
	"github.com/v1malina/TCS-ScheduleService/internal/service/teachers/models"
)

const (
	msgInvalidTeacherID = "некорректный id преподавателя"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidFilter    = "некорректные параметры фильтра"
	msgUserNotFound     = "пользователь не найден"
	msgTeacherNotFound  = "преподаватель не найден"
	msgTeacherExists    = "карточка преподавателя уже существует"
	msgSubjectNotFound  = "предмет не найден"
)

type Handler struct {
	service TeachersService
	logger  Logger
}

func NewHandler(service TeachersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/teachers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeacherRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /teachers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, teachersService.ErrUserNotFound):
			h.logger.Warn("POST /teachers - User %d not found", req.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, teachersService.ErrTeacherExists):
			h.logger.Warn("POST /teachers - Teacher card for user %d already exists", req.UserID)
			handlers.RespondConflict(w, msgTeacherExists)

		case errors.Is(err, teachersService.ErrInvalidInput):
			h.logger.Warn("POST /teachers - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /teachers - Failed to create teacher: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /teachers - Teacher %d created", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// GetByID GET /api/v1/teachers/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /teachers/{id} - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, teachersService.ErrTeacherNotFound):
			h.logger.Warn("GET /teachers/%d - Teacher not found", id)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		default:
			h.logger.Error("GET /teachers/%d - Failed to get teacher: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /api/v1/teachers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subjectID, err := handlers.QueryInt64(r, "subject_id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	offset, err := handlers.QueryInt(r, "offset")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	req := &models.ListTeachersRequest{
		Query:     handlers.QueryString(r, "q"),
		SubjectID: subjectID,
		Limit:     limit,
		Offset:    offset,
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /teachers - Failed to list teachers: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /teachers - Returned %d of %d teachers", len(result.Teachers), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// SetSubjects PUT /api/v1/teachers/{id}/subjects
func (h *Handler) SetSubjects(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PUT /teachers/{id}/subjects - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	var req models.SetSubjectsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /teachers/%d/subjects - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.SetSubjects(r.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, teachersService.ErrTeacherNotFound):
			h.logger.Warn("PUT /teachers/%d/subjects - Teacher not found", id)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, teachersService.ErrSubjectNotFound):
			h.logger.Warn("PUT /teachers/%d/subjects - Unknown subject: %v", id, err)
			handlers.RespondBadRequest(w, msgSubjectNotFound)

		default:
			h.logger.Error("PUT /teachers/%d/subjects - Failed to set subjects: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /teachers/%d/subjects - Subjects replaced", id)
	handlers.RespondNoContent(w)
}

// Delete DELETE /api/v1/teachers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /teachers/{id} - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, teachersService.ErrTeacherNotFound):
			h.logger.Warn("DELETE /teachers/%d - Teacher not found", id)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		default:
			h.logger.Error("DELETE /teachers/%d - Failed to delete teacher: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /teachers/%d - Teacher card deleted", id)
	handlers.RespondNoContent(w)
}
