package subjects

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	subjectsService "github.com/v1malina/TCS-ScheduleService/internal/service/subjects"
	"github.com/v1malina/TCS-ScheduleService/internal/service/subjects/models"
)

const (
	msgInvalidSubjectID = "некорректный id предмета"
	msgInvalidBody      = "некорректное тело запроса"
	msgInvalidFilter    = "некорректные параметры фильтра"
	msgSubjectNotFound  = "предмет не найден"
	msgSubjectExists    = "предмет с таким названием или кодом уже существует"
	msgSubjectInUse     = "предмет используется преподавателями или слотами"
)

type Handler struct {
	service SubjectsService
	logger  Logger
}

func NewHandler(service SubjectsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/subjects
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /subjects - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, subjectsService.ErrSubjectExists):
			h.logger.Warn("POST /subjects - Subject %q already exists", req.Name)
			handlers.RespondConflict(w, msgSubjectExists)

		case errors.Is(err, subjectsService.ErrInvalidInput):
			h.logger.Warn("POST /subjects - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /subjects - Failed to create subject: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subjects - Subject %d created", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// GetByID GET /api/v1/subjects/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /subjects/{id} - Invalid subject id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, subjectsService.ErrSubjectNotFound):
			h.logger.Warn("GET /subjects/%d - Subject not found", id)
			handlers.RespondNotFound(w, msgSubjectNotFound)

		default:
			h.logger.Error("GET /subjects/%d - Failed to get subject: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /api/v1/subjects
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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

	req := &models.ListSubjectsRequest{
		Query:  handlers.QueryString(r, "q"),
		Limit:  limit,
		Offset: offset,
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /subjects - Failed to list subjects: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /subjects - Returned %d of %d subjects", len(result.Subjects), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Update PATCH /api/v1/subjects/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /subjects/{id} - Invalid subject id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	var req models.UpdateSubjectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /subjects/%d - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, subjectsService.ErrSubjectNotFound):
			h.logger.Warn("PATCH /subjects/%d - Subject not found", id)
			handlers.RespondNotFound(w, msgSubjectNotFound)

		case errors.Is(err, subjectsService.ErrSubjectExists):
			h.logger.Warn("PATCH /subjects/%d - Name or code conflict: %v", id, err)
			handlers.RespondConflict(w, msgSubjectExists)

		case errors.Is(err, subjectsService.ErrInvalidInput):
			h.logger.Warn("PATCH /subjects/%d - Validation failed: %v", id, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /subjects/%d - Failed to update subject: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /subjects/%d - Subject updated", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/subjects/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /subjects/{id} - Invalid subject id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSubjectID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, subjectsService.ErrSubjectNotFound):
			h.logger.Warn("DELETE /subjects/%d - Subject not found", id)
			handlers.RespondNotFound(w, msgSubjectNotFound)

		case errors.Is(err, subjectsService.ErrSubjectInUse):
			h.logger.Warn("DELETE /subjects/%d - Subject in use: %v", id, err)
			handlers.RespondConflict(w, msgSubjectInUse)

		default:
			h.logger.Error("DELETE /subjects/%d - Failed to delete subject: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /subjects/%d - Subject deleted", id)
	handlers.RespondNoContent(w)
}
