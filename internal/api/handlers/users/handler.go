package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	usersService "github.com/v1malina/TCS-ScheduleService/internal/service/users"
	"github.com/v1malina/TCS-ScheduleService/internal/service/users/models"
)

const (
	msgInvalidUserID     = "некорректный id пользователя"
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidFilter     = "некорректные параметры фильтра"
	msgUserNotFound      = "пользователь не найден"
	msgTelegramIDTaken   = "пользователь с таким telegram id уже существует"
	msgUserHasBookings   = "у пользователя есть активные записи"
	msgTeacherCardExists = "у пользователя есть карточка преподавателя, используйте force=true"
)

type Handler struct {
	service UsersService
	logger  Logger
}

func NewHandler(service UsersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usersService.ErrTelegramIDTaken):
			h.logger.Warn("POST /users - Telegram id %d already taken", req.TelegramID)
			handlers.RespondConflict(w, msgTelegramIDTaken)

		case errors.Is(err, usersService.ErrInvalidInput):
			h.logger.Warn("POST /users - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /users - Failed to create user: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users - User %d created", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// GetByID GET /api/v1/users/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("GET /users/{id} - Invalid user id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	result, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usersService.ErrUserNotFound):
			h.logger.Warn("GET /users/%d - User not found", id)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /users/%d - Failed to get user: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List GET /api/v1/users
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

	req := &models.ListUsersRequest{
		Role:   handlers.QueryString(r, "role"),
		Query:  handlers.QueryString(r, "q"),
		Limit:  limit,
		Offset: offset,
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usersService.ErrInvalidInput):
			h.logger.Warn("GET /users - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /users - Failed to list users: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	h.logger.Info("GET /users - Returned %d of %d users", len(result.Users), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Patch PATCH /api/v1/users/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /users/{id} - Invalid user id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	var req models.PatchUserRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /users/%d - Invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Patch(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usersService.ErrUserNotFound):
			h.logger.Warn("PATCH /users/%d - User not found", id)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, usersService.ErrInvalidInput):
			h.logger.Warn("PATCH /users/%d - Validation failed: %v", id, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /users/%d - Failed to patch user: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /users/%d - User updated", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/users/{id}?force=true
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /users/{id} - Invalid user id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	force := handlers.QueryBool(r, "force")

	if err := h.service.Delete(r.Context(), id, force); err != nil {
		switch {
		case errors.Is(err, usersService.ErrUserNotFound):
			h.logger.Warn("DELETE /users/%d - User not found", id)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, usersService.ErrUserHasBookings):
			h.logger.Warn("DELETE /users/%d - User has active bookings", id)
			handlers.RespondConflict(w, msgUserHasBookings)

		case errors.Is(err, usersService.ErrTeacherCardExists):
			h.logger.Warn("DELETE /users/%d - Teacher card exists, force required", id)
			handlers.RespondConflict(w, msgTeacherCardExists)

		default:
			h.logger.Error("DELETE /users/%d - Failed to delete user: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /users/%d - User deleted (force=%t)", id, force)
	handlers.RespondNoContent(w)
}
