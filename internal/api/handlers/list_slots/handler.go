package list_slots

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	slotsService "github.com/v1malina/TCS-ScheduleService/internal/service/slots"
	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
)

const (
	msgInvalidFilter = "некорректные параметры фильтра"
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

// ParseFilter собирает фильтр листинга слотов из query параметров
// Значения берутся как есть, без умолчаний публичной витрины:
// листинг слотов преподавателя использует тот же разбор без фильтра статуса
func ParseFilter(r *http.Request) (*models.ListSlotsRequest, error) {
	teacherID, err := handlers.QueryInt64(r, "teacher_id")
	if err != nil {
		return nil, err
	}
	subjectID, err := handlers.QueryInt64(r, "subject_id")
	if err != nil {
		return nil, err
	}
	date, err := handlers.QueryDate(r, "date")
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

	return &models.ListSlotsRequest{
		TeacherID:  teacherID,
		SubjectID:  subjectID,
		Date:       date,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Mode:       handlers.QueryString(r, "mode"),
		LessonType: handlers.QueryString(r, "lesson_type"),
		FreeOnly:   handlers.QueryBool(r, "free_only"),
	}, nil
}

// Handle GET /api/v1/slots
// Публичная витрина показывает только открытые слоты, и по умолчанию
// только со свободными местами; free_only=false снимает второй фильтр
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ParseFilter(r)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	req.AvailableOnly = true
	if !r.URL.Query().Has("free_only") {
		req.FreeOnly = true
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, slotsService.ErrInvalidInput) {
			h.logger.Warn("GET /slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /slots - Failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Returned %d slots", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
