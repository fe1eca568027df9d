package export_bookings

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	listBookings "github.com/v1malina/TCS-ScheduleService/internal/api/handlers/list_bookings"
	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	bookingsService "github.com/v1malina/TCS-ScheduleService/internal/service/bookings"
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

// Handle GET /api/v1/bookings/export.csv
// Выгрузка собирается в буфер целиком: статус ответа нельзя
// поменять после начала записи тела.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := listBookings.ParseFilter(r)
	if err != nil {
		h.logger.Warn("GET /bookings/export.csv - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), req, &buf); err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /bookings/export.csv - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings/export.csv - Export failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	size := buf.Len()
	filename := fmt.Sprintf("bookings_%s.csv", time.Now().UTC().Format(domain.DateFormat))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("GET /bookings/export.csv - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /bookings/export.csv - Exported %d bytes", size)
}
