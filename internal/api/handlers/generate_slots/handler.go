package generate_slots

import (
	"errors"
	"net/http"

	"github.com/v1malina/TCS-ScheduleService/internal/api/handlers"
	generateSlots "github.com/v1malina/TCS-ScheduleService/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTeacherID   = "некорректный id преподавателя"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTeacherNotFound    = "преподаватель не найден"
	msgSubjectNotFound    = "предмет не найден"
	msgNoSlotsFit         = "в указанный интервал не помещается ни один слот"
	msgSlotConflict       = "интервал пересекается с существующим слотом"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/teachers/{teacher_id}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	teacherID, err := handlers.PathInt64(r, "teacher_id")
	if err != nil {
		h.logger.Warn("POST /teachers/{id}/slots - Invalid teacher id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /teachers/%d/slots - Invalid request body: %v", teacherID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(teacherID)
	if err != nil {
		h.logger.Warn("POST /teachers/%d/slots - Failed to parse request: %v", teacherID, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrTeacherNotFound):
			h.logger.Warn("POST /teachers/%d/slots - Teacher not found", teacherID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, generateSlots.ErrSubjectNotFound):
			h.logger.Warn("POST /teachers/%d/slots - Subject not found: subject_id=%d", teacherID, req.SubjectID)
			handlers.RespondNotFound(w, msgSubjectNotFound)

		case errors.Is(err, generateSlots.ErrNoSlotsFit):
			h.logger.Warn("POST /teachers/%d/slots - No slots fit: %s-%s", teacherID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgNoSlotsFit)

		case errors.Is(err, generateSlots.ErrSlotConflict):
			h.logger.Warn("POST /teachers/%d/slots - Slot conflict: %v", teacherID, err)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /teachers/%d/slots - Validation failed: %v", teacherID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /teachers/%d/slots - Failed to generate slots: %v", teacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /teachers/%d/slots - Generated %d slots, skipped %d",
		teacherID, result.TotalCreated, result.TotalSkipped)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
