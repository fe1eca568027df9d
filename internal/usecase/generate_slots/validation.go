package generate_slots

import (
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// validateRequest валидирует входные данные запроса
// stepMinutes передаётся уже с применённым значением по умолчанию
func validateRequest(req *Request, stepMinutes int) error {
	if req.TeacherID <= 0 {
		return fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}

	if req.SubjectID <= 0 {
		return fmt.Errorf("%w: subjectID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	// Интервал должен быть строго положительным
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: invalid interval: endTime must be after startTime", ErrInvalidInput)
	}

	if stepMinutes <= 0 {
		return fmt.Errorf("%w: stepMinutes must be positive", ErrInvalidInput)
	}

	lessonType, ok := domain.ParseLessonType(req.LessonType)
	if !ok {
		return fmt.Errorf("%w: unknown lesson type %q", ErrInvalidInput, req.LessonType)
	}

	if !domain.ValidateCapacity(lessonType, req.Capacity) {
		return fmt.Errorf("%w: capacity %d does not match lesson type %q", ErrInvalidInput, req.Capacity, req.LessonType)
	}

	if req.Status != nil {
		if _, ok := domain.ParseSlotStatus(*req.Status); !ok {
			return fmt.Errorf("%w: unknown slot status %q", ErrInvalidInput, *req.Status)
		}
	}

	return nil
}

// candidate полуоткрытый интервал [start, end) будущего слота
type candidate struct {
	start types.TimeString
	end   types.TimeString
}

// carveCandidates нарезает рабочее окно на последовательные интервалы по stepMinutes
// Хвост короче шага отбрасывается, частичные слоты не создаются
func carveCandidates(start, end types.TimeString, stepMinutes int) ([]candidate, error) {
	endMinutes, err := end.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	candidates := make([]candidate, 0)
	cursor := start
	for {
		cursorMinutes, err := cursor.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cursor time: %v", ErrInvalidInput, err)
		}

		if cursorMinutes+stepMinutes > endMinutes {
			break
		}

		next, err := cursor.AddMinutes(stepMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate end out of range: %v", ErrInvalidInput, err)
		}

		candidates = append(candidates, candidate{start: cursor, end: next})
		cursor = next
	}

	if len(candidates) == 0 {
		return nil, ErrNoSlotsFit
	}

	return candidates, nil
}
