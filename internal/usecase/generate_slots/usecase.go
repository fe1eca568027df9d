package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	subjectRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/subject"
)

// UseCase use case для генерации слотов расписания
type UseCase struct {
	slotRepo    SlotRepository
	teacherRepo TeacherRepository
	subjectRepo SubjectRepository
	defaultStep int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	teacherRepo TeacherRepository,
	subjectRepo SubjectRepository,
	defaultStepMinutes int,
	logger Logger,
) *UseCase {
	if defaultStepMinutes <= 0 {
		defaultStepMinutes = domain.DefaultStepMinutes
	}
	return &UseCase{
		slotRepo:    slotRepo,
		teacherRepo: teacherRepo,
		subjectRepo: subjectRepo,
		defaultStep: defaultStepMinutes,
		logger:      logger,
	}
}

// Execute выполняет use case генерации слотов
// Операция намеренно не атомарна между кандидатами: слоты, созданные до
// первого конфликта при skip_conflicts=false, остаются в базе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: teacher=%d, subject=%d, date=%s, window=%s-%s, step=%d, skip_conflicts=%t",
		req.TeacherID, req.SubjectID, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime, req.StepMinutes, req.SkipConflicts)

	// 1. Применяем шаг по умолчанию
	step := req.StepMinutes
	if step == 0 {
		step = uc.defaultStep
	}

	// 2. Валидация входных данных
	if err := validateRequest(req, step); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование преподавателя
	exists, err := uc.teacherRepo.Exists(ctx, req.TeacherID)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to check teacher id=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: failed to check teacher: %v", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("GenerateSlots: teacher id=%d not found", req.TeacherID)
		return nil, ErrTeacherNotFound
	}

	// 4. Проверяем существование предмета
	if _, err := uc.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, subjectRepo.ErrSubjectNotFound) {
			uc.logger.Warn("GenerateSlots: subject id=%d not found", req.SubjectID)
			return nil, ErrSubjectNotFound
		}
		uc.logger.Error("GenerateSlots: failed to get subject id=%d: %v", req.SubjectID, err)
		return nil, fmt.Errorf("%w: failed to get subject: %v", ErrInternal, err)
	}

	// 5. Нарезаем окно на кандидатов
	candidates, err := carveCandidates(req.StartTime, req.EndTime, step)
	if err != nil {
		uc.logger.Warn("GenerateSlots: carving failed: %v", err)
		return nil, err
	}

	lessonType, _ := domain.ParseLessonType(req.LessonType)

	status := domain.SlotAvailable
	if req.Status != nil {
		status, _ = domain.ParseSlotStatus(*req.Status)
	}

	resp := &Response{
		Created:        make([]CreatedSlot, 0, len(candidates)),
		Skipped:        make([]SkippedInterval, 0),
		TotalRequested: len(candidates),
	}

	// 6. Обрабатываем кандидатов в хронологическом порядке
	for _, cand := range candidates {
		// 6.1. Ищем пересечение с существующими неотменёнными слотами
		overlap, err := uc.slotRepo.FindOverlap(ctx, req.TeacherID, req.Date, cand.start, cand.end)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to check overlap for %s-%s: %v", cand.start, cand.end, err)
			return nil, fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}

		if overlap != nil {
			if req.SkipConflicts {
				uc.logger.Info("GenerateSlots: skipping %s-%s, overlaps slot id=%d", cand.start, cand.end, overlap.ID)
				resp.Skipped = append(resp.Skipped, SkippedInterval{StartTime: cand.start, EndTime: cand.end})
				continue
			}

			// Ранее созданные слоты не откатываются
			uc.logger.Warn("GenerateSlots: aborting, %s-%s overlaps slot id=%d", cand.start, cand.end, overlap.ID)
			return nil, fmt.Errorf("%w: interval %s-%s overlaps existing slot id=%d",
				ErrSlotConflict, cand.start, cand.end, overlap.ID)
		}

		// 6.2. Сохраняем слот
		slot := &domain.TimeSlot{
			TeacherID:  req.TeacherID,
			SubjectID:  req.SubjectID,
			Date:       req.Date,
			StartTime:  cand.start,
			EndTime:    cand.end,
			Mode:       req.Mode,
			LessonType: lessonType,
			Capacity:   req.Capacity,
			Status:     status,
		}

		created, err := uc.slotRepo.Create(ctx, slot)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed to create slot %s-%s: %v", cand.start, cand.end, err)
			return nil, fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
		}

		resp.Created = append(resp.Created, CreatedSlot{
			ID:        created.ID,
			StartTime: created.StartTime,
			EndTime:   created.EndTime,
		})
	}

	resp.TotalCreated = len(resp.Created)
	resp.TotalSkipped = len(resp.Skipped)

	uc.logger.Info("GenerateSlots: done, requested=%d, created=%d, skipped=%d",
		resp.TotalRequested, resp.TotalCreated, resp.TotalSkipped)

	return resp, nil
}
