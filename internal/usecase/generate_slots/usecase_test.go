package generate_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	subjectRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/subject"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// --- Mocks ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockSlotRepo struct {
	createFn      func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	findOverlapFn func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error)
}

func (m *mockSlotRepo) Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	return m.createFn(ctx, slot)
}

func (m *mockSlotRepo) FindOverlap(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
	return m.findOverlapFn(ctx, teacherID, date, start, end)
}

type mockTeacherRepo struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockTeacherRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

type mockSubjectRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Subject, error)
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	return m.getByIDFn(ctx, id)
}

// --- Helpers ---

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func happyTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}
}

func happySubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Subject, error) {
			return &domain.Subject{ID: id, Name: "Математика"}, nil
		},
	}
}

func sampleRequest(t *testing.T) *Request {
	return &Request{
		TeacherID:   1,
		SubjectID:   2,
		Date:        time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   ts(t, "10:00"),
		EndTime:     ts(t, "13:00"),
		StepMinutes: 45,
		Capacity:    1,
		LessonType:  string(domain.LessonIndividual),
	}
}

// --- Tests ---

func TestGenerateSlots_FullWindow(t *testing.T) {
	var nextID int64
	var created []*domain.TimeSlot

	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
			nextID++
			slot.ID = nextID
			created = append(created, slot)
			return slot, nil
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	// Окно 10:00-13:00 с шагом 45 минут: помещается 4 слота,
	// хвост короче шага отбрасывается
	resp, err := uc.Execute(context.Background(), sampleRequest(t))
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TotalRequested)
	assert.Equal(t, 4, resp.TotalCreated)
	assert.Equal(t, 0, resp.TotalSkipped)
	require.Len(t, resp.Created, 4)

	assert.Equal(t, "10:00", resp.Created[0].StartTime.String())
	assert.Equal(t, "10:45", resp.Created[0].EndTime.String())
	assert.Equal(t, "12:15", resp.Created[3].StartTime.String())
	assert.Equal(t, "13:00", resp.Created[3].EndTime.String())

	// Слоты непрерывны: конец каждого равен началу следующего
	for i := 1; i < len(resp.Created); i++ {
		assert.Equal(t, resp.Created[i-1].EndTime, resp.Created[i].StartTime)
	}

	for _, slot := range created {
		assert.Equal(t, domain.SlotAvailable, slot.Status)
		assert.Equal(t, domain.LessonIndividual, slot.LessonType)
		assert.Equal(t, 1, slot.Capacity)
	}
}

func TestGenerateSlots_RemainderDropped(t *testing.T) {
	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
			slot.ID = 1
			return slot, nil
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.StartTime = ts(t, "10:00")
	req.EndTime = ts(t, "11:00")
	req.StepMinutes = 45

	// 10:00-11:00 с шагом 45: помещается только 10:00-10:45
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Created, 1)
	assert.Equal(t, "10:45", resp.Created[0].EndTime.String())
}

func TestGenerateSlots_NoSlotsFit(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.EndTime = ts(t, "10:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoSlotsFit)
}

func TestGenerateSlots_InvalidInterval(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.EndTime = ts(t, "10:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSlots_NegativeStep(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.StepMinutes = -15

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSlots_CapacityMismatch(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	tests := []struct {
		name       string
		lessonType string
		capacity   int
	}{
		{"individual with capacity above one", string(domain.LessonIndividual), 3},
		{"group with capacity one", string(domain.LessonGroup), 1},
		{"zero capacity", string(domain.LessonIndividual), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleRequest(t)
			req.LessonType = tc.lessonType
			req.Capacity = tc.capacity

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGenerateSlots_UnknownLessonType(t *testing.T) {
	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.LessonType = "seminar"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateSlots_TeacherNotFound(t *testing.T) {
	teacherRepo := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}

	uc := NewUseCase(&mockSlotRepo{}, teacherRepo, happySubjectRepo(), 45, nopLogger{})

	_, err := uc.Execute(context.Background(), sampleRequest(t))
	assert.ErrorIs(t, err, ErrTeacherNotFound)
}

func TestGenerateSlots_SubjectNotFound(t *testing.T) {
	subjRepo := &mockSubjectRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Subject, error) {
			return nil, subjectRepo.ErrSubjectNotFound
		},
	}

	uc := NewUseCase(&mockSlotRepo{}, happyTeacherRepo(), subjRepo, 45, nopLogger{})

	_, err := uc.Execute(context.Background(), sampleRequest(t))
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestGenerateSlots_SkipConflicts(t *testing.T) {
	busyStart := "10:45"
	var createdCount int

	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			if start.String() == busyStart {
				return &domain.TimeSlot{ID: 99, StartTime: start, EndTime: end}, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
			createdCount++
			slot.ID = int64(createdCount)
			return slot, nil
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.SkipConflicts = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Занят второй кандидат: генерация продолжается после пропуска
	assert.Equal(t, 4, resp.TotalRequested)
	assert.Equal(t, 3, resp.TotalCreated)
	assert.Equal(t, 1, resp.TotalSkipped)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "10:45", resp.Skipped[0].StartTime.String())
	assert.Equal(t, "11:30", resp.Skipped[0].EndTime.String())
}

func TestGenerateSlots_AbortOnConflict(t *testing.T) {
	busyStart := "10:45"
	var createdCount int

	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			if start.String() == busyStart {
				return &domain.TimeSlot{ID: 99, StartTime: start, EndTime: end}, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
			createdCount++
			slot.ID = int64(createdCount)
			return slot, nil
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	req := sampleRequest(t)
	req.SkipConflicts = false

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Contains(t, err.Error(), "10:45")

	// Первый кандидат уже сохранён и не откатывается
	assert.Equal(t, 1, createdCount)
}

func TestGenerateSlots_DefaultStepApplied(t *testing.T) {
	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
			slot.ID = 1
			return slot, nil
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 60, nopLogger{})

	req := sampleRequest(t)
	req.StepMinutes = 0
	req.StartTime = ts(t, "10:00")
	req.EndTime = ts(t, "12:00")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// С шагом по умолчанию 60 минут помещается два слота
	assert.Equal(t, 2, resp.TotalCreated)
}

func TestGenerateSlots_StorageError(t *testing.T) {
	slotRepo := &mockSlotRepo{
		findOverlapFn: func(ctx context.Context, teacherID int64, date time.Time, start, end types.TimeString) (*domain.TimeSlot, error) {
			return nil, errors.New("connection refused")
		},
	}

	uc := NewUseCase(slotRepo, happyTeacherRepo(), happySubjectRepo(), 45, nopLogger{})

	_, err := uc.Execute(context.Background(), sampleRequest(t))
	assert.ErrorIs(t, err, ErrInternal)
}
