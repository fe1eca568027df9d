package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	slotRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/slot"
	"github.com/v1malina/TCS-ScheduleService/internal/service/slots/models"
	"github.com/v1malina/TCS-ScheduleService/pkg/ptr"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// --- Mocks ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockSlotRepo struct {
	getByIDFn           func(ctx context.Context, id int64) (*domain.TimeSlot, error)
	getByIDForUpdateFn  func(ctx context.Context, id int64) (*domain.TimeSlot, error)
	listWithFreeSpotsFn func(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error)
	updateFn            func(ctx context.Context, slot *domain.TimeSlot) error
	deleteFn            func(ctx context.Context, id int64) error
}

func (m *mockSlotRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockSlotRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return m.getByIDForUpdateFn(ctx, id)
}
func (m *mockSlotRepo) ListWithFreeSpots(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error) {
	return m.listWithFreeSpotsFn(ctx, filter)
}
func (m *mockSlotRepo) Update(ctx context.Context, slot *domain.TimeSlot) error {
	return m.updateFn(ctx, slot)
}
func (m *mockSlotRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockBookingRepo struct {
	countActiveBySlotFn func(ctx context.Context, slotID int64) (int, error)
	deleteBySlotIDFn    func(ctx context.Context, slotID int64) error
}

func (m *mockBookingRepo) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	return m.countActiveBySlotFn(ctx, slotID)
}
func (m *mockBookingRepo) DeleteBySlotID(ctx context.Context, slotID int64) error {
	return m.deleteBySlotIDFn(ctx, slotID)
}

type mockTeacherRepo struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockTeacherRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Helpers ---

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func sampleSlot(t *testing.T) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:         10,
		TeacherID:  1,
		SubjectID:  2,
		Date:       time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime:  ts(t, "10:00"),
		EndTime:    ts(t, "10:45"),
		LessonType: domain.LessonGroup,
		Capacity:   5,
		Status:     domain.SlotAvailable,
	}
}

// --- Tests ---

func TestListSlots_FreeSpots(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		listWithFreeSpotsFn: func(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error) {
			return []*domain.SlotWithSpots{{TimeSlot: *slot, FreeSpots: 3}}, nil
		},
	}

	svc := NewService(slots, &mockBookingRepo{}, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.List(context.Background(), &models.ListSlotsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 3, resp.Slots[0].FreeSpots)
	assert.Equal(t, "2026-09-20", resp.Slots[0].Date)
}

func TestListSlots_InvalidLessonType(t *testing.T) {
	svc := NewService(&mockSlotRepo{}, &mockBookingRepo{}, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListSlotsRequest{LessonType: ptr.Ptr("seminar")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByTeacher_TeacherNotFound(t *testing.T) {
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}

	svc := NewService(&mockSlotRepo{}, &mockBookingRepo{}, teachers, passthroughTxManager{}, nopLogger{})

	_, err := svc.ListByTeacher(context.Background(), 7, &models.ListSlotsRequest{})
	assert.ErrorIs(t, err, ErrTeacherNotFound)
}

func TestListByTeacher_FilterPinned(t *testing.T) {
	var gotFilter domain.SlotsFilter
	slots := &mockSlotRepo{
		listWithFreeSpotsFn: func(ctx context.Context, filter domain.SlotsFilter) ([]*domain.SlotWithSpots, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}

	svc := NewService(slots, &mockBookingRepo{}, teachers, passthroughTxManager{}, nopLogger{})

	_, err := svc.ListByTeacher(context.Background(), 7, &models.ListSlotsRequest{})
	require.NoError(t, err)
	require.NotNil(t, gotFilter.TeacherID)
	assert.Equal(t, int64(7), *gotFilter.TeacherID)
}

func TestPatchSlot_CapacityBelowBooked(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 4, nil },
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	// Вместимость 3 при четырёх активных бронях
	_, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{Capacity: ptr.Ptr(3)})
	assert.ErrorIs(t, err, ErrCapacityBelowBooked)
}

func TestPatchSlot_CapacityLoweredToBookedCount(t *testing.T) {
	slot := sampleSlot(t)
	var updated *domain.TimeSlot
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
		updateFn: func(ctx context.Context, s *domain.TimeSlot) error {
			updated = s
			return nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 3, nil },
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	// Граница: вместимость ровно равна числу активных броней
	resp, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{Capacity: ptr.Ptr(3)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.Capacity)
	assert.Equal(t, 0, resp.FreeSpots)
}

func TestPatchSlot_TypeCapacityMismatch(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 0, nil },
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	// individual с вместимостью 5 недопустимо
	_, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{
		LessonType: ptr.Ptr(string(domain.LessonIndividual)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPatchSlot_StatusChange(t *testing.T) {
	slot := sampleSlot(t)
	var updated *domain.TimeSlot
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
		updateFn: func(ctx context.Context, s *domain.TimeSlot) error {
			updated = s
			return nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 2, nil },
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{
		Status: ptr.Ptr(string(domain.SlotHidden)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotHidden, updated.Status)
	assert.Equal(t, string(domain.SlotHidden), resp.Status)
}

func TestPatchSlot_NotFound(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return nil, slotRepo.ErrSlotNotFound
		},
	}

	svc := NewService(slots, &mockBookingRepo{}, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{Capacity: ptr.Ptr(3)})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestPatchSlot_EmptyPatch(t *testing.T) {
	svc := NewService(&mockSlotRepo{}, &mockBookingRepo{}, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Patch(context.Background(), 10, &models.PatchSlotRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteSlot_WithActiveBookings(t *testing.T) {
	slot := sampleSlot(t)
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 1, nil },
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 10)
	assert.ErrorIs(t, err, ErrSlotHasBookings)
}

func TestDeleteSlot_CascadesBookings(t *testing.T) {
	slot := sampleSlot(t)
	var bookingsDeleted, slotDeleted bool

	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return slot, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			// Отменённые брони удаляются раньше слота
			assert.True(t, bookingsDeleted)
			slotDeleted = true
			return nil
		},
	}
	bookings := &mockBookingRepo{
		countActiveBySlotFn: func(ctx context.Context, slotID int64) (int, error) { return 0, nil },
		deleteBySlotIDFn: func(ctx context.Context, slotID int64) error {
			bookingsDeleted = true
			return nil
		},
	}

	svc := NewService(slots, bookings, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, slotDeleted)
}

func TestDeleteSlot_NotFound(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDForUpdateFn: func(ctx context.Context, id int64) (*domain.TimeSlot, error) {
			return nil, slotRepo.ErrSlotNotFound
		},
	}

	svc := NewService(slots, &mockBookingRepo{}, &mockTeacherRepo{}, passthroughTxManager{}, nopLogger{})

	err := svc.Delete(context.Background(), 10)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
