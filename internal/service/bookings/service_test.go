package bookings

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	bookingRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/booking"
	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
	"github.com/v1malina/TCS-ScheduleService/pkg/ptr"
	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// --- Mocks ---

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockBookingRepo struct {
	listWithSlotsFn   func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error)
	exportWithSlotsFn func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, error)
	teacherLoadFn     func(ctx context.Context, teacherID int64, dateFrom, dateTo time.Time) (*domain.TeacherLoad, error)
	updateStatusFn    func(ctx context.Context, id int64, status domain.BookingStatus) error
	deleteFn          func(ctx context.Context, id int64) error
}

func (m *mockBookingRepo) ListWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error) {
	return m.listWithSlotsFn(ctx, filter)
}
func (m *mockBookingRepo) ExportWithSlots(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, error) {
	return m.exportWithSlotsFn(ctx, filter)
}
func (m *mockBookingRepo) TeacherLoad(ctx context.Context, teacherID int64, dateFrom, dateTo time.Time) (*domain.TeacherLoad, error) {
	return m.teacherLoadFn(ctx, teacherID, dateFrom, dateTo)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockTeacherRepo struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockTeacherRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.existsFn(ctx, id)
}

// --- Helpers ---

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func sampleBookingWithSlot(t *testing.T) *domain.BookingWithSlot {
	return &domain.BookingWithSlot{
		Booking: domain.Booking{
			ID:       100,
			SlotID:   10,
			ClientID: 42,
			Status:   domain.BookingConfirmed,
		},
		Date:      time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime: ts(t, "10:00"),
		EndTime:   ts(t, "10:45"),
		TeacherID: 1,
		SubjectID: 2,
	}
}

// --- Tests ---

func TestListBookings_Success(t *testing.T) {
	repo := &mockBookingRepo{
		listWithSlotsFn: func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error) {
			return []*domain.BookingWithSlot{sampleBookingWithSlot(t)}, 37, nil
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(37), resp.Total)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "2026-09-20", resp.Bookings[0].Date)
	assert.Equal(t, int64(1), resp.Bookings[0].TeacherID)
}

func TestListBookings_LimitApplied(t *testing.T) {
	var gotFilter domain.BookingsFilter
	repo := &mockBookingRepo{
		listWithSlotsFn: func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, int64, error) {
			gotFilter = filter
			return nil, 0, nil
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxListLimit, gotFilter.Limit)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultListLimit, gotFilter.Limit)
}

func TestListBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&mockBookingRepo{}, &mockTeacherRepo{}, nopLogger{})

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateBookingStatus_Success(t *testing.T) {
	var gotStatus domain.BookingStatus
	repo := &mockBookingRepo{
		updateStatusFn: func(ctx context.Context, id int64, status domain.BookingStatus) error {
			gotStatus = status
			return nil
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "canceled"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCanceled, gotStatus)
}

func TestUpdateBookingStatus_Invalid(t *testing.T) {
	svc := NewService(&mockBookingRepo{}, &mockTeacherRepo{}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateBookingStatus_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		updateStatusFn: func(ctx context.Context, id int64, status domain.BookingStatus) error {
			return bookingRepo.ErrBookingNotFound
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{Status: "canceled"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDeleteBooking_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			return bookingRepo.ErrBookingNotFound
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	err := svc.Delete(context.Background(), 100)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExportCSV_Format(t *testing.T) {
	repo := &mockBookingRepo{
		exportWithSlotsFn: func(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithSlot, error) {
			// Пагинация на экспорт не распространяется
			assert.Equal(t, 0, filter.Limit)
			assert.Equal(t, 0, filter.Offset)
			return []*domain.BookingWithSlot{sampleBookingWithSlot(t)}, nil
		},
	}

	svc := NewService(repo, &mockTeacherRepo{}, nopLogger{})

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), &models.ListBookingsRequest{Limit: 10}, &buf)
	require.NoError(t, err)

	out := buf.Bytes()

	// UTF-8 BOM в начале файла
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID;Дата;Начало;Конец;Преподаватель;Предмет;Клиент;Статус", lines[0])
	assert.Equal(t, "100;2026-09-20;10:00;10:45;1;2;42;confirmed", lines[1])
}

func TestTeacherLoad_Success(t *testing.T) {
	repo := &mockBookingRepo{
		teacherLoadFn: func(ctx context.Context, teacherID int64, dateFrom, dateTo time.Time) (*domain.TeacherLoad, error) {
			return &domain.TeacherLoad{
				TeacherID:    1,
				LessonsCount: 8,
				MinutesTotal: 360,
				HoursTotal:   6,
			}, nil
		},
	}
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}

	svc := NewService(repo, teachers, nopLogger{})

	resp, err := svc.TeacherLoad(context.Background(), &models.TeacherLoadRequest{
		TeacherID: 1,
		DateFrom:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.LessonsCount)
	assert.Equal(t, 360, resp.MinutesTotal)
	assert.Equal(t, float64(6), resp.HoursTotal)
}

func TestTeacherLoad_InvalidPeriod(t *testing.T) {
	svc := NewService(&mockBookingRepo{}, &mockTeacherRepo{}, nopLogger{})

	_, err := svc.TeacherLoad(context.Background(), &models.TeacherLoadRequest{
		TeacherID: 1,
		DateFrom:  time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTeacherLoad_TeacherNotFound(t *testing.T) {
	teachers := &mockTeacherRepo{
		existsFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}

	svc := NewService(&mockBookingRepo{}, teachers, nopLogger{})

	_, err := svc.TeacherLoad(context.Background(), &models.TeacherLoadRequest{
		TeacherID: 7,
		DateFrom:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DateTo:    time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrTeacherNotFound)
}
