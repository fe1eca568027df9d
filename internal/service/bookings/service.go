package bookings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/v1malina/TCS-ScheduleService/internal/domain"
	bookingRepo "github.com/v1malina/TCS-ScheduleService/internal/infra/storage/booking"
	"github.com/v1malina/TCS-ScheduleService/internal/service/bookings/models"
)

// utf8BOM префикс для корректного открытия CSV в Excel
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader заголовок CSV экспорта
var csvHeader = []string{"ID", "Дата", "Начало", "Конец", "Преподаватель", "Предмет", "Клиент", "Статус"}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	teacherRepo TeacherRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	teacherRepo TeacherRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		teacherRepo: teacherRepo,
		logger:      logger,
	}
}

// List получает страницу бронирований с данными слотов и общим числом
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: fetching bookings")

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, total, err := s.bookingRepo.ListWithSlots(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d of %d bookings", len(bookings), total)
	return models.FromDomainBookingList(bookings, total), nil
}

// UpdateStatus меняет статус бронирования
// Админская операция: вместимость слота при этом не перепроверяется
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateBookingStatus: updating booking id=%d to status=%s", id, req.Status)

	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateBookingStatus: invalid status %q for booking id=%d", req.Status, id)
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateBookingStatus: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateBookingStatus: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBookingStatus: successfully updated booking id=%d", id)
	return nil
}

// Delete удаляет бронирование
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteBooking: deleting booking id=%d", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("DeleteBooking: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("DeleteBooking: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBooking: successfully deleted booking id=%d", id)
	return nil
}

// ExportCSV выгружает бронирования под фильтром в CSV
// Пишет UTF-8 BOM и разделитель ';' для совместимости с Excel
func (s *Service) ExportCSV(ctx context.Context, req *models.ListBookingsRequest, w io.Writer) error {
	s.logger.Info("ExportBookings: exporting bookings to CSV")

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ExportBookings: invalid filter: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Экспорт не ограничивается страницей
	filter.Limit = 0
	filter.Offset = 0

	bookings, err := s.bookingRepo.ExportWithSlots(ctx, filter)
	if err != nil {
		s.logger.Error("ExportBookings: repository error: %v", err)
		return fmt.Errorf("%w: ExportCSV - repository error: %v", ErrInternal, err)
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("%w: ExportCSV - failed to write BOM: %v", ErrInternal, err)
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: ExportCSV - failed to write header: %v", ErrInternal, err)
	}

	for _, b := range bookings {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			b.Date.Format(domain.DateFormat),
			b.StartTime.String(),
			b.EndTime.String(),
			strconv.FormatInt(b.TeacherID, 10),
			strconv.FormatInt(b.SubjectID, 10),
			strconv.FormatInt(b.ClientID, 10),
			string(b.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: ExportCSV - failed to write record: %v", ErrInternal, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: ExportCSV - failed to flush: %v", ErrInternal, err)
	}

	s.logger.Info("ExportBookings: successfully exported %d bookings", len(bookings))
	return nil
}

// TeacherLoad считает нагрузку преподавателя за период
// Учитываются только подтверждённые бронирования
func (s *Service) TeacherLoad(ctx context.Context, req *models.TeacherLoadRequest) (*models.TeacherLoadResponse, error) {
	s.logger.Info("TeacherLoad: calculating load for teacher=%d, period=%s..%s",
		req.TeacherID, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	if req.TeacherID <= 0 {
		return nil, fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return nil, fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}
	if req.DateTo.Before(req.DateFrom) {
		return nil, fmt.Errorf("%w: dateTo must not precede dateFrom", ErrInvalidInput)
	}

	exists, err := s.teacherRepo.Exists(ctx, req.TeacherID)
	if err != nil {
		s.logger.Error("TeacherLoad: failed to check teacher id=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: TeacherLoad - failed to check teacher: %v", ErrInternal, err)
	}
	if !exists {
		s.logger.Warn("TeacherLoad: teacher id=%d not found", req.TeacherID)
		return nil, ErrTeacherNotFound
	}

	load, err := s.bookingRepo.TeacherLoad(ctx, req.TeacherID, req.DateFrom, req.DateTo)
	if err != nil {
		s.logger.Error("TeacherLoad: repository error for teacher id=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: TeacherLoad - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("TeacherLoad: teacher=%d has %d lessons, %d minutes",
		req.TeacherID, load.LessonsCount, load.MinutesTotal)

	return &models.TeacherLoadResponse{
		TeacherID:    load.TeacherID,
		DateFrom:     req.DateFrom.Format(domain.DateFormat),
		DateTo:       req.DateTo.Format(domain.DateFormat),
		LessonsCount: load.LessonsCount,
		MinutesTotal: load.MinutesTotal,
		HoursTotal:   load.HoursTotal,
	}, nil
}
