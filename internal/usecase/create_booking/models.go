package create_booking

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	SlotID   int64 // ID слота
	ClientID int64 // ID клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID       int64  // ID созданного бронирования
	SlotID   int64  // ID слота
	ClientID int64  // ID клиента
	Status   string // Статус бронирования

	// Денормализованные данные слота
	Date      time.Time        // Дата занятия
	StartTime types.TimeString // Время начала
	EndTime   types.TimeString // Время окончания
	TeacherID int64            // ID преподавателя
	SubjectID int64            // ID предмета
}
