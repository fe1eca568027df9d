package generate_slots

import (
	"time"

	"github.com/v1malina/TCS-ScheduleService/pkg/types"
)

// Request модель запроса на генерацию слотов
type Request struct {
	TeacherID     int64            // ID преподавателя
	SubjectID     int64            // ID предмета
	Date          time.Time        // Дата (без времени)
	StartTime     types.TimeString // Начало рабочего окна (например, "10:00")
	EndTime       types.TimeString // Конец рабочего окна
	StepMinutes   int              // Длительность слота; 0 = значение по умолчанию
	Capacity      int              // Вместимость каждого слота
	Mode          *string          // Формат занятия (online/offline), опционально
	LessonType    string           // individual | group
	Status        *string          // Статус создаваемых слотов; по умолчанию available
	SkipConflicts bool             // true: пропускать пересечения, false: падать на первом
}

// CreatedSlot созданный слот в ответе
type CreatedSlot struct {
	ID        int64
	StartTime types.TimeString
	EndTime   types.TimeString
}

// SkippedInterval пропущенный из-за пересечения интервал
type SkippedInterval struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response модель ответа с результатами генерации
type Response struct {
	Created        []CreatedSlot
	Skipped        []SkippedInterval
	TotalRequested int
	TotalCreated   int
	TotalSkipped   int
}
