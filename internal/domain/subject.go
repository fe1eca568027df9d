package domain

// Subject represents a school subject taught by teachers
type Subject struct {
	ID   int64
	Name string
	Code *string
}

// SubjectsFilter фильтр для листинга предметов
type SubjectsFilter struct {
	Query  *string // поиск по name/code
	Limit  int
	Offset int
}

// SubjectUsage счётчики использования предмета
// Предмет нельзя удалить, пока он привязан к преподавателям или слотам
type SubjectUsage struct {
	ByTeachers int64
	InSlots    int64
}

// IsUsed returns true if the subject is referenced anywhere
func (u SubjectUsage) IsUsed() bool {
	return u.ByTeachers > 0 || u.InSlots > 0
}
