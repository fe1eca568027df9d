package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot generation defaults and limits
const (
	DefaultStepMinutes = 45
	MinGroupCapacity   = 2
	MaxListLimit       = 1000
	DefaultListLimit   = 200
	MaxUsersLimit      = 200
	DefaultUsersLimit  = 50
)
