package entity

type Appointment struct {
	ID     int    `gorm:"primaryKey"`
	UserID int    `gorm:"not null;uniqueIndex:idx_appointments_slot"` // References: users(id)
	Title  string `gorm:"not null"`

	// Naive calendar date (YYYY-MM-DD) and times of day (HH:MM). Both
	// formats are zero-padded, so lexicographic order is chronological
	// order and the repository can compare them directly in SQL.
	Date      string `gorm:"not null;uniqueIndex:idx_appointments_slot"`
	StartTime string `gorm:"not null;uniqueIndex:idx_appointments_slot"`
	EndTime   string `gorm:"not null;uniqueIndex:idx_appointments_slot"`

	CanWatchEvee bool `gorm:"not null"`

	IsRecurring       bool   `gorm:"not null"`
	RecurrenceDays    string // comma-joined weekday numbers, Monday=0..Sunday=6
	RecurrenceEndDate string
	SeriesID          string `gorm:"index"` // shared by every record of a recurring series

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`

	// Relations
	CreatedBy User `gorm:"foreignKey:UserID;references:ID"`
}
