package repository

import (
	"errors"
	"sharedcal/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) FindAll() ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByUserID(id int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Where("user_id = ?", id).Find(&appts).Error
	return appts, err
}

// FindOverlapping returns the owner's appointments on the given date whose
// half-open interval [start_time, end_time) intersects the given one.
// Intervals that merely touch at an endpoint do not intersect.
func (a *DefaultAppointmentRepository) FindOverlapping(userID int, date, startTime, endTime string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Where("start_time < ?", endTime).
		Where("end_time > ?", startTime).
		Find(&appts).Error
	return appts, err
}

// FindInDateRange returns the owner's appointments with fromDate <= date <= toDate.
func (a *DefaultAppointmentRepository) FindInDateRange(userID int, fromDate, toDate string) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.
		Where("user_id = ?", userID).
		Where("date >= ?", fromDate).
		Where("date <= ?", toDate).
		Find(&appts).Error
	return appts, err
}

// UpdateSeriesFields applies the same column updates to every record of a
// series except the one already updated by the caller.
func (a *DefaultAppointmentRepository) UpdateSeriesFields(seriesID string, excludeID int, fields map[string]any) error {
	return a.db.Model(&entity.Appointment{}).
		Where("series_id = ?", seriesID).
		Where("id <> ?", excludeID).
		Updates(fields).Error
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

// SaveAll inserts the given appointments in a single batch.
func (a *DefaultAppointmentRepository) SaveAll(appointments []*entity.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	return a.db.Create(&appointments).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
