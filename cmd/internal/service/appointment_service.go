package service

import (
	"fmt"
	"sharedcal/cmd/internal/domain/entity"
	"sharedcal/cmd/internal/utils"
	"sharedcal/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Save(appointment *entity.Appointment) error
	SaveAll(appointments []*entity.Appointment) error
	FindAll() ([]*entity.Appointment, error)
	FindByID(id int) (*entity.Appointment, error)
	FindByUserID(id int) ([]*entity.Appointment, error)
	FindOverlapping(userID int, date, startTime, endTime string) ([]*entity.Appointment, error)
	FindInDateRange(userID int, fromDate, toDate string) ([]*entity.Appointment, error)
	UpdateSeriesFields(seriesID string, excludeID int, fields map[string]any) error
	Delete(appointment *entity.Appointment) error
}

// NotificationSink delivers best-effort push notifications. Implementations
// must never block the calling operation on delivery failures.
type NotificationSink interface {
	NotifyAll(title, body string, data map[string]string)
}

type AppointmentRequest struct {
	Title             string `json:"title" validate:"required,max=200"`
	Date              string `json:"date" validate:"required,dateonly"`
	StartTime         string `json:"start_time" validate:"required,hhmm"`
	EndTime           string `json:"end_time" validate:"required,hhmm"`
	CanWatchEvee      bool   `json:"can_watch_evee"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurrenceDays    []int  `json:"recurrence_days" validate:"required_if=IsRecurring true,omitempty,weekdays"`
	RecurrenceEndDate string `json:"recurrence_end_date" validate:"omitempty,dateonly"`
}

// AppointmentUpdateRequest carries a partial overwrite: absent fields retain
// their stored values.
type AppointmentUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,max=200"`
	Date              *string `json:"date" validate:"omitempty,dateonly"`
	StartTime         *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime           *string `json:"end_time" validate:"omitempty,hhmm"`
	CanWatchEvee      *bool   `json:"can_watch_evee"`
	IsRecurring       *bool   `json:"is_recurring"`
	RecurrenceDays    *[]int  `json:"recurrence_days" validate:"omitempty,weekdays"`
	RecurrenceEndDate *string `json:"recurrence_end_date" validate:"omitempty,dateonly"`
}

type AppointmentResponse struct {
	ID                int    `json:"id"`
	UserID            int    `json:"user_id"`
	Title             string `json:"title"`
	Date              string `json:"date"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	CanWatchEvee      bool   `json:"can_watch_evee"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurrenceDays    []int  `json:"recurrence_days,omitempty"`
	RecurrenceEndDate string `json:"recurrence_end_date,omitempty"`
	SeriesID          string `json:"series_id,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type CalendarResponse struct {
	Date         string                 `json:"date"`
	Appointments []*AppointmentResponse `json:"appointments"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
	Notifier        NotificationSink // optional
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate, notifier NotificationSink) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		UserRepo:        userRepo,
		Validate:        validate,
		Notifier:        notifier,
		Now:             time.Now,
	}
}

// GetAppointments lists the caller's appointments; admins see everyone's.
// When date is non-empty the result is narrowed to the appointments visible
// on that date: exact-date records plus recurring series whose weekday
// pattern covers it.
func (a *DefaultAppointmentService) GetAppointments(subId, date string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	caller, err := a.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	var appts []*entity.Appointment
	if caller.IsAdmin {
		appts, err = a.AppointmentRepo.FindAll()
	} else {
		appts, err = a.AppointmentRepo.FindByUserID(caller.ID)
	}

	if err != nil {
		log.Errorf("failed to find appointments for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	if date != "" {
		target, err := utils.ParseDate(date)
		if err != nil {
			return nil, apierror.NewInvalidParamTypeError("date", "YYYY-MM-DD date")
		}
		appts = filterVisibleOn(appts, date, utils.ISOWeekday(target))
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

// GetCalendar answers "what is on the shared calendar on date D" across all
// owners, including virtual occurrences of recurring series.
func (a *DefaultAppointmentService) GetCalendar(date string) (*CalendarResponse, apierror.ErrorResponse) {
	target, err := utils.ParseDate(date)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("date", "YYYY-MM-DD date")
	}

	appts, err := a.AppointmentRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch appointments for calendar %s: %v", date, err)
		return nil, apierror.InternalServerError
	}

	visible := filterVisibleOn(appts, date, utils.ISOWeekday(target))
	response := make([]*AppointmentResponse, len(visible))
	for i, appt := range visible {
		response[i] = toAppointmentResponse(appt)
	}
	return &CalendarResponse{Date: date, Appointments: response}, nil
}

func (a *DefaultAppointmentService) CreateAppointment(req *AppointmentRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, err := a.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if req.StartTime >= req.EndTime {
		return nil, apierror.StartNotBeforeEndError
	}

	overlapping, err := a.AppointmentRepo.FindOverlapping(caller.ID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		log.Errorf("failed to check availability of %s [%s-%s): %v", req.Date, req.StartTime, req.EndTime, err)
		return nil, apierror.InternalServerError
	}
	if len(overlapping) > 0 {
		return nil, apierror.NewConflictError(overlapping[0].ID)
	}

	now := a.Now().UTC().UnixMilli()
	appointment := &entity.Appointment{
		UserID:       caller.ID,
		Title:        req.Title,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CanWatchEvee: req.CanWatchEvee,
		IsRecurring:  req.IsRecurring,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsRecurring {
		appointment.RecurrenceDays = encodeWeekdays(req.RecurrenceDays)
		appointment.RecurrenceEndDate = req.RecurrenceEndDate
		appointment.SeriesID = uuid.NewString()
	}

	if err := a.AppointmentRepo.Save(appointment); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}

	if appointment.IsRecurring {
		instances, err := a.expandSeries(appointment)
		if err != nil {
			log.Errorf("failed to expand recurring series %s: %v", appointment.SeriesID, err)
			return nil, apierror.InternalServerError
		}
		// Single batch insert; a retry after partial failure is safe since
		// expansion suppresses already-materialized slots.
		if err := a.AppointmentRepo.SaveAll(instances); err != nil {
			log.Errorf("failed to save %d instances of series %s: %v", len(instances), appointment.SeriesID, err)
			return nil, apierror.InternalServerError
		}
	}

	if a.Notifier != nil {
		a.Notifier.NotifyAll(
			"New appointment",
			fmt.Sprintf("%s on %s from %s to %s", appointment.Title, appointment.Date, appointment.StartTime, appointment.EndTime),
			map[string]string{"date": appointment.Date},
		)
	}
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) UpdateAppointment(id int, req *AppointmentUpdateRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, err := a.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.InvalidAuthTokenError
	}

	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	if appt.UserID != caller.ID {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	// Field-level overwrite. The changes map (column-keyed) is what fans out
	// to the rest of the series; a record's own date never propagates.
	changes := map[string]any{}
	if req.Title != nil {
		appt.Title = *req.Title
		changes["title"] = appt.Title
	}
	if req.Date != nil {
		appt.Date = *req.Date
	}
	if req.StartTime != nil {
		appt.StartTime = *req.StartTime
		changes["start_time"] = appt.StartTime
	}
	if req.EndTime != nil {
		appt.EndTime = *req.EndTime
		changes["end_time"] = appt.EndTime
	}
	if req.CanWatchEvee != nil {
		appt.CanWatchEvee = *req.CanWatchEvee
		changes["can_watch_evee"] = appt.CanWatchEvee
	}
	if req.IsRecurring != nil {
		appt.IsRecurring = *req.IsRecurring
		changes["is_recurring"] = appt.IsRecurring
	}
	if req.RecurrenceDays != nil {
		appt.RecurrenceDays = encodeWeekdays(*req.RecurrenceDays)
		changes["recurrence_days"] = appt.RecurrenceDays
	}
	if req.RecurrenceEndDate != nil {
		appt.RecurrenceEndDate = *req.RecurrenceEndDate
		changes["recurrence_end_date"] = appt.RecurrenceEndDate
	}

	if appt.StartTime >= appt.EndTime {
		return nil, apierror.StartNotBeforeEndError
	}

	if req.Date != nil || req.StartTime != nil || req.EndTime != nil {
		overlapping, err := a.AppointmentRepo.FindOverlapping(appt.UserID, appt.Date, appt.StartTime, appt.EndTime)
		if err != nil {
			log.Errorf("failed to check availability of %s [%s-%s): %v", appt.Date, appt.StartTime, appt.EndTime, err)
			return nil, apierror.InternalServerError
		}
		for _, other := range overlapping {
			if other.ID != appt.ID {
				return nil, apierror.NewConflictError(other.ID)
			}
		}
	}

	if !appt.IsRecurring {
		appt.RecurrenceDays = ""
		appt.RecurrenceEndDate = ""
		appt.SeriesID = ""
	} else if appt.RecurrenceDays != "" && appt.SeriesID == "" {
		appt.SeriesID = uuid.NewString()
	}

	appt.UpdatedAt = a.Now().UTC().UnixMilli()
	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	// Keep the rest of the series consistent with this edit.
	if appt.IsRecurring && appt.RecurrenceDays != "" && appt.SeriesID != "" && len(changes) > 0 {
		changes["updated_at"] = appt.UpdatedAt
		if err := a.AppointmentRepo.UpdateSeriesFields(appt.SeriesID, appt.ID, changes); err != nil {
			log.Errorf("failed to fan out update to series %s: %v", appt.SeriesID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toAppointmentResponse(appt), nil
}

// DeleteAppointment removes exactly one record; sibling instances of the
// same series stay.
func (a *DefaultAppointmentService) DeleteAppointment(id int, issuerSub string) apierror.ErrorResponse {
	caller, err := a.UserRepo.FindBySub(issuerSub)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", issuerSub, err)
		return apierror.InternalServerError
	}
	if caller == nil {
		return apierror.InvalidAuthTokenError
	}

	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	if appt == nil {
		return apierror.NotFoundError
	}
	if appt.UserID != caller.ID {
		return apierror.ForbiddenError
	}

	if err := a.AppointmentRepo.Delete(appt); err != nil {
		log.Errorf("failed to delete appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// filterVisibleOn keeps the appointments visible on date: every exact-date
// record, plus one representative per recurring series whose weekday pattern
// covers the date but has no materialized instance on it (a seed past its
// expansion horizon, for example). Without the per-series cap every stored
// instance of a series would surface on every matching weekday.
func filterVisibleOn(appts []*entity.Appointment, date string, weekday int) []*entity.Appointment {
	onDate := make(map[string]bool)
	for _, appt := range appts {
		if appt.SeriesID != "" && appt.Date == date {
			onDate[appt.SeriesID] = true
		}
	}

	visible := make([]*entity.Appointment, 0, len(appts))
	represented := make(map[string]bool)
	for _, appt := range appts {
		if appt.Date == date {
			visible = append(visible, appt)
			continue
		}
		if !appt.IsRecurring || appt.SeriesID == "" || onDate[appt.SeriesID] || represented[appt.SeriesID] {
			continue
		}
		if weekdaySet(appt.RecurrenceDays)[weekday] {
			visible = append(visible, appt)
			represented[appt.SeriesID] = true
		}
	}
	return visible
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                appt.ID,
		UserID:            appt.UserID,
		Title:             appt.Title,
		Date:              appt.Date,
		StartTime:         appt.StartTime,
		EndTime:           appt.EndTime,
		CanWatchEvee:      appt.CanWatchEvee,
		IsRecurring:       appt.IsRecurring,
		RecurrenceDays:    decodeWeekdays(appt.RecurrenceDays),
		RecurrenceEndDate: appt.RecurrenceEndDate,
		SeriesID:          appt.SeriesID,
		CreatedAt:         utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:         utils.FormatEpoch(appt.UpdatedAt),
	}
}
