package service

import (
	"fmt"
	"sharedcal/cmd/internal/domain/entity"
	"sharedcal/cmd/internal/utils"
	"strconv"
	"strings"
)

// recurrenceHorizonDays bounds open-ended series: without an explicit end
// date, instances are materialized through seed date + 180 days. Extending
// past the horizon requires re-running expansion.
const recurrenceHorizonDays = 180

// expandSeries materializes one instance per future date that is strictly
// after the seed date, falls on one of the seed's recurrence weekdays, and
// lies within the expansion bound. Dates whose slot is already taken or
// would overlap another appointment of the owner are skipped, which makes
// re-expansion of the same seed idempotent.
func (a *DefaultAppointmentService) expandSeries(seed *entity.Appointment) ([]*entity.Appointment, error) {
	seedDate, err := utils.ParseDate(seed.Date)
	if err != nil {
		return nil, fmt.Errorf("seed date %q: %w", seed.Date, err)
	}

	horizon := seedDate.AddDate(0, 0, recurrenceHorizonDays)
	if seed.RecurrenceEndDate != "" {
		until, err := utils.ParseDate(seed.RecurrenceEndDate)
		if err != nil {
			return nil, fmt.Errorf("recurrence end date %q: %w", seed.RecurrenceEndDate, err)
		}
		horizon = until
	}

	days := weekdaySet(seed.RecurrenceDays)
	if len(days) == 0 {
		return nil, nil
	}

	first := seedDate.AddDate(0, 0, 1)
	existing, err := a.AppointmentRepo.FindInDateRange(seed.UserID, utils.FormatDate(first), utils.FormatDate(horizon))
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]*entity.Appointment, len(existing))
	for _, appt := range existing {
		byDate[appt.Date] = append(byDate[appt.Date], appt)
	}

	now := a.Now().UTC().UnixMilli()
	var instances []*entity.Appointment
	for day := first; !day.After(horizon); day = day.AddDate(0, 0, 1) {
		if !days[utils.ISOWeekday(day)] {
			continue
		}
		date := utils.FormatDate(day)
		if conflictsWith(byDate[date], seed.StartTime, seed.EndTime) {
			continue
		}
		instances = append(instances, &entity.Appointment{
			UserID:            seed.UserID,
			Title:             seed.Title,
			Date:              date,
			StartTime:         seed.StartTime,
			EndTime:           seed.EndTime,
			CanWatchEvee:      seed.CanWatchEvee,
			IsRecurring:       true,
			RecurrenceDays:    seed.RecurrenceDays,
			RecurrenceEndDate: seed.RecurrenceEndDate,
			SeriesID:          seed.SeriesID,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return instances, nil
}

// conflictsWith reports whether [start, end) intersects any of the given
// same-date intervals. An already-materialized identical slot intersects
// itself, so duplicate suppression falls out of the same check.
func conflictsWith(sameDate []*entity.Appointment, start, end string) bool {
	for _, appt := range sameDate {
		if appt.StartTime < end && appt.EndTime > start {
			return true
		}
	}
	return false
}

func encodeWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = strconv.Itoa(day)
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(encoded string) []int {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}

func weekdaySet(encoded string) map[int]bool {
	days := decodeWeekdays(encoded)
	set := make(map[int]bool, len(days))
	for _, day := range days {
		set[day] = true
	}
	return set
}
