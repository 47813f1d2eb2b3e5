package usecase

import (
	"slices"
	"time"

	"coursedates/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// DayKey truncates t to midnight of its calendar day in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// IsDatePast reports whether d falls on a day strictly before now's day.
func IsDatePast(d, now time.Time) bool {
	loc := now.Location()
	return DayKey(d, loc).Before(DayKey(now, loc))
}

// IsDateDue reports whether d falls on now's day or later.
func IsDateDue(d, now time.Time) bool {
	return !IsDatePast(d, now)
}

// IsDateToday reports whether d falls on now's day.
func IsDateToday(d, now time.Time) bool {
	loc := now.Location()
	return DayKey(d, loc).Equal(DayKey(now, loc))
}

// TodayEvent returns the synthetic marker event for now's day.
func TodayEvent(now time.Time) domain.DateEvent {
	return domain.DateEvent{Date: now, DateType: domain.DateTypeToday}
}

// OrganizeDates groups events by calendar day, inserts a synthetic today day
// when today is inside the schedule but has no events of its own, and tags
// every event for display. Day boundaries are taken from now's location.
//
// Days keep the order in which they are first seen in events; they are not
// sorted. Events are copied, the input slice is left untouched.
func OrganizeDates(events []domain.DateEvent, now time.Time) ([]domain.DayGroup, error) {
	if len(events) == 0 {
		return nil, domain.ErrEmptySchedule
	}

	days := groupByDay(events, now.Location())
	if !containsToday(events, now) {
		days = insertToday(days, now)
	}
	assignDisplayTags(days, now)
	return days, nil
}

func groupByDay(events []domain.DateEvent, loc *time.Location) []domain.DayGroup {
	index := make(map[string]int)
	var days []domain.DayGroup
	for _, ev := range events {
		key := DayKey(ev.Date, loc)
		k := key.Format(dayKeyLayout)
		i, ok := index[k]
		if !ok {
			i = len(days)
			index[k] = i
			days = append(days, domain.DayGroup{Date: key})
		}
		days[i].Events = append(days[i].Events, ev)
	}
	return days
}

func containsToday(events []domain.DateEvent, now time.Time) bool {
	for _, ev := range events {
		if IsDateToday(ev.Date, now) {
			return true
		}
	}
	return false
}

// insertToday adds the today day only when the first day is past and the last
// is still due. It goes right after the first past/due boundary, or at the
// front when the days are not ordered such that one exists.
func insertToday(days []domain.DayGroup, now time.Time) []domain.DayGroup {
	last := len(days) - 1
	if !IsDatePast(days[0].Date, now) || !IsDateDue(days[last].Date, now) {
		return days
	}
	at := 0
	for i := 0; i < last; i++ {
		if IsDatePast(days[i].Date, now) && IsDateDue(days[i+1].Date, now) {
			at = i + 1
			break
		}
	}
	today := domain.DayGroup{
		Date:   DayKey(now, now.Location()),
		Events: []domain.DateEvent{TodayEvent(now)},
	}
	return slices.Insert(days, at, today)
}

func assignDisplayTags(days []domain.DayGroup, now time.Time) {
	dueNextAssigned := 0
	for i := range days {
		for j := range days[i].Events {
			tag := displayTag(days[i].Events[j], now)
			// Only the first due assignment in display order is due next.
			if tag == domain.DisplayTagDueNext {
				if dueNextAssigned == 0 {
					dueNextAssigned++
				} else {
					tag = domain.DisplayTagBlank
				}
			}
			days[i].Events[j].DisplayTag = tag
		}
	}
}

func displayTag(ev domain.DateEvent, now time.Time) domain.DisplayTag {
	switch ev.DateType {
	case domain.DateTypeToday:
		return domain.DisplayTagToday
	case domain.DateTypeCourseStart,
		domain.DateTypeCourseEnd,
		domain.DateTypeCourseExpired,
		domain.DateTypeCertificateAvailable,
		domain.DateTypeVerifiedUpgradeDeadline,
		domain.DateTypeVerificationDeadline:
		return domain.DisplayTagBlank
	case domain.DateTypeAssignmentDue:
		return assignmentTag(ev, now)
	default:
		return domain.DisplayTagBlank
	}
}

func assignmentTag(ev domain.DateEvent, now time.Time) domain.DisplayTag {
	switch {
	case ev.Complete:
		return domain.DisplayTagCompleted
	case !ev.LearnerHasAccess:
		return domain.DisplayTagVerifiedOnly
	case ev.Link == "":
		return domain.DisplayTagNotYetReleased
	case IsDateDue(ev.Date, now):
		return domain.DisplayTagDueNext
	case IsDatePast(ev.Date, now):
		return domain.DisplayTagPastDue
	default:
		return domain.DisplayTagBlank
	}
}
