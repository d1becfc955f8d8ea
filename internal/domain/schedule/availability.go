package schedule

import (
	"time"

	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// Gym opening hours: sessions may start at OpenHour and must end by CloseHour.
const (
	OpenHour  = 6
	CloseHour = 23
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots splits the opening hours of day into slots of the given length and
// drops the ones overlapping a blocking schedule in busy.
func FreeSlots(day time.Time, slot time.Duration, busy []models.Schedule) []TimeSlot {
	slots := []TimeSlot{}
	if slot <= 0 {
		return slots
	}

	loc := day.Location()
	open := time.Date(day.Year(), day.Month(), day.Day(), OpenHour, 0, 0, 0, loc)
	closeAt := time.Date(day.Year(), day.Month(), day.Day(), CloseHour, 0, 0, 0, loc)

	for cur := open; !cur.Add(slot).After(closeAt); cur = cur.Add(slot) {
		slotStart := cur
		slotEnd := cur.Add(slot)

		if overlapsBlocking(busy, slotStart, slotEnd) {
			continue
		}

		slots = append(slots, TimeSlot{
			Start: slotStart.Format("15:04"),
			End:   slotEnd.Format("15:04"),
		})
	}

	return slots
}

func overlapsBlocking(busy []models.Schedule, start, end time.Time) bool {
	for _, s := range busy {
		if !isBlocking(s.Status) {
			continue
		}
		if start.Before(s.EndTime) && end.After(s.StartTime) {
			return true
		}
	}
	return false
}

func isBlocking(status string) bool {
	for _, b := range BlockingStatuses {
		if status == b {
			return true
		}
	}
	return false
}
