package stats

import (
	"fmt"
	"time"
)

const (
	FirstHour       = 6
	LastHour        = 22
	UsageWindowDays = 30
)

// ======================================================
// INPUT ROWS
// ======================================================

type MemberRow struct {
	IsActive   bool
	DateJoined time.Time
}

type SaleRow struct {
	StartDate time.Time
	Price     float64
}

// VisitRow is a schedule that counts as gym usage (approved or completed).
type VisitRow struct {
	StartTime time.Time
}

type Inputs struct {
	Members []MemberRow
	Sales   []SaleRow
	Visits  []VisitRow
}

// ======================================================
// OUTPUT
// ======================================================

type GymStats struct {
	TotalMembers        int `json:"total_members"`
	ActiveMembers       int `json:"active_members"`
	NewMembersThisMonth int `json:"new_members_this_month"`

	MonthlyRevenue float64 `json:"monthly_revenue"`
	YearlyRevenue  float64 `json:"yearly_revenue"`
	TotalRevenue   float64 `json:"total_revenue"`

	HourlyLabels []string `json:"hourly_labels"`
	HourlyData   []int    `json:"hourly_data"`

	GeneratedAt time.Time `json:"generated_at"`
}

// UsageWindow returns the first instant counted by the hourly histogram and
// the instant right after the last one, for the calendar day of now.
func UsageWindow(now time.Time) (from, to time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -UsageWindowDays), today.AddDate(0, 0, 1)
}

// MonthStart is the first instant of now's month.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// YearStart is the first instant of now's year.
func YearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

// HourLabels are the histogram bucket labels, "06:00-07:00" through "22:00-23:00".
func HourLabels() []string {
	out := make([]string, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00-%02d:00", h, h+1))
	}
	return out
}

// Compute aggregates in. now fixes both the reference instant and the
// timezone used for month, year and hour boundaries.
func Compute(now time.Time, in Inputs) GymStats {
	loc := now.Location()
	monthStart := MonthStart(now)
	yearStart := YearStart(now)
	from, to := UsageWindow(now)

	out := GymStats{
		HourlyLabels: HourLabels(),
		HourlyData:   make([]int, LastHour-FirstHour+1),
		GeneratedAt:  now,
	}

	for _, m := range in.Members {
		out.TotalMembers++
		if m.IsActive {
			out.ActiveMembers++
		}
		j := m.DateJoined.In(loc)
		if j.Year() == now.Year() && j.Month() == now.Month() {
			out.NewMembersThisMonth++
		}
	}

	for _, s := range in.Sales {
		out.TotalRevenue += s.Price
		if !s.StartDate.Before(yearStart) {
			out.YearlyRevenue += s.Price
		}
		if !s.StartDate.Before(monthStart) {
			out.MonthlyRevenue += s.Price
		}
	}

	for _, v := range in.Visits {
		t := v.StartTime.In(loc)
		if t.Before(from) || !t.Before(to) {
			continue
		}
		h := t.Hour()
		if h < FirstHour || h > LastHour {
			continue
		}
		out.HourlyData[h-FirstHour]++
	}

	return out
}
