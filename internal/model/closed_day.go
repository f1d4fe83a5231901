package model

import "time"

// ClosedDay excludes a calendar date from booking, whatever its weekday.
type ClosedDay struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date_fermeture"`
	Reason    string    `json:"raison"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultClosedReason is used when the admin gives no reason.
const DefaultClosedReason = "Fermeture"

type ClosedDayView struct {
	ClosedDay
	DateFormatted    string `json:"date_formatted"`
	CreatedFormatted string `json:"created_formatted,omitempty"`
}

func (d ClosedDay) View() ClosedDayView {
	v := ClosedDayView{
		ClosedDay:     d,
		DateFormatted: FormatDateFR(d.Date),
	}
	if !d.CreatedAt.IsZero() {
		v.CreatedFormatted = FormatTimestampFR(d.CreatedAt)
	}
	return v
}
