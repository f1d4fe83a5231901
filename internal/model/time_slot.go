package model

import "time"

// TimeSlot is a bookable time-of-day window. Appointments reference it by
// start time value, not by id.
type TimeSlot struct {
	ID        int64     `json:"id"`
	Start     string    `json:"heure_debut"`
	End       string    `json:"heure_fin"`
	Active    bool      `json:"actif"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps reports whether the [Start,End) intervals of two slots intersect.
// Times are normalized HH:mm:ss strings, so lexicographic order is time order.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && s.End > other.Start
}

// TimeSlotView adds the display times the admin dashboard renders.
type TimeSlotView struct {
	TimeSlot
	StartFormatted   string `json:"heure_debut_formatted"`
	EndFormatted     string `json:"heure_fin_formatted"`
	CreatedFormatted string `json:"created_formatted,omitempty"`
}

func (s TimeSlot) View() TimeSlotView {
	v := TimeSlotView{
		TimeSlot:       s,
		StartFormatted: FormatTimeShort(s.Start),
		EndFormatted:   FormatTimeShort(s.End),
	}
	if !s.CreatedAt.IsZero() {
		v.CreatedFormatted = FormatTimestampFR(s.CreatedAt)
	}
	return v
}
