package model

// AvailableDate is one bookable calendar date inside the rolling window.
type AvailableDate struct {
	Date      string `json:"date"`
	DayName   string `json:"dayName"`
	Formatted string `json:"formatted"`
}

// AvailableSlot is one still-free time slot of a given date.
type AvailableSlot struct {
	ID        int64  `json:"id"`
	Time      string `json:"time"`
	TimeEnd   string `json:"timeEnd"`
	Formatted string `json:"formatted"`
}
