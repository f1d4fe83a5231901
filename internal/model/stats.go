package model

// GeneralStats are the headline counters of the admin dashboard.
type GeneralStats struct {
	Total     int64 `json:"total_appointments"`
	Confirmed int64 `json:"confirmed"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
	Today     int64 `json:"today_appointments"`
}

type StatusCount struct {
	Status AppointmentStatus `json:"statut"`
	Count  int64             `json:"count"`
}

type LevelCount struct {
	Level string `json:"niveau_scolaire"`
	Count int64  `json:"count"`
}

type SexCount struct {
	Sex   string `json:"sexe"`
	Count int64  `json:"count"`
}

// DateCount buckets appointments by calendar date.
type DateCount struct {
	Date          string `json:"date"`
	Count         int64  `json:"count"`
	DateFormatted string `json:"date_formatted,omitempty"`
}

// SlotCount buckets appointments by booked time of day.
type SlotCount struct {
	Time          string `json:"heure_rdv"`
	Count         int64  `json:"count"`
	TimeFormatted string `json:"heure_formatted,omitempty"`
}

// Statistics is the full aggregate payload of GET /api/admin/statistics.
type Statistics struct {
	General      GeneralStats  `json:"general"`
	Daily        []DateCount   `json:"daily"`
	ByLevel      []LevelCount  `json:"byLevel"`
	ByStatus     []StatusCount `json:"byStatus"`
	ByGender     []SexCount    `json:"byGender"`
	PopularSlots []SlotCount   `json:"popularSlots"`
	Upcoming     []DateCount   `json:"upcoming"`
}

// DateStats are the per-status counts of a single day's export.
type DateStats struct {
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
}
