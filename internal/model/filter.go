package model

// AppointmentFilter narrows admin listings. Zero values mean "no filter".
type AppointmentFilter struct {
	Date   string
	Status string
	Search string
	Limit  int
	Offset int
}
