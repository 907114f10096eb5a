package member

import "time"

// Member is one entry on the public faculty listing page. It is presentation
// data only and is unrelated to login accounts.
type Member struct {
	ID             string
	Name           string
	Title          string
	Qualification  string
	Description    string
	ImagePath      string
	Experience     string
	Specialization string
	CreatedAt      time.Time // UTC
	UpdatedAt      time.Time // UTC
}
