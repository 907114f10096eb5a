package audit

import "time"

// Action tags for recorded events.
const (
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionUploadPYQP    = "upload_pyqp"
	ActionUpdateProfile = "update_profile"
)

// Entry is one recorded security-relevant action. Entries are append-only and
// never mutated or deleted.
type Entry struct {
	ID        string
	ActorID   string // owning account ID
	Action    string
	Details   string
	IPAddress string
	UserAgent string
	CreatedAt time.Time // UTC
}
