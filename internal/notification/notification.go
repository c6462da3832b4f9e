// Package notification implements the notification store: class-wide
// broadcasts and per-student messages.
package notification

import "time"

// Notification types.
const (
	TypeCancellation = "cancellation"
	TypeResource     = "resource"
	TypeNotice       = "notice"
)

// ValidType reports whether t is a known notification type.
func ValidType(t string) bool {
	return t == TypeCancellation || t == TypeResource || t == TypeNotice
}

// Metadata is the typed optional payload. The cancellation display path
// reads these keys, so they are a struct rather than an open map.
type Metadata struct {
	Subject     string `json:"subject,omitempty"`
	Date        string `json:"date,omitempty"`
	PeriodStart string `json:"period_start,omitempty"`
	PeriodEnd   string `json:"period_end,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Notification is one message. A nil/empty TargetUSN means a broadcast
// visible to every student of the class.
type Notification struct {
	ID        int64     `json:"id"`
	ClassID   string    `json:"class_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	TargetUSN string    `json:"target_usn,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a notification listing. ViewerUSN, when set, restricts
// results to broadcasts plus rows targeted at that student.
type Filter struct {
	ClassID   string
	TargetUSN string
	Type      string
	IsRead    *bool
	ViewerUSN string
	Limit     int
}
