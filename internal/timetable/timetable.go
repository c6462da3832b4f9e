// Package timetable implements the schedule store and the cancel/
// restore/update mutations over it.
package timetable

import "time"

// Entry is one scheduled slot for a class.
type Entry struct {
	ID           int64     `json:"id"`
	ClassID      string    `json:"class_id"`
	Day          string    `json:"day"`
	PeriodStart  string    `json:"period_start"`
	PeriodEnd    string    `json:"period_end"`
	Subject      string    `json:"subject"`
	ProfessorID  string    `json:"professor_id"`
	IsCancelled  bool      `json:"is_cancelled"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NaturalKey locates an entry for cancel/restore/update without its
// internal id: at most one entry per class per period per weekday.
type NaturalKey struct {
	ClassID     string `json:"class_id" binding:"required"`
	Day         string `json:"day" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

// View is an entry plus the derived status/color display hint. The hint
// is computed on read and never persisted.
type View struct {
	Entry
	Status string `json:"status"`
	Color  string `json:"color"`
}

// NewView projects the display hint onto an entry.
func NewView(e Entry) View {
	v := View{Entry: e, Status: "active", Color: "green"}
	if e.IsCancelled {
		v.Status = "cancelled"
		v.Color = "red"
	}
	return v
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	ClassID     *string `json:"class_id"`
	Day         *string `json:"day"`
	PeriodStart *string `json:"period_start"`
	PeriodEnd   *string `json:"period_end"`
	Subject     *string `json:"subject"`
	ProfessorID *string `json:"professor_id"`
}
