// Package attendance implements the attendance store and the
// role-scoped aggregation over it: rates, trends and grouped reports.
package attendance

import "time"

// Attendance statuses. Cancelled entries never count toward a rate.
const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known attendance status.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusCancelled
}

// Record is one attendance entry. Dates are calendar days in
// YYYY-MM-DD form, so lexicographic order is calendar order.
type Record struct {
	ID          int64     `json:"id"`
	ClassID     string    `json:"class_id"`
	USN         string    `json:"usn"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	MarkedBy    string    `json:"marked_by,omitempty"`
	PeriodStart string    `json:"period_start,omitempty"`
	PeriodEnd   string    `json:"period_end,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows a record listing. Zero values mean "no filter".
type Filter struct {
	ClassID     string
	USN         string
	Status      string
	DateFrom    string
	DateTo      string
	Subject     string // exact match
	SubjectLike string // case-insensitive substring
	Semester    string // substring match against class_id
	MarkedBy    string
	Limit       int
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	ClassID     *string `json:"class_id"`
	USN         *string `json:"usn"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
	MarkedBy    *string `json:"marked_by"`
	PeriodStart *string `json:"period_start"`
	PeriodEnd   *string `json:"period_end"`
	Subject     *string `json:"subject"`
}
