package attendance

import "math"

// Stats is the common counting shape shared by class and student stats.
// The rate excludes cancelled entries: present / (present + absent),
// zero when no active records exist.
type Stats struct {
	TotalRecords   int     `json:"total_records"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	CancelledCount int     `json:"cancelled_count"`
	AttendanceRate float64 `json:"attendance_rate"`
	ActiveRecords  int     `json:"active_records"`
}

// ClassStats adds the distinct-student count.
type ClassStats struct {
	Stats
	UniqueStudents int `json:"unique_students"`
}

// StudentStats adds the distinct classes a student has records in.
type StudentStats struct {
	Stats
	Classes []string `json:"classes"`
}

// SubjectStats is the per-(class, subject) breakdown for one student.
type SubjectStats struct {
	ClassID        string  `json:"class_id"`
	Subject        string  `json:"subject"`
	TotalRecords   int     `json:"total_records"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	CancelledCount int     `json:"cancelled_count"`
	AttendanceRate float64 `json:"attendance_rate"`
	LastMarked     string  `json:"last_marked,omitempty"`
}

// Rate is the attendance rate over active records, as a percentage
// rounded to two decimals. Never divides by zero.
func Rate(present, absent int) float64 {
	active := present + absent
	if active == 0 {
		return 0.0
	}
	return round2(float64(present) / float64(active) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute tallies a record set into the common stats shape.
func Compute(records []Record) Stats {
	var s Stats
	s.TotalRecords = len(records)
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			s.PresentCount++
		case StatusAbsent:
			s.AbsentCount++
		case StatusCancelled:
			s.CancelledCount++
		}
	}
	s.ActiveRecords = s.PresentCount + s.AbsentCount
	s.AttendanceRate = Rate(s.PresentCount, s.AbsentCount)
	return s
}

// DistinctStudents counts unique student identifiers in a record set.
func DistinctStudents(records []Record) int {
	seen := map[string]struct{}{}
	for _, rec := range records {
		seen[rec.USN] = struct{}{}
	}
	return len(seen)
}

// DistinctClasses returns the classes present in a record set, ordered
// by first appearance so the output is deterministic.
func DistinctClasses(records []Record) []string {
	seen := map[string]struct{}{}
	classes := []string{}
	for _, rec := range records {
		if _, ok := seen[rec.ClassID]; ok {
			continue
		}
		seen[rec.ClassID] = struct{}{}
		classes = append(classes, rec.ClassID)
	}
	return classes
}

// SubjectBreakdown groups a student's records by (class, subject) in
// first-seen order. LastMarked is the calendar maximum of the group's
// dates, not insertion order.
func SubjectBreakdown(records []Record) []SubjectStats {
	type key struct{ classID, subject string }
	order := []key{}
	groups := map[key]*SubjectStats{}

	for _, rec := range records {
		subject := rec.Subject
		if subject == "" {
			subject = "Unknown Subject"
		}
		k := key{rec.ClassID, subject}
		g, ok := groups[k]
		if !ok {
			g = &SubjectStats{ClassID: rec.ClassID, Subject: subject}
			groups[k] = g
			order = append(order, k)
		}
		g.TotalRecords++
		switch rec.Status {
		case StatusPresent:
			g.PresentCount++
		case StatusAbsent:
			g.AbsentCount++
		case StatusCancelled:
			g.CancelledCount++
		}
		if rec.Date > g.LastMarked {
			g.LastMarked = rec.Date
		}
	}

	out := make([]SubjectStats, 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.AttendanceRate = Rate(g.PresentCount, g.AbsentCount)
		out = append(out, *g)
	}
	return out
}
