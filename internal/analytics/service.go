// Package analytics computes the templated attendance summary and the
// dashboard aggregation. The "AI" summary is deterministic string
// formatting over thresholds, no model call.
package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"classroom/internal/attendance"
	"classroom/internal/authz"
	"classroom/internal/notification"
	"classroom/internal/store"
	"classroom/internal/timetable"
)

// AttendanceSource reads raw attendance rows.
type AttendanceSource interface {
	List(ctx context.Context, f attendance.Filter) ([]attendance.Record, error)
}

// NotificationSource reads notifications for the cancellation display.
type NotificationSource interface {
	List(ctx context.Context, f notification.Filter) ([]notification.Notification, error)
}

// ScheduleSource reads timetable entries for the upcoming-class list.
type ScheduleSource interface {
	List(ctx context.Context, classID, day string) ([]timetable.Entry, error)
}

// Service aggregates across the attendance, notification and schedule
// stores. Read results are cached briefly in redis when available.
type Service struct {
	attendance    AttendanceSource
	notifications NotificationSource
	schedule      ScheduleSource
	gate          *authz.Gate
	cache         *store.Redis
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewService creates a service. cache may be nil.
func NewService(att AttendanceSource, notifs NotificationSource, sched ScheduleSource, gate *authz.Gate, cache *store.Redis, cacheTTL time.Duration) *Service {
	return &Service{
		attendance:    att,
		notifications: notifs,
		schedule:      sched,
		gate:          gate,
		cache:         cache,
		cacheTTL:      cacheTTL,
		now:           time.Now,
	}
}

// KeyMetrics are the numbers behind a summary.
type KeyMetrics struct {
	AttendanceRate float64 `json:"attendance_rate"`
	TotalStudents  int     `json:"total_students"`
	TotalRecords   int     `json:"total_records"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	CancelledCount int     `json:"cancelled_count"`
}

// Summary is the narrative report for one class.
type Summary struct {
	ClassID     string     `json:"class_id"`
	GeneratedAt string     `json:"generated_at"`
	AISummary   string     `json:"ai_summary"`
	KeyMetrics  KeyMetrics `json:"key_metrics"`
}

// AISummary builds the tiered narrative for a class. A class with no
// records yields zeroed metrics, not an error.
func (s *Service) AISummary(ctx context.Context, ident authz.Identity, classID string) (Summary, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return Summary{}, err
	}

	records, err := s.attendance.List(ctx, attendance.Filter{ClassID: classID})
	if err != nil {
		return Summary{}, err
	}

	stats := attendance.Compute(records)
	uniqueStudents := attendance.DistinctStudents(records)
	rate := stats.AttendanceRate

	// Rate over the trailing 7 calendar days, inclusive of today.
	cutoff := s.now().AddDate(0, 0, -7).Format("2006-01-02")
	recentPresent, recentAbsent := 0, 0
	for _, rec := range records {
		if rec.Date < cutoff {
			continue
		}
		switch rec.Status {
		case attendance.StatusPresent:
			recentPresent++
		case attendance.StatusAbsent:
			recentAbsent++
		}
	}
	recentRate := attendance.Rate(recentPresent, recentAbsent)

	var parts []string
	switch {
	case rate >= 90:
		parts = append(parts, fmt.Sprintf("📊 **Excellent Performance**: The class demonstrates outstanding attendance with a %.1f%% rate.", rate))
	case rate >= 80:
		parts = append(parts, fmt.Sprintf("📊 **Good Performance**: The class maintains a solid %.1f%% attendance rate.", rate))
	case rate >= 70:
		parts = append(parts, fmt.Sprintf("📊 **Moderate Performance**: The class shows a %.1f%% attendance rate, which may need attention.", rate))
	default:
		parts = append(parts, fmt.Sprintf("📊 **Needs Improvement**: The class has a %.1f%% attendance rate, requiring intervention.", rate))
	}

	trendDiff := recentRate - rate
	switch {
	case trendDiff > 5:
		parts = append(parts, fmt.Sprintf("📈 **Positive Trend**: Recent attendance improved by %.1f%%.", trendDiff))
	case trendDiff < -5:
		parts = append(parts, fmt.Sprintf("📉 **Declining Trend**: Recent attendance dropped by %.1f%%.", -trendDiff))
	default:
		parts = append(parts, "📊 **Stable Trend**: Attendance patterns remain consistent.")
	}

	if stats.CancelledCount > 0 {
		cancellationRate := float64(stats.CancelledCount) / float64(stats.TotalRecords) * 100
		if cancellationRate > 10 {
			parts = append(parts, fmt.Sprintf("⚠️ **High Disruption**: %.1f%% of classes cancelled.", cancellationRate))
		} else {
			parts = append(parts, fmt.Sprintf("⚠️ **Minimal Disruption**: %.1f%% cancellation rate is acceptable.", cancellationRate))
		}
	}

	if uniqueStudents > 0 {
		perStudent := float64(stats.TotalRecords) / float64(uniqueStudents)
		if perStudent > 10 {
			parts = append(parts, fmt.Sprintf("👥 **High Engagement**: Students show strong commitment with %.1f sessions per student.", perStudent))
		}
	}

	var recommendations []string
	if rate < 80 {
		recommendations = append(recommendations, "Implement engagement strategies")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Continue current successful strategies")
	}

	text := strings.Join(parts, "\n\n")
	text += "\n\n💡 **Recommendations**:"
	for _, rec := range recommendations {
		text += "\n- " + rec
	}

	return Summary{
		ClassID:     classID,
		GeneratedAt: s.now().Format(time.RFC3339),
		AISummary:   text,
		KeyMetrics: KeyMetrics{
			AttendanceRate: rate,
			TotalStudents:  uniqueStudents,
			TotalRecords:   stats.TotalRecords,
			PresentCount:   stats.PresentCount,
			AbsentCount:    stats.AbsentCount,
			CancelledCount: stats.CancelledCount,
		},
	}, nil
}

// ChartSlice is one wedge of the dashboard attendance chart.
type ChartSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// CancelledClass is a cancellation notification rendered for display
// through its typed metadata.
type CancelledClass struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Reason  string `json:"reason"`
	ClassID string `json:"class_id"`
}

// UpcomingClass is a scheduled, non-cancelled timetable slot.
type UpcomingClass struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Day     string `json:"day"`
	Time    string `json:"time"`
	ClassID string `json:"class_id"`
}

// SummaryStats are the dashboard headline numbers.
type SummaryStats struct {
	TotalRecords   int     `json:"total_records"`
	AttendanceRate float64 `json:"attendance_rate"`
	UniqueStudents int     `json:"unique_students"`
	ActiveClasses  int     `json:"active_classes"`
}

// Dashboard is the aggregated dashboard payload.
type Dashboard struct {
	AttendanceChartData []ChartSlice     `json:"attendance_chart_data"`
	CancelledClasses    []CancelledClass `json:"cancelled_classes"`
	UpcomingClasses     []UpcomingClass  `json:"upcoming_classes"`
	SummaryStats        SummaryStats     `json:"summary_stats"`
}

// DashboardData aggregates chart, cancellation and schedule data,
// optionally narrowed to one class.
func (s *Service) DashboardData(ctx context.Context, ident authz.Identity, classID string) (Dashboard, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return Dashboard{}, err
	}

	cacheKey := "analytics:dashboard:" + classID
	var cached Dashboard
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	records, err := s.attendance.List(ctx, attendance.Filter{ClassID: classID})
	if err != nil {
		return Dashboard{}, err
	}
	stats := attendance.Compute(records)

	pct := func(count int) float64 {
		if stats.TotalRecords == 0 {
			return 0
		}
		return round1(float64(count) / float64(stats.TotalRecords) * 100)
	}
	dash := Dashboard{
		AttendanceChartData: []ChartSlice{
			{Name: "Present", Value: pct(stats.PresentCount), Color: "#5C6AC4"},
			{Name: "Absent", Value: pct(stats.AbsentCount), Color: "#7E8AFF"},
			{Name: "Cancelled", Value: pct(stats.CancelledCount), Color: "#E5E7EB"},
		},
		CancelledClasses: []CancelledClass{},
		UpcomingClasses:  []UpcomingClass{},
		SummaryStats: SummaryStats{
			TotalRecords:   stats.TotalRecords,
			AttendanceRate: stats.AttendanceRate,
			UniqueStudents: attendance.DistinctStudents(records),
			ActiveClasses:  len(attendance.DistinctClasses(records)),
		},
	}

	cancellations, err := s.notifications.List(ctx, notification.Filter{
		ClassID: classID,
		Type:    notification.TypeCancellation,
		Limit:   5,
	})
	if err != nil {
		return Dashboard{}, err
	}
	for _, n := range cancellations {
		dash.CancelledClasses = append(dash.CancelledClasses, renderCancellation(n))
	}

	entries, err := s.schedule.List(ctx, classID, "")
	if err != nil {
		return Dashboard{}, err
	}
	for _, e := range entries {
		if e.IsCancelled {
			continue
		}
		dash.UpcomingClasses = append(dash.UpcomingClasses, UpcomingClass{
			ID:      e.ID,
			Subject: e.Subject,
			Day:     e.Day,
			Time:    e.PeriodStart + "-" + e.PeriodEnd,
			ClassID: e.ClassID,
		})
		if len(dash.UpcomingClasses) == 5 {
			break
		}
	}

	s.cache.SetJSON(ctx, cacheKey, dash, s.cacheTTL)
	return dash, nil
}

// renderCancellation projects a cancellation notification through its
// typed metadata, with display fallbacks for absent keys.
func renderCancellation(n notification.Notification) CancelledClass {
	meta := n.Metadata
	if meta == nil {
		meta = &notification.Metadata{}
	}
	out := CancelledClass{
		ID:      n.ID,
		Subject: meta.Subject,
		Date:    meta.Date,
		Reason:  meta.Reason,
		ClassID: n.ClassID,
	}
	if out.Subject == "" {
		out.Subject = "Unknown Subject"
	}
	if out.Date == "" {
		out.Date = n.CreatedAt.Format("2006-01-02")
	}
	if out.Reason == "" {
		out.Reason = n.Message
	}
	start, end := meta.PeriodStart, meta.PeriodEnd
	if start == "" {
		start = "TBD"
	}
	if end == "" {
		end = "TBD"
	}
	out.Time = start + "-" + end
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
