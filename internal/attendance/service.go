package attendance

import (
	"context"
	"fmt"

	"classroom/internal/apperr"
	"classroom/internal/authz"
	"classroom/internal/timetable"
	"classroom/internal/user"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	ByID(ctx context.Context, id int64) (Record, error)
	Update(ctx context.Context, id int64, p Patch) (Record, error)
	Delete(ctx context.Context, id int64) error
	DistinctUSNs(ctx context.Context, classID string) ([]string, error)
}

// ScheduleSource exposes the timetable rows the aggregator joins against.
type ScheduleSource interface {
	ForProfessor(ctx context.Context, professorID string) ([]timetable.Entry, error)
}

// Directory resolves accounts for roster joins and display names.
type Directory interface {
	StudentsByUSNs(ctx context.Context, usns []string) ([]user.User, error)
	ByUserID(ctx context.Context, userID string) (user.User, error)
}

// Service is the attendance aggregator: it applies the authorization
// gate's visibility rules and turns raw records into stats and reports.
type Service struct {
	store     Store
	gate      *authz.Gate
	schedule  ScheduleSource
	directory Directory
}

// NewService creates a service.
func NewService(store Store, gate *authz.Gate, schedule ScheduleSource, directory Directory) *Service {
	return &Service{store: store, gate: gate, schedule: schedule, directory: directory}
}

// CreateInput is the single-record creation payload.
type CreateInput struct {
	ClassID     string `json:"class_id" binding:"required"`
	USN         string `json:"usn" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Status      string `json:"status" binding:"required"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Subject     string `json:"subject"`
}

// BulkItem is one student entry inside a bulk submission.
type BulkItem struct {
	USN    string `json:"usn"`
	Status string `json:"status"`
}

// BulkInput carries the shared class/date/period context plus the
// per-student list.
type BulkInput struct {
	ClassID     string     `json:"class_id" binding:"required"`
	Date        string     `json:"date" binding:"required"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Subject     string     `json:"subject"`
	Records     []BulkItem `json:"attendance_records" binding:"required"`
}

// BulkError reports one failed item with its originating index.
type BulkError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult is the partial-success outcome of a bulk submission.
type BulkResult struct {
	CreatedCount   int         `json:"created_count"`
	ErrorCount     int         `json:"error_count"`
	CreatedRecords []Record    `json:"created_records"`
	Errors         []BulkError `json:"errors"`
}

// List returns records under role scoping: students are pinned to their
// own rows no matter what filter they supply.
func (s *Service) List(ctx context.Context, ident authz.Identity, f Filter) ([]Record, error) {
	d := s.gate.ReadRecords(ident, f.USN)
	if err := d.Err(); err != nil {
		return nil, err
	}
	f.USN = d.ScopeUSN
	if f.Limit <= 0 {
		f.Limit = 100
	}
	return s.store.List(ctx, f)
}

// Create writes one record. The professor assignment check runs before
// any write; duplicates surface as a conflict from the store constraint.
func (s *Service) Create(ctx context.Context, ident authz.Identity, in CreateInput) (Record, error) {
	if !ValidStatus(in.Status) {
		return Record{}, apperr.InvalidInput("status must be present, absent or cancelled")
	}
	d, err := s.gate.MutateClass(ctx, ident, in.ClassID, in.Subject)
	if err != nil {
		return Record{}, err
	}
	if err := d.Err(); err != nil {
		return Record{}, err
	}
	return s.store.Insert(ctx, Record{
		ClassID:     in.ClassID,
		USN:         in.USN,
		Date:        in.Date,
		Status:      in.Status,
		MarkedBy:    ident.UserID,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		Subject:     in.Subject,
	})
}

// CreateBulk writes many records, aggregating per-item failures instead
// of failing the batch. Successful rows are never rolled back.
func (s *Service) CreateBulk(ctx context.Context, ident authz.Identity, in BulkInput) (BulkResult, error) {
	d, err := s.gate.MutateClass(ctx, ident, in.ClassID, in.Subject)
	if err != nil {
		return BulkResult{}, err
	}
	if err := d.Err(); err != nil {
		return BulkResult{}, err
	}

	result := BulkResult{CreatedRecords: []Record{}, Errors: []BulkError{}}
	for i, item := range in.Records {
		if item.USN == "" {
			result.Errors = append(result.Errors, BulkError{Index: i, Error: "usn is required"})
			continue
		}
		status := item.Status
		if status == "" {
			status = StatusPresent
		}
		if !ValidStatus(status) {
			result.Errors = append(result.Errors, BulkError{Index: i, Error: "invalid status: " + item.Status})
			continue
		}
		created, err := s.store.Insert(ctx, Record{
			ClassID:     in.ClassID,
			USN:         item.USN,
			Date:        in.Date,
			Status:      status,
			MarkedBy:    ident.UserID,
			PeriodStart: in.PeriodStart,
			PeriodEnd:   in.PeriodEnd,
			Subject:     in.Subject,
		})
		if err != nil {
			switch apperr.KindOf(err) {
			case apperr.KindConflict:
				result.Errors = append(result.Errors, BulkError{Index: i, Error: fmt.Sprintf("record already exists for %s on %s", item.USN, in.Date)})
			default:
				result.Errors = append(result.Errors, BulkError{Index: i, Error: "failed to create record"})
			}
			continue
		}
		result.CreatedRecords = append(result.CreatedRecords, created)
	}
	result.CreatedCount = len(result.CreatedRecords)
	result.ErrorCount = len(result.Errors)
	return result, nil
}

// Update patches a record. Professors stay restricted to classes they
// are assigned to, judged against the stored row.
func (s *Service) Update(ctx context.Context, ident authz.Identity, id int64, p Patch) (Record, error) {
	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	d, err := s.gate.MutateClass(ctx, ident, rec.ClassID, rec.Subject)
	if err != nil {
		return Record{}, err
	}
	if err := d.Err(); err != nil {
		return Record{}, err
	}
	if p.Status != nil && !ValidStatus(*p.Status) {
		return Record{}, apperr.InvalidInput("status must be present, absent or cancelled")
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes a record under the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, ident authz.Identity, id int64) error {
	rec, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	d, err := s.gate.MutateClass(ctx, ident, rec.ClassID, rec.Subject)
	if err != nil {
		return err
	}
	if err := d.Err(); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ClassStats aggregates a class. An unknown class is not an error: it
// yields all-zero counts.
func (s *Service) ClassStats(ctx context.Context, ident authz.Identity, classID string) (ClassStats, error) {
	if err := s.gate.CanAct(ident).Err(); err != nil {
		return ClassStats{}, err
	}
	records, err := s.store.List(ctx, Filter{ClassID: classID})
	if err != nil {
		return ClassStats{}, err
	}
	return ClassStats{Stats: Compute(records), UniqueStudents: DistinctStudents(records)}, nil
}

// StudentStats aggregates one student, optionally narrowed to a class.
// A student may only request their own stats.
func (s *Service) StudentStats(ctx context.Context, ident authz.Identity, usn, classID string) (StudentStats, error) {
	if err := s.gate.ViewStudent(ident, usn).Err(); err != nil {
		return StudentStats{}, err
	}
	records, err := s.store.List(ctx, Filter{USN: usn, ClassID: classID})
	if err != nil {
		return StudentStats{}, err
	}
	return StudentStats{Stats: Compute(records), Classes: DistinctClasses(records)}, nil
}

// SubjectsResponse is the per-subject breakdown for one student.
type SubjectsResponse struct {
	StudentUSN string         `json:"student_usn"`
	Subjects   []SubjectStats `json:"subjects"`
}

// StudentSubjects breaks a student's records down by (class, subject).
func (s *Service) StudentSubjects(ctx context.Context, ident authz.Identity, usn string) (SubjectsResponse, error) {
	if err := s.gate.ViewStudent(ident, usn).Err(); err != nil {
		return SubjectsResponse{}, err
	}
	records, err := s.store.List(ctx, Filter{USN: usn})
	if err != nil {
		return SubjectsResponse{}, err
	}
	return SubjectsResponse{StudentUSN: usn, Subjects: SubjectBreakdown(records)}, nil
}

// MyAttendanceFilter narrows the student self-view. Semester is a
// substring match against class_id.
type MyAttendanceFilter struct {
	Semester string
	Subject  string
	DateFrom string
	DateTo   string
}

// SubjectSummary is the per-subject roll-up inside the self-view.
type SubjectSummary struct {
	Subject              string  `json:"subject"`
	ClassID              string  `json:"class_id"`
	TotalClasses         int     `json:"total_classes"`
	Present              int     `json:"present"`
	Absent               int     `json:"absent"`
	Cancelled            int     `json:"cancelled"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// MyAttendanceResponse is the student self-view: detailed rows plus a
// per-subject summary.
type MyAttendanceResponse struct {
	StudentUSN         string           `json:"student_usn"`
	StudentName        string           `json:"student_name"`
	TotalRecords       int              `json:"total_records"`
	SubjectWiseSummary []SubjectSummary `json:"subject_wise_summary"`
	DetailedRecords    []Record         `json:"detailed_records"`
}

// MyAttendance returns the calling student's own records and summary.
func (s *Service) MyAttendance(ctx context.Context, ident authz.Identity, f MyAttendanceFilter) (MyAttendanceResponse, error) {
	if err := s.gate.RequireRole(ident, authz.RoleStudent).Err(); err != nil {
		return MyAttendanceResponse{}, err
	}
	records, err := s.store.List(ctx, Filter{
		USN:         ident.UserID,
		Semester:    f.Semester,
		SubjectLike: f.Subject,
		DateFrom:    f.DateFrom,
		DateTo:      f.DateTo,
	})
	if err != nil {
		return MyAttendanceResponse{}, err
	}

	order := []string{}
	groups := map[string]*SubjectSummary{}
	for _, rec := range records {
		subject := rec.Subject
		if subject == "" {
			subject = "Unknown Subject"
		}
		g, ok := groups[subject]
		if !ok {
			g = &SubjectSummary{Subject: subject, ClassID: rec.ClassID}
			groups[subject] = g
			order = append(order, subject)
		}
		g.TotalClasses++
		switch rec.Status {
		case StatusPresent:
			g.Present++
		case StatusAbsent:
			g.Absent++
		case StatusCancelled:
			g.Cancelled++
		}
	}
	summary := make([]SubjectSummary, 0, len(order))
	for _, subject := range order {
		g := groups[subject]
		g.AttendancePercentage = Rate(g.Present, g.Absent)
		summary = append(summary, *g)
	}

	name := ident.UserID
	if u, err := s.directory.ByUserID(ctx, ident.UserID); err == nil {
		name = u.FullName
	}
	if records == nil {
		records = []Record{}
	}
	return MyAttendanceResponse{
		StudentUSN:         ident.UserID,
		StudentName:        name,
		TotalRecords:       len(records),
		SubjectWiseSummary: summary,
		DetailedRecords:    records,
	}, nil
}

// DaySlot is one scheduled slot in a professor's assignment listing.
type DaySlot struct {
	Day         string `json:"day"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Subject     string `json:"subject"`
}

// AssignedClass groups a professor's slots for one class.
type AssignedClass struct {
	ClassID  string    `json:"class_id"`
	Subjects []string  `json:"subjects"`
	Days     []DaySlot `json:"days"`
}

// ProfessorSubjectsResponse lists everything a professor teaches.
type ProfessorSubjectsResponse struct {
	ProfessorUSN    string          `json:"professor_usn"`
	ProfessorName   string          `json:"professor_name"`
	AssignedClasses []AssignedClass `json:"assigned_classes"`
}

// ProfessorSubjects groups the caller's timetable assignments by class.
// Subject lists keep first-seen order so output is deterministic.
func (s *Service) ProfessorSubjects(ctx context.Context, ident authz.Identity) (ProfessorSubjectsResponse, error) {
	if err := s.gate.RequireRole(ident, authz.RoleProfessor).Err(); err != nil {
		return ProfessorSubjectsResponse{}, err
	}
	entries, err := s.schedule.ForProfessor(ctx, ident.UserID)
	if err != nil {
		return ProfessorSubjectsResponse{}, err
	}

	order := []string{}
	groups := map[string]*AssignedClass{}
	for _, e := range entries {
		g, ok := groups[e.ClassID]
		if !ok {
			g = &AssignedClass{ClassID: e.ClassID, Subjects: []string{}, Days: []DaySlot{}}
			groups[e.ClassID] = g
			order = append(order, e.ClassID)
		}
		if !contains(g.Subjects, e.Subject) {
			g.Subjects = append(g.Subjects, e.Subject)
		}
		g.Days = append(g.Days, DaySlot{Day: e.Day, PeriodStart: e.PeriodStart, PeriodEnd: e.PeriodEnd, Subject: e.Subject})
	}

	resp := ProfessorSubjectsResponse{
		ProfessorUSN:    ident.UserID,
		ProfessorName:   s.displayName(ctx, ident.UserID),
		AssignedClasses: []AssignedClass{},
	}
	for _, classID := range order {
		resp.AssignedClasses = append(resp.AssignedClasses, *groups[classID])
	}
	return resp, nil
}

// ScheduleSlot is one slot in the per-class teaching summary.
type ScheduleSlot struct {
	Day          string `json:"day"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	IsCancelled  bool   `json:"is_cancelled"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

// TeachingSummary aggregates attendance the professor has marked for
// one (class, subject) pairing.
type TeachingSummary struct {
	TotalClassesConducted int     `json:"total_classes_conducted"`
	AverageAttendance     float64 `json:"average_attendance"`
}

// TaughtClass is one (class, subject) pairing with schedule and summary.
type TaughtClass struct {
	ClassID           string          `json:"class_id"`
	Subject           string          `json:"subject"`
	Schedule          []ScheduleSlot  `json:"schedule"`
	TotalStudents     int             `json:"total_students"`
	AttendanceSummary TeachingSummary `json:"attendance_summary"`
}

// ProfessorClassesResponse is the my-classes view.
type ProfessorClassesResponse struct {
	ProfessorUSN    string        `json:"professor_usn"`
	ProfessorName   string        `json:"professor_name"`
	AssignedClasses []TaughtClass `json:"assigned_classes"`
	Message         string        `json:"message,omitempty"`
}

// ProfessorClasses joins the caller's timetable against the attendance
// they have marked, per (class, subject) pairing.
func (s *Service) ProfessorClasses(ctx context.Context, ident authz.Identity) (ProfessorClassesResponse, error) {
	if err := s.gate.RequireRole(ident, authz.RoleProfessor).Err(); err != nil {
		return ProfessorClassesResponse{}, err
	}
	entries, err := s.schedule.ForProfessor(ctx, ident.UserID)
	if err != nil {
		return ProfessorClassesResponse{}, err
	}

	resp := ProfessorClassesResponse{
		ProfessorUSN:    ident.UserID,
		ProfessorName:   s.displayName(ctx, ident.UserID),
		AssignedClasses: []TaughtClass{},
	}
	if len(entries) == 0 {
		resp.Message = "no classes assigned to this professor"
		return resp, nil
	}

	type key struct{ classID, subject string }
	order := []key{}
	groups := map[key]*TaughtClass{}
	for _, e := range entries {
		k := key{e.ClassID, e.Subject}
		g, ok := groups[k]
		if !ok {
			g = &TaughtClass{ClassID: e.ClassID, Subject: e.Subject, Schedule: []ScheduleSlot{}}
			groups[k] = g
			order = append(order, k)
		}
		g.Schedule = append(g.Schedule, ScheduleSlot{
			Day:          e.Day,
			PeriodStart:  e.PeriodStart,
			PeriodEnd:    e.PeriodEnd,
			IsCancelled:  e.IsCancelled,
			CancelReason: e.CancelReason,
		})
	}

	for _, k := range order {
		g := groups[k]
		records, err := s.store.List(ctx, Filter{ClassID: g.ClassID, Subject: g.Subject, MarkedBy: ident.UserID})
		if err != nil {
			return ProfessorClassesResponse{}, err
		}
		if len(records) > 0 {
			g.TotalStudents = DistinctStudents(records)
			dates := map[string]struct{}{}
			present, absent := 0, 0
			for _, rec := range records {
				if rec.Status != StatusCancelled {
					dates[rec.Date] = struct{}{}
				}
				switch rec.Status {
				case StatusPresent:
					present++
				case StatusAbsent:
					absent++
				}
			}
			g.AttendanceSummary.TotalClassesConducted = len(dates)
			g.AttendanceSummary.AverageAttendance = Rate(present, absent)
		}
		resp.AssignedClasses = append(resp.AssignedClasses, *g)
	}
	return resp, nil
}

// RosterStudent is one student in the class roster. With a date filter
// only AttendanceStatus is set; without one the running totals are.
type RosterStudent struct {
	USN                  string   `json:"usn"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	AttendanceStatus     string   `json:"attendance_status,omitempty"`
	TotalClasses         *int     `json:"total_classes,omitempty"`
	PresentCount         *int     `json:"present_count,omitempty"`
	AttendancePercentage *float64 `json:"attendance_percentage,omitempty"`
}

// RosterResponse is the professor's per-class student list.
type RosterResponse struct {
	ClassID       string          `json:"class_id"`
	Subject       string          `json:"subject"`
	Professor     string          `json:"professor"`
	DateFilter    string          `json:"date_filter,omitempty"`
	TotalStudents int             `json:"total_students"`
	Students      []RosterStudent `json:"students"`
	Message       string          `json:"message,omitempty"`
}

// ClassStudents builds the roster for a class the professor teaches:
// every student with any attendance record, joined against the identity
// store. Students unmarked on the requested date report not_marked.
func (s *Service) ClassStudents(ctx context.Context, ident authz.Identity, classID, subject, date string) (RosterResponse, error) {
	if err := s.gate.RequireRole(ident, authz.RoleProfessor).Err(); err != nil {
		return RosterResponse{}, err
	}
	d, err := s.gate.MutateClass(ctx, ident, classID, subject)
	if err != nil {
		return RosterResponse{}, err
	}
	if !d.Allowed {
		return RosterResponse{}, apperr.Forbidden(fmt.Sprintf("you are not assigned to teach %s for class %s", subject, classID))
	}

	resp := RosterResponse{
		ClassID:    classID,
		Subject:    subject,
		Professor:  s.displayName(ctx, ident.UserID),
		DateFilter: date,
		Students:   []RosterStudent{},
	}

	usns, err := s.store.DistinctUSNs(ctx, classID)
	if err != nil {
		return RosterResponse{}, err
	}
	if len(usns) == 0 {
		resp.Message = "no students found for this class; students appear after the first attendance entry"
		return resp, nil
	}

	students, err := s.directory.StudentsByUSNs(ctx, usns)
	if err != nil {
		return RosterResponse{}, err
	}

	f := Filter{ClassID: classID, Subject: subject}
	if date != "" {
		f.DateFrom, f.DateTo = date, date
	}
	records, err := s.store.List(ctx, f)
	if err != nil {
		return RosterResponse{}, err
	}

	byStudent := map[string][]Record{}
	for _, rec := range records {
		byStudent[rec.USN] = append(byStudent[rec.USN], rec)
	}

	for _, stu := range students {
		entry := RosterStudent{USN: stu.UserID, Name: stu.FullName, Email: stu.Email}
		if date != "" {
			entry.AttendanceStatus = "not_marked"
			for _, rec := range byStudent[stu.UserID] {
				if rec.Date == date {
					entry.AttendanceStatus = rec.Status
					break
				}
			}
		} else {
			own := byStudent[stu.UserID]
			total := len(own)
			present := 0
			for _, rec := range own {
				if rec.Status == StatusPresent {
					present++
				}
			}
			pct := 0.0
			if total > 0 {
				pct = round2(float64(present) / float64(total) * 100)
			}
			entry.TotalClasses = &total
			entry.PresentCount = &present
			entry.AttendancePercentage = &pct
		}
		resp.Students = append(resp.Students, entry)
	}
	resp.TotalStudents = len(resp.Students)
	return resp, nil
}

// ReportFilters echoes the semester-report request filters.
type ReportFilters struct {
	Semester string `json:"semester,omitempty"`
	ClassID  string `json:"class_id,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// StudentReport is one student's tally inside a class/subject group.
type StudentReport struct {
	USN                  string  `json:"usn"`
	Present              int     `json:"present"`
	Absent               int     `json:"absent"`
	Cancelled            int     `json:"cancelled"`
	Total                int     `json:"total"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// ClassReport is one (class, subject) group of the semester report.
// AverageAttendancePercentage is the unweighted mean of per-student
// rates, not a record-weighted figure.
type ClassReport struct {
	ClassID                     string          `json:"class_id"`
	Subject                     string          `json:"subject"`
	TotalStudents               int             `json:"total_students"`
	TotalClassesConducted       int             `json:"total_classes_conducted"`
	AverageAttendancePercentage float64         `json:"average_attendance_percentage"`
	Students                    []StudentReport `json:"students"`
}

// SemesterReportResponse is the admin/professor-wide report.
type SemesterReportResponse struct {
	Filters             ReportFilters `json:"filters"`
	Summary             ReportSummary `json:"summary"`
	ClassSubjectReports []ClassReport `json:"class_subject_reports"`
}

// ReportSummary counts groups and raw records in the report.
type ReportSummary struct {
	TotalClasses int `json:"total_classes"`
	TotalRecords int `json:"total_records"`
}

// SemesterReport groups records by (class, subject) across the optional
// filters. Empty data yields an empty report, not an error.
func (s *Service) SemesterReport(ctx context.Context, ident authz.Identity, semester, classID, subject string) (SemesterReportResponse, error) {
	if err := s.gate.RequireStaff(ident).Err(); err != nil {
		return SemesterReportResponse{}, err
	}
	records, err := s.store.List(ctx, Filter{Semester: semester, ClassID: classID, SubjectLike: subject})
	if err != nil {
		return SemesterReportResponse{}, err
	}

	resp := SemesterReportResponse{
		Filters:             ReportFilters{Semester: semester, ClassID: classID, Subject: subject},
		ClassSubjectReports: []ClassReport{},
	}
	if len(records) == 0 {
		return resp, nil
	}

	type key struct{ classID, subject string }
	type group struct {
		report       ClassReport
		studentOrder []string
		students     map[string]*StudentReport
		dates        map[string]struct{}
	}
	order := []key{}
	groups := map[key]*group{}

	for _, rec := range records {
		subjectName := rec.Subject
		if subjectName == "" {
			subjectName = "Unknown Subject"
		}
		k := key{rec.ClassID, subjectName}
		g, ok := groups[k]
		if !ok {
			g = &group{
				report:   ClassReport{ClassID: rec.ClassID, Subject: subjectName},
				students: map[string]*StudentReport{},
				dates:    map[string]struct{}{},
			}
			groups[k] = g
			order = append(order, k)
		}
		g.dates[rec.Date] = struct{}{}

		stu, ok := g.students[rec.USN]
		if !ok {
			stu = &StudentReport{USN: rec.USN}
			g.students[rec.USN] = stu
			g.studentOrder = append(g.studentOrder, rec.USN)
		}
		stu.Total++
		switch rec.Status {
		case StatusPresent:
			stu.Present++
		case StatusAbsent:
			stu.Absent++
		case StatusCancelled:
			stu.Cancelled++
		}
	}

	for _, k := range order {
		g := groups[k]
		var rateSum float64
		for _, usn := range g.studentOrder {
			stu := g.students[usn]
			stu.AttendancePercentage = Rate(stu.Present, stu.Absent)
			rateSum += stu.AttendancePercentage
			g.report.Students = append(g.report.Students, *stu)
		}
		g.report.TotalStudents = len(g.studentOrder)
		g.report.TotalClassesConducted = len(g.dates)
		if g.report.TotalStudents > 0 {
			g.report.AverageAttendancePercentage = round2(rateSum / float64(g.report.TotalStudents))
		}
		resp.ClassSubjectReports = append(resp.ClassSubjectReports, g.report)
	}
	resp.Summary = ReportSummary{TotalClasses: len(order), TotalRecords: len(records)}
	return resp, nil
}

func (s *Service) displayName(ctx context.Context, userID string) string {
	if u, err := s.directory.ByUserID(ctx, userID); err == nil && u.FullName != "" {
		return u.FullName
	}
	return userID
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
