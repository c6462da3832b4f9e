package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(classID, usn, date, status, subject string) Record {
	return Record{ClassID: classID, USN: usn, Date: date, Status: status, Subject: subject}
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(0, 0))
	assert.Equal(t, 100.0, Rate(5, 0))
	assert.Equal(t, 0.0, Rate(0, 5))
	assert.Equal(t, 75.0, Rate(3, 1))
	// 2/3 rounds to two decimals.
	assert.Equal(t, 66.67, Rate(2, 1))
	assert.Equal(t, 33.33, Rate(1, 2))
}

func TestComputeExcludesCancelledFromRate(t *testing.T) {
	records := []Record{
		rec("CS301", "1MS21CS001", "2024-03-01", StatusPresent, "Networks"),
		rec("CS301", "1MS21CS001", "2024-03-02", StatusPresent, "Networks"),
		rec("CS301", "1MS21CS002", "2024-03-01", StatusPresent, "Networks"),
		rec("CS301", "1MS21CS002", "2024-03-02", StatusAbsent, "Networks"),
		rec("CS301", "1MS21CS001", "2024-03-03", StatusCancelled, "Networks"),
	}

	s := Compute(records)
	assert.Equal(t, 5, s.TotalRecords)
	assert.Equal(t, 3, s.PresentCount)
	assert.Equal(t, 1, s.AbsentCount)
	assert.Equal(t, 1, s.CancelledCount)
	assert.Equal(t, 4, s.ActiveRecords)
	// 3 of 4 active: the cancelled row does not dilute the rate.
	assert.Equal(t, 75.0, s.AttendanceRate)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	assert.Zero(t, s.TotalRecords)
	assert.Zero(t, s.ActiveRecords)
	assert.Equal(t, 0.0, s.AttendanceRate)
}

func TestComputeAllCancelled(t *testing.T) {
	records := []Record{
		rec("CS301", "1MS21CS001", "2024-03-01", StatusCancelled, ""),
		rec("CS301", "1MS21CS002", "2024-03-01", StatusCancelled, ""),
	}
	s := Compute(records)
	assert.Equal(t, 2, s.TotalRecords)
	assert.Zero(t, s.ActiveRecords)
	assert.Equal(t, 0.0, s.AttendanceRate)
}

func TestDistinctStudents(t *testing.T) {
	records := []Record{
		rec("CS301", "1MS21CS001", "2024-03-01", StatusPresent, ""),
		rec("CS301", "1MS21CS001", "2024-03-02", StatusPresent, ""),
		rec("CS301", "1MS21CS002", "2024-03-01", StatusAbsent, ""),
	}
	assert.Equal(t, 2, DistinctStudents(records))
	assert.Equal(t, 0, DistinctStudents(nil))
}

func TestDistinctClassesFirstSeenOrder(t *testing.T) {
	records := []Record{
		rec("EC204", "1MS21CS001", "2024-03-01", StatusPresent, ""),
		rec("CS301", "1MS21CS001", "2024-03-01", StatusPresent, ""),
		rec("EC204", "1MS21CS001", "2024-03-02", StatusPresent, ""),
		rec("ME102", "1MS21CS001", "2024-03-01", StatusPresent, ""),
	}
	assert.Equal(t, []string{"EC204", "CS301", "ME102"}, DistinctClasses(records))
}

func TestSubjectBreakdown(t *testing.T) {
	records := []Record{
		rec("CS301", "1MS21CS001", "2024-03-02", StatusPresent, "Networks"),
		rec("CS301", "1MS21CS001", "2024-03-05", StatusAbsent, "Networks"),
		rec("CS301", "1MS21CS001", "2024-03-01", StatusPresent, "Networks"),
		rec("CS301", "1MS21CS001", "2024-03-03", StatusPresent, "OS"),
		rec("EC204", "1MS21CS001", "2024-03-04", StatusCancelled, "Circuits"),
	}

	out := SubjectBreakdown(records)
	assert.Len(t, out, 3)

	assert.Equal(t, "Networks", out[0].Subject)
	assert.Equal(t, 3, out[0].TotalRecords)
	assert.Equal(t, 66.67, out[0].AttendanceRate)
	// Calendar maximum, not the last row seen.
	assert.Equal(t, "2024-03-05", out[0].LastMarked)

	assert.Equal(t, "OS", out[1].Subject)
	assert.Equal(t, 100.0, out[1].AttendanceRate)

	assert.Equal(t, "EC204", out[2].ClassID)
	assert.Equal(t, "Circuits", out[2].Subject)
	assert.Equal(t, 0.0, out[2].AttendanceRate)
	assert.Equal(t, 1, out[2].CancelledCount)
}

func TestSubjectBreakdownBlankSubject(t *testing.T) {
	records := []Record{
		rec("CS301", "1MS21CS001", "2024-03-01", StatusPresent, ""),
		rec("CS301", "1MS21CS001", "2024-03-02", StatusAbsent, ""),
	}
	out := SubjectBreakdown(records)
	assert.Len(t, out, 1)
	assert.Equal(t, "Unknown Subject", out[0].Subject)
	assert.Equal(t, 50.0, out[0].AttendanceRate)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPresent))
	assert.True(t, ValidStatus(StatusAbsent))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("late"))
	assert.False(t, ValidStatus(""))
}
