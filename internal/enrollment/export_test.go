package enrollment_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mogaaruf1/somali-student-hub/internal/enrollment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	enrolledAt := time.Date(2026, time.March, 7, 14, 30, 0, 0, time.UTC)

	t.Run("FixedHeaderAndRowShape", func(t *testing.T) {
		out := enrollment.ExportCSV([]enrollment.Enrollment{
			{
				ID:            "e1",
				StudentName:   "Amina",
				StudentEmail:  "amina@example.com",
				StudentPhone:  "+252612345678",
				ResourceTitle: "Web Development",
				Status:        enrollment.StatusApproved,
				EnrolledAt:    enrolledAt,
			},
		})

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "ID,Student Name,Email,Phone,Course,Status,Date", lines[0])
		assert.Equal(t, `e1,"Amina",amina@example.com,+252612345678,"Web Development",approved,3/7/2026`, lines[1])
	})

	t.Run("EmptyListIsHeaderOnly", func(t *testing.T) {
		out := enrollment.ExportCSV(nil)
		assert.Equal(t, "ID,Student Name,Email,Phone,Course,Status,Date\n", out)
	})

	t.Run("EscapesCommasAndQuotesInAnyField", func(t *testing.T) {
		out := enrollment.ExportCSV([]enrollment.Enrollment{
			{
				ID:            "e2",
				StudentName:   `Cali "Dheere" Xasan`,
				StudentEmail:  "cali@example.com",
				StudentPhone:  "+25261,234",
				ResourceTitle: "Data, Science",
				Status:        enrollment.StatusPending,
				EnrolledAt:    enrolledAt,
			},
		})

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `e2,"Cali ""Dheere"" Xasan",cali@example.com,"+25261,234","Data, Science",pending,3/7/2026`, lines[1])
	})

	t.Run("DeterministicAcrossCalls", func(t *testing.T) {
		list := []enrollment.Enrollment{
			{ID: "a", StudentName: "Ayaan", ResourceTitle: "Design", Status: enrollment.StatusPending, EnrolledAt: enrolledAt},
			{ID: "b", StudentName: "Bashir", ResourceTitle: "Backend", Status: enrollment.StatusRejected, EnrolledAt: enrolledAt},
		}
		assert.Equal(t, enrollment.ExportCSV(list), enrollment.ExportCSV(list))
	})
}
