package enrollment

import "strings"

const exportHeader = "ID,Student Name,Email,Phone,Course,Status,Date"

// ExportCSV renders the given enrollments as a comma-separated table with a
// fixed header row. Student name and course title are always quoted; every
// other field is quoted only when it contains a comma, quote or newline.
// Embedded quotes are doubled.
func ExportCSV(list []Enrollment) string {
	var b strings.Builder
	b.WriteString(exportHeader)
	b.WriteString("\n")

	for _, e := range list {
		row := []string{
			csvField(e.ID, false),
			csvField(e.StudentName, true),
			csvField(e.StudentEmail, false),
			csvField(e.StudentPhone, false),
			csvField(e.ResourceTitle, true),
			csvField(string(e.Status), false),
			csvField(e.EnrolledAt.Format("1/2/2006"), false),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func csvField(v string, alwaysQuote bool) string {
	if !alwaysQuote && !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
