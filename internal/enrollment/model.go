package enrollment

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a member of the closed status set.
// Any member may be set from any other; there is no transition table.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Enrollment struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ResourceID    string    `bson:"resource_id" json:"resourceId"`
	ResourceTitle string    `bson:"resource_title" json:"resourceTitle"`
	StudentName   string    `bson:"student_name" json:"studentName"`
	StudentEmail  string    `bson:"student_email" json:"studentEmail"`
	StudentPhone  string    `bson:"student_phone" json:"studentPhone"`
	Status        Status    `bson:"status" json:"status"`
	EnrolledAt    time.Time `bson:"enrolled_at" json:"enrolledAt"`
}
