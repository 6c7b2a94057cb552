package feedback

import "time"

// Quarter tags, checked in this order when locating the active cycle.
const (
	QuarterQ1 = "Q1"
	QuarterQ2 = "Q2"
	QuarterQ3 = "Q3"
	QuarterQ4 = "Q4"
)

var Quarters = []string{QuarterQ1, QuarterQ2, QuarterQ3, QuarterQ4}

// Cycle is a time-boxed feedback window owned by an employee and scoped to
// a department.
type Cycle struct {
	ID              string    `json:"id"`
	OwnerEmployeeID string    `json:"ownerEmployeeId"`
	DepartmentID    string    `json:"departmentId"`
	Quarter         string    `json:"quarter"`
	Title           string    `json:"title"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Response struct {
	ID                 string    `json:"id"`
	CycleID            string    `json:"cycleId"`
	EmployeeID         string    `json:"employeeId"`
	ReviewerEmployeeID string    `json:"reviewerEmployeeId,omitempty"`
	Rating             int       `json:"rating"`
	Comments           string    `json:"comments"`
	SubmittedAt        time.Time `json:"submittedAt"`
}
