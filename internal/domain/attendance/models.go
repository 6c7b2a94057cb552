package attendance

import "time"

const (
	ActionTimeIn  = "Time In"
	ActionTimeOut = "Time Out"
)

// Session statuses.
const (
	StatusComplete   = "complete"
	StatusInProgress = "in_progress"
	StatusMissingOut = "missing_out"
)

// Event is a single append-only clock action. Corrections are recorded as
// new events; the pairer keeps the latest one per action per day.
type Event struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
	RecordedAt time.Time `json:"recordedAt"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Note       string    `json:"note,omitempty"`
}

// Session is the derived in/out pair for one employee on one day.
type Session struct {
	EmployeeID string        `json:"employeeId"`
	Date       time.Time     `json:"date"`
	TimeIn     *time.Time    `json:"timeIn,omitempty"`
	TimeOut    *time.Time    `json:"timeOut,omitempty"`
	Duration   time.Duration `json:"-"`
	Hours      float64       `json:"hours"`
	Status     string        `json:"status"`
}
