package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request status values. The wire strings match the upstream approval
// workflow and are compared exactly, never case-folded.
const (
	StatusPending   = "Pending for Approval"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

type DayType string

const (
	FullDay DayType = "full_day"
	HalfDay DayType = "half_day"
)

func (d DayType) Valid() bool {
	return d == FullDay || d == HalfDay
}

type Category struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	MaxAllotment decimal.Decimal `json:"maxAllotment"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// BalanceSnapshot is a point-in-time capture of an employee's balance for one
// category. Snapshots are append-only; the newest capturedAt wins.
type BalanceSnapshot struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	CategoryID string          `json:"categoryId"`
	Total      decimal.Decimal `json:"total"`
	Used       decimal.Decimal `json:"used"`
	Remaining  decimal.Decimal `json:"remaining"`
	CapturedAt time.Time       `json:"capturedAt"`
}

type Request struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	CategoryID     string          `json:"categoryId"`
	FromDate       time.Time       `json:"fromDate"`
	UntilDate      time.Time       `json:"untilDate"`
	FromDayType    DayType         `json:"fromDayType"`
	UntilDayType   DayType         `json:"untilDayType"`
	Days           decimal.Decimal `json:"days"`
	Reason         string          `json:"reason"`
	Status         string          `json:"status"`
	CertificateRef string          `json:"certificateRef,omitempty"`
	SelfCertified  bool            `json:"selfCertified"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// BalanceSummary is what balance queries return: the snapshot's total and
// used untouched, remaining adjusted for in-flight requests.
type BalanceSummary struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Used         decimal.Decimal `json:"used"`
	Remaining    decimal.Decimal `json:"remaining"`
}
