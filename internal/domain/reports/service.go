package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"staffdesk/internal/domain/attendance"
)

type Service struct {
	Store      *Store
	Attendance *attendance.Service
}

func NewService(store *Store, att *attendance.Service) *Service {
	return &Service{Store: store, Attendance: att}
}

type Overview struct {
	ActiveEmployees int `json:"activeEmployees"`
	PendingRequests int `json:"pendingRequests"`
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	employees, err := s.Store.ActiveEmployeeCount(ctx)
	if err != nil {
		return Overview{}, err
	}
	pending, err := s.Store.PendingRequestCount(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{ActiveEmployees: employees, PendingRequests: pending}, nil
}

func (s *Service) LeaveBalances(ctx context.Context) ([]BalanceRow, error) {
	return s.Store.LeaveBalances(ctx)
}

func (s *Service) LeaveUsage(ctx context.Context, from, until time.Time) ([]UsageRow, error) {
	return s.Store.LeaveUsage(ctx, from, until)
}

func (s *Service) AttendanceSummary(ctx context.Context, day time.Time, asOf time.Time) ([]attendance.Session, error) {
	return s.Attendance.DailySummary(ctx, day, asOf)
}

// WriteBalancesCSV streams the balance report as CSV.
func (s *Service) WriteBalancesCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.Store.LeaveBalances(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_number", "employee_name", "category", "total", "used", "remaining"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.EmployeeNumber, r.EmployeeName, r.CategoryName, r.Total.String(), r.Used.String(), r.Remaining.String()}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBalancesPDF renders the balance report as a PDF document.
func (s *Service) WriteBalancesPDF(ctx context.Context, w io.Writer) error {
	rows, err := s.Store.LeaveBalances(ctx)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Balance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 8, "Number", "1", 0, "", false, 0, "")
	pdf.CellFormat(55, 8, "Employee", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, "Category", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Used", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Left", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(25, 8, r.EmployeeNumber, "1", 0, "", false, 0, "")
		pdf.CellFormat(55, 8, r.EmployeeName, "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 8, r.CategoryName, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, r.Total.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, r.Used.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, r.Remaining.String(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// WriteAttendanceCSV streams one day's paired sessions as CSV.
func (s *Service) WriteAttendanceCSV(ctx context.Context, w io.Writer, day time.Time, asOf time.Time) error {
	sessions, err := s.Attendance.DailySummary(ctx, day, asOf)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"employee_id", "date", "time_in", "time_out", "hours", "status"}); err != nil {
		return err
	}
	for _, session := range sessions {
		timeIn, timeOut := "", ""
		if session.TimeIn != nil {
			timeIn = session.TimeIn.Format(time.RFC3339)
		}
		if session.TimeOut != nil {
			timeOut = session.TimeOut.Format(time.RFC3339)
		}
		record := []string{
			session.EmployeeID,
			session.Date.Format("2006-01-02"),
			timeIn,
			timeOut,
			strconv.FormatFloat(session.Hours, 'f', 2, 64),
			session.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
