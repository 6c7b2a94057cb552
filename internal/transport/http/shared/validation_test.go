package shared

import (
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	if _, err := ParseDate("2024-03-01"); err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if _, err := ParseDate("2024-03-01T08:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if parsed, err := ParseDate(""); err != nil || !parsed.IsZero() {
		t.Fatalf("empty should be zero, got %v %v", parsed, err)
	}
	if _, err := ParseDate("03/01/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Enum("dayType", "weekend", []string{"full_day", "half_day"}, "must be full_day or half_day")
	v.Date("fromDate", "not-a-date")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	if len(v.Issues()) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(v.Issues()))
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	v.DateOrder("fromDate", start, "untilDate", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(v.Issues()))
	}
}

func TestValidatorCleanPayload(t *testing.T) {
	v := NewValidator()
	v.Required("name", "Sick Leave", "name is required")
	v.Enum("dayType", "full_day", []string{"full_day", "half_day"}, "invalid")
	if _, ok := v.Date("fromDate", "2024-03-01"); !ok {
		t.Fatal("expected valid date")
	}
	if v.HasIssues() {
		t.Fatalf("unexpected issues: %v", v.Issues())
	}
}
