package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quarterlyCollections() [][]Cycle {
	return [][]Cycle{
		{{ID: "q1", Quarter: QuarterQ1, StartDate: day(2024, 1, 1), EndDate: day(2024, 3, 31)}},
		{{ID: "q2", Quarter: QuarterQ2, StartDate: day(2024, 4, 1), EndDate: day(2024, 6, 30)}},
		{{ID: "q3", Quarter: QuarterQ3, StartDate: day(2024, 7, 1), EndDate: day(2024, 9, 30)}},
		{{ID: "q4", Quarter: QuarterQ4, StartDate: day(2024, 10, 1), EndDate: day(2024, 12, 31)}},
	}
}

func TestFindActiveWindowPicksContainingQuarter(t *testing.T) {
	active := FindActiveWindow(quarterlyCollections(), day(2024, 7, 15))
	require.NotNil(t, active)
	assert.Equal(t, "q3", active.ID)
}

func TestFindActiveWindowBoundsInclusive(t *testing.T) {
	collections := quarterlyCollections()

	start := FindActiveWindow(collections, day(2024, 7, 1))
	require.NotNil(t, start)
	assert.Equal(t, "q3", start.ID)

	end := FindActiveWindow(collections, day(2024, 9, 30))
	require.NotNil(t, end)
	assert.Equal(t, "q3", end.ID)
}

func TestFindActiveWindowNoMatch(t *testing.T) {
	collections := [][]Cycle{
		{{ID: "q1", StartDate: day(2024, 1, 1), EndDate: day(2024, 3, 31)}},
	}
	assert.Nil(t, FindActiveWindow(collections, day(2024, 5, 1)))
	assert.Nil(t, FindActiveWindow(nil, day(2024, 5, 1)))
}

func TestFindActiveWindowRespectsCollectionOrder(t *testing.T) {
	// Overlapping windows: the earlier collection wins.
	collections := [][]Cycle{
		{{ID: "first", StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31)}},
		{{ID: "second", StartDate: day(2024, 6, 1), EndDate: day(2024, 6, 30)}},
	}
	active := FindActiveWindow(collections, day(2024, 6, 15))
	require.NotNil(t, active)
	assert.Equal(t, "first", active.ID)
}

func TestFindActiveWindowIgnoresTimeOfDay(t *testing.T) {
	collections := [][]Cycle{
		{{ID: "q3", StartDate: day(2024, 7, 1), EndDate: day(2024, 9, 30)}},
	}
	active := FindActiveWindow(collections, time.Date(2024, 9, 30, 23, 45, 0, 0, time.UTC))
	require.NotNil(t, active)
}

func TestFilterByDepartment(t *testing.T) {
	cycles := []Cycle{
		{ID: "a", OwnerEmployeeID: "e1"},
		{ID: "b", OwnerEmployeeID: "e2"},
		{ID: "c", OwnerEmployeeID: "e3"},
	}
	deptByOwner := map[string]string{
		"e1": "eng",
		"e2": "sales",
		// e3 missing: departed employee, skipped silently
	}

	filtered := FilterByDepartment(cycles, deptByOwner, "eng")
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)
}

func TestFilterByDepartmentEmptyInput(t *testing.T) {
	assert.Empty(t, FilterByDepartment(nil, map[string]string{"e1": "eng"}, "eng"))
	assert.Empty(t, FilterByDepartment([]Cycle{{OwnerEmployeeID: "e1"}}, nil, "eng"))
}
