package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2024, 5, 20, h, m, 0, 0, time.UTC)
}

var forDate = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

func TestPairSessionsComplete(t *testing.T) {
	events := []Event{
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 0)},
		{EmployeeID: "e1", Action: ActionTimeOut, OccurredAt: at(17, 0)},
	}
	sessions := PairSessions(events, forDate, at(18, 0))
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, StatusComplete, s.Status)
	assert.Equal(t, 9*time.Hour, s.Duration)
	assert.Equal(t, at(8, 0), *s.TimeIn)
	assert.Equal(t, at(17, 0), *s.TimeOut)
}

func TestPairSessionsLastTimeInWins(t *testing.T) {
	events := []Event{
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 0)},
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 5)},
		{EmployeeID: "e1", Action: ActionTimeOut, OccurredAt: at(17, 0)},
	}
	sessions := PairSessions(events, forDate, at(18, 0))
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, at(8, 5), *s.TimeIn)
	assert.Equal(t, 8*time.Hour+55*time.Minute, s.Duration)
}

func TestPairSessionsInProgress(t *testing.T) {
	events := []Event{{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(9, 0)}}
	sessions := PairSessions(events, forDate, at(11, 30))
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Nil(t, s.TimeOut)
	assert.Equal(t, 2*time.Hour+30*time.Minute, s.Duration)
}

func TestPairSessionsMissingOutClampsToEndOfDay(t *testing.T) {
	events := []Event{{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(9, 0)}}
	asOf := time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC)
	sessions := PairSessions(events, forDate, asOf)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, StatusMissingOut, s.Status)
	assert.Nil(t, s.TimeOut)
	// clamped at 23:59:59.999...
	assert.InDelta(t, 15.0, s.Hours, 0.001)
}

func TestPairSessionsNoTimeInEmitsNothing(t *testing.T) {
	events := []Event{{EmployeeID: "e1", Action: ActionTimeOut, OccurredAt: at(17, 0)}}
	assert.Empty(t, PairSessions(events, forDate, at(18, 0)))
}

func TestPairSessionsIgnoresOtherDays(t *testing.T) {
	events := []Event{
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 0)},
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: time.Date(2024, 5, 21, 8, 0, 0, 0, time.UTC)},
	}
	sessions := PairSessions(events, forDate, at(9, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, at(8, 0), *sessions[0].TimeIn)
}

func TestPairSessionsMultipleEmployeesSorted(t *testing.T) {
	events := []Event{
		{EmployeeID: "e2", Action: ActionTimeIn, OccurredAt: at(9, 0)},
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 0)},
		{EmployeeID: "e1", Action: ActionTimeOut, OccurredAt: at(16, 0)},
	}
	sessions := PairSessions(events, forDate, at(10, 0))
	require.Len(t, sessions, 2)
	assert.Equal(t, "e1", sessions[0].EmployeeID)
	assert.Equal(t, "e2", sessions[1].EmployeeID)
}

func TestPairSessionsDeterministic(t *testing.T) {
	events := []Event{
		{EmployeeID: "e2", Action: ActionTimeIn, OccurredAt: at(9, 0)},
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 0)},
		{EmployeeID: "e1", Action: ActionTimeIn, OccurredAt: at(8, 10)},
		{EmployeeID: "e1", Action: ActionTimeOut, OccurredAt: at(16, 0)},
	}
	asOf := at(18, 0)
	first := PairSessions(events, forDate, asOf)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PairSessions(events, forDate, asOf))
	}
}
