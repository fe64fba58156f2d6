package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayForDay(t *testing.T) {
	name, ok := WeekdayForDay(1)
	require.True(t, ok)
	assert.Equal(t, "Monday", name)

	name, ok = WeekdayForDay(6)
	require.True(t, ok)
	assert.Equal(t, "Saturday", name)

	_, ok = WeekdayForDay(0)
	assert.False(t, ok)
	_, ok = WeekdayForDay(7)
	assert.False(t, ok)
}

func TestWeeklySchedulePushPreservesOrder(t *testing.T) {
	ws := NewWeeklySchedule()
	ws.Push("Monday", PeriodEntry{Period: 3, Subject: "s1"})
	ws.Push("Monday", PeriodEntry{Period: 1, Subject: "s2"})

	require.Len(t, ws["Monday"], 2)
	assert.Equal(t, 3, ws["Monday"][0].Period)
	assert.Equal(t, 1, ws["Monday"][1].Period)
	assert.Empty(t, ws["Tuesday"])
}

func TestWeeklyScheduleScanValueRoundTrip(t *testing.T) {
	ws := NewWeeklySchedule()
	ws.Push("Friday", PeriodEntry{Period: 2, Teacher: "T100", Room: "R1"})

	value, err := ws.Value()
	require.NoError(t, err)

	var decoded WeeklySchedule
	require.NoError(t, decoded.Scan(value))
	require.Len(t, decoded["Friday"], 1)
	assert.Equal(t, "T100", decoded["Friday"][0].Teacher)
	assert.Equal(t, "R1", decoded["Friday"][0].Room)
}

func TestWeeklyScheduleScanNil(t *testing.T) {
	var ws WeeklySchedule
	require.NoError(t, ws.Scan(nil))
	for _, day := range Weekdays {
		entries, ok := ws[day]
		assert.True(t, ok)
		assert.Empty(t, entries)
	}
}
