package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "09:00"},
		{input: "00:00"},
		{input: "23:59"},
		{input: "24:00", wantErr: true},
		{input: "9:00"}, // time.Parse принимает часы без ведущего нуля
		{input: "09:60", wantErr: true},
		{input: "morning", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	ts, err = NewTimeStringFromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, "00:00", ts.String())

	ts, err = NewTimeStringFromMinutes(1439)
	require.NoError(t, err)
	assert.Equal(t, "23:59", ts.String())

	_, err = NewTimeStringFromMinutes(1440)
	assert.ErrorIs(t, err, ErrNegativeMinutes)

	_, err = NewTimeStringFromMinutes(-1)
	assert.ErrorIs(t, err, ErrNegativeMinutes)
}

func TestMinuteOfDay(t *testing.T) {
	minutes, err := TimeString("18:30").MinuteOfDay()
	require.NoError(t, err)
	assert.Equal(t, 1110, minutes)

	_, err = TimeString("bad").MinuteOfDay()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("09:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), ts)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrNegativeMinutes)
}

func TestComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("10:00").IsAfter("09:30"))
	assert.False(t, TimeString("bad").IsBefore("09:30"))
}

func TestOnDate(t *testing.T) {
	date := time.Date(2026, 1, 5, 17, 45, 12, 0, time.UTC)

	got, err := TimeString("09:30").OnDate(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC), got)

	_, err = TimeString("bad").OnDate(date)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestNewTimeString(t *testing.T) {
	got := NewTimeString(time.Date(2026, 1, 5, 9, 30, 45, 0, time.UTC))
	assert.Equal(t, TimeString("09:30"), got)
}
