package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Date
		wantErr  bool
	}{
		{"date only", `"2024-01-10"`, NewDate(2024, time.January, 10), false},
		{"rfc3339", `"2024-01-10T00:00:00Z"`, NewDate(2024, time.January, 10), false},
		{"rfc3339 with offset keeps the calendar day", `"2024-01-10T23:30:00+02:00"`, NewDate(2024, time.January, 10), false},
		{"garbage", `"yesterday"`, Date{}, true},
		{"number", `20240110`, Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(d.Time), "got %s", d)
		})
	}
}

func TestDate_NullPointer(t *testing.T) {
	var listing struct {
		DatePosted *Date `json:"date_posted"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date_posted": null}`), &listing))
	assert.Nil(t, listing.DatePosted)

	require.NoError(t, json.Unmarshal([]byte(`{"date_posted": "2024-03-01"}`), &listing))
	require.NotNil(t, listing.DatePosted)
	assert.Equal(t, "2024-03-01", listing.DatePosted.String())
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(data))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"time", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{"date string", "2024-01-10", false},
		{"timestamp string", "2024-01-10 00:00:00+00:00", false},
		{"bytes", []byte("2024-01-10"), false},
		{"garbage", "n/a", true},
		{"integer", int64(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2024-01-10", d.String())
		})
	}

	value, err := NewDate(2024, time.January, 10).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", value)
}
