package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   TimeString
		wantErr bool
	}{
		{name: "valid morning", value: "09:00"},
		{name: "valid midnight", value: "00:00"},
		{name: "valid end of day", value: "23:59"},
		{name: "missing leading zero", value: "9:00", wantErr: true},
		{name: "hour out of range", value: "24:00", wantErr: true},
		{name: "minute out of range", value: "10:60", wantErr: true},
		{name: "garbage", value: "ab:cd", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_EndOfDay(t *testing.T) {
	assert.ErrorIs(t, EndOfDay.Validate(), ErrInvalidTimeString)
	assert.NoError(t, EndOfDay.ValidateEnd())
	assert.NoError(t, TimeString("18:00").ValidateEnd())
	assert.ErrorIs(t, TimeString("24:01").ValidateEnd(), ErrInvalidTimeString)

	minutes, err := EndOfDay.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 24*60, minutes)

	hour, minute, err := EndOfDay.Clock()
	require.NoError(t, err)
	assert.Equal(t, 24, hour)
	assert.Equal(t, 0, minute)

	assert.True(t, TimeString("23:59").IsBefore(EndOfDay))
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := TimeString("09:30")

	minutes, err := start.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	next, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), next)

	assert.True(t, start.IsBefore(next))
	assert.True(t, next.IsAfter(start))
	assert.False(t, start.IsBefore(start))

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_UnmarshalJSON(t *testing.T) {
	var v struct {
		Start TimeString `json:"start"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:15"}`), &v))
	assert.Equal(t, TimeString("08:15"), v.Start)

	require.NoError(t, json.Unmarshal([]byte(`{"start":"24:00"}`), &v))
	assert.Equal(t, EndOfDay, v.Start)

	err := json.Unmarshal([]byte(`{"start":"8:15"}`), &v)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
