package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:30", want: "09:30"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid last minute", input: "23:59", want: "23:59"},
		{name: "missing leading zero", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:45")
	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, minutes)

	_, err = TimeString("bad").Minutes()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:00")

	next, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:45"), next)

	// Переход через час
	next, err = TimeString("10:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), next)

	// Граница суток представляется как 24:00
	next, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), next)

	// Выход за пределы суток
	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// Отрицательный сдвиг за полночь
	_, err = TimeString("00:10").AddMinutes(-20)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("10:00").IsBefore("10:01"))
	assert.False(t, TimeString("10:01").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))

	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("18:00"))

	// Граница 24:00 сравнима
	assert.True(t, TimeString("23:59").IsBefore("24:00"))

	// Некорректные значения несравнимы
	assert.False(t, TimeString("bad").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("bad"))
}

func TestTimeString_Sub(t *testing.T) {
	diff, err := TimeString("11:30").Sub("10:00")
	require.NoError(t, err)
	assert.Equal(t, 90, diff)

	diff, err = TimeString("10:00").Sub("11:30")
	require.NoError(t, err)
	assert.Equal(t, -90, diff)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres отдает TIME как "HH:MM:SS"
	require.NoError(t, ts.Scan("10:45:00"))
	assert.Equal(t, TimeString("10:45"), ts)

	require.NoError(t, ts.Scan([]byte("09:00:00")))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 20, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
