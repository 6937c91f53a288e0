package dpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knxcore/knx/knx/dpt"
)

func TestDateYearOffsetRule(t *testing.T) {
	tests := []struct {
		year   int
		offset byte
	}{
		{2000, 0},
		{2089, 89},
		{1990, 90},
		{1999, 99},
	}

	for _, tt := range tests {
		d, err := dpt.NewDate(tt.year, 1, 1)
		require.NoError(t, err)

		buf := make([]byte, d.Size())
		d.Pack(buf)
		assert.Equal(t, tt.offset, buf[2])

		var out dpt.Date
		_, err = out.Unpack(buf)
		require.NoError(t, err)
		assert.Equal(t, tt.year, out.Year)
	}
}

func TestDateRejectsInvalidCalendarDate(t *testing.T) {
	_, err := dpt.NewDate(2007, 2, 29)
	assert.ErrorIs(t, err, dpt.ErrValueRange)
}

func TestDateUnpackRejectsInvalidCalendarDate(t *testing.T) {
	var out dpt.Date
	// 2007 -> offset 7, month 2, day 29: not a leap year.
	_, err := out.Unpack([]byte{29, 2, 7})
	assert.ErrorIs(t, err, dpt.ErrValueRange)
}

func TestTimeMidnightRollover(t *testing.T) {
	in := dpt.Time{Day: dpt.WeekdayNone, Hour: 24, Minute: 0, Second: 0}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.Time
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTimeRejectsBadMidnightRollover(t *testing.T) {
	var out dpt.Time
	// hour=24 but minute nonzero is invalid.
	_, err := out.Unpack([]byte{24, 1, 0})
	assert.ErrorIs(t, err, dpt.ErrValueRange)
}

func TestTimeRoundTrip(t *testing.T) {
	in := dpt.Time{Day: dpt.WeekdayWednesday, Hour: 13, Minute: 45, Second: 30}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.Time
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := dpt.DateTime{
		Year: 2026, Month: 7, Day: 29,
		DOW: dpt.WeekdayWednesday, Hour: 10, Minute: 15, Second: 0,
		Flags:        dpt.DateTimeFlags{DateValid: true, DayValid: true, TimeValid: true},
		Synchronized: true,
	}

	buf := make([]byte, in.Size())
	in.Pack(buf)

	var out dpt.DateTime
	_, err := out.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.NoError(t, out.Validate())
}

func TestDateTimeValidateDetectsDOWMismatch(t *testing.T) {
	in := dpt.DateTime{
		Year: 2026, Month: 7, Day: 29, // a Wednesday
		DOW:   dpt.WeekdayMonday,
		Flags: dpt.DateTimeFlags{DateValid: true, DayValid: true},
	}

	assert.ErrorIs(t, in.Validate(), dpt.ErrValueRange)
}

func TestDateTimeValidateSkipsWhenFieldsInvalid(t *testing.T) {
	in := dpt.DateTime{DOW: dpt.WeekdayMonday, Flags: dpt.DateTimeFlags{DateValid: false}}
	assert.NoError(t, in.Validate())
}
