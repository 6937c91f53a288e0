// Licensed under the MIT license which can be found in the LICENSE file.
package dpt

import (
	"fmt"
	"time"
)

// Date is the DPT 11.001 date encoding: day, month, and a 2-digit year
// offset interpreted per the KNX rule (offsets 0-89 map to 2000-2089,
// 90-99 map to 1990-1999).
type Date struct {
	Day   uint8
	Month uint8
	Year  int
}

// Size returns the packed size.
func (Date) Size() uint { return 3 }

// Pack assembles the structure in the given buffer.
func (d Date) Pack(buffer []byte) {
	buffer[0] = d.Day
	buffer[1] = d.Month
	buffer[2] = yearToOffset(d.Year)
}

// Unpack parses the given data.
func (d *Date) Unpack(data []byte) (n uint, err error) {
	if len(data) < 3 {
		return 0, ErrBufferSize
	}

	day, month, offset := data[0], data[1], data[2]
	year := offsetToYear(offset)

	if _, err := validCalendarDate(year, int(month), int(day)); err != nil {
		return 0, err
	}

	d.Day, d.Month, d.Year = day, month, year

	return 3, nil
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

// NewDate validates day/month/year (KNX 2-digit year range 1990-2089) and
// calendar validity before constructing a Date.
func NewDate(year int, month, day uint8) (Date, error) {
	if year < 1990 || year > 2089 {
		return Date{}, fmt.Errorf("%w: year %d outside 1990-2089", ErrValueRange, year)
	}

	if _, err := validCalendarDate(year, int(month), int(day)); err != nil {
		return Date{}, err
	}

	return Date{Day: day, Month: month, Year: year}, nil
}

func yearToOffset(year int) uint8 {
	if year >= 2000 {
		return uint8(year - 2000)
	}

	return uint8(year - 1900)
}

func offsetToYear(offset uint8) int {
	if offset < 90 {
		return 2000 + int(offset)
	}

	return 1990 + int(offset) - 90
}

func validCalendarDate(year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d is not a valid calendar date", ErrValueRange, year, month, day)
	}

	return t, nil
}

// Weekday identifies the DPT 10.001/19.001 day-of-week field: 0 means "no
// day", 1-7 are Monday through Sunday.
type Weekday uint8

// Weekday values.
const (
	WeekdayNone Weekday = iota
	WeekdayMonday
	WeekdayTuesday
	WeekdayWednesday
	WeekdayThursday
	WeekdayFriday
	WeekdaySaturday
	WeekdaySunday
)

// Time is the DPT 10.001 time-of-day encoding.
type Time struct {
	Day    Weekday
	Hour   uint8
	Minute uint8
	Second uint8
}

// Size returns the packed size.
func (Time) Size() uint { return 3 }

// Pack assembles the structure in the given buffer.
func (t Time) Pack(buffer []byte) {
	buffer[0] = uint8(t.Day)<<5 | t.Hour&0x1F
	buffer[1] = t.Minute
	buffer[2] = t.Second
}

// Unpack parses the given data.
func (t *Time) Unpack(data []byte) (n uint, err error) {
	if len(data) < 3 {
		return 0, ErrBufferSize
	}

	day := Weekday(data[0] >> 5)
	hour := data[0] & 0x1F
	minute := data[1]
	second := data[2]

	switch {
	case hour == 24:
		// 24:00:00 with every other field zero is the KNX
		// midnight-rollover synonym.
		if day != WeekdayNone || minute != 0 || second != 0 {
			return 0, fmt.Errorf("%w: 24:00:00 must have day=0, minute=0, second=0", ErrValueRange)
		}
	case hour > 23 || minute > 59 || second > 59:
		return 0, fmt.Errorf("%w: time field out of range", ErrValueRange)
	}

	t.Day, t.Hour, t.Minute, t.Second = day, hour, minute, second

	return 3, nil
}

func (t Time) String() string { return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second) }

// DateTimeFlags are the validity/status bits of a DPT 19.001 date-time.
// Each flag is independent: a date-time can mark its day-of-week invalid
// while still carrying a valid date, for instance.
type DateTimeFlags struct {
	Fault           bool
	WorkingDay      bool
	WorkingDayValid bool
	YearValid       bool
	DateValid       bool
	DayValid        bool
	TimeValid       bool
	DST             bool
}

// DateTime is the DPT 19.001 combined date-time encoding (8 bytes).
type DateTime struct {
	Year   int
	Month  uint8
	Day    uint8
	DOW    Weekday
	Hour   uint8
	Minute uint8
	Second uint8

	Flags        DateTimeFlags
	Synchronized bool // clock-quality bit: externally synchronized source
}

// Size returns the packed size.
func (DateTime) Size() uint { return 8 }

// Pack assembles the structure in the given buffer.
func (d DateTime) Pack(buffer []byte) {
	buffer[0] = uint8(d.Year - 1900)
	buffer[1] = d.Month
	buffer[2] = d.Day
	buffer[3] = uint8(d.DOW)<<5 | d.Hour&0x1F
	buffer[4] = d.Minute
	buffer[5] = d.Second
	buffer[6] = d.Flags.pack()

	var quality byte
	if d.Synchronized {
		quality = 0x01
	}

	buffer[7] = quality
}

func (f DateTimeFlags) pack() byte {
	var b byte

	if f.Fault {
		b |= 0x80
	}

	if f.WorkingDay {
		b |= 0x40
	}

	if f.WorkingDayValid {
		b |= 0x20
	}

	if f.YearValid {
		b |= 0x10
	}

	if f.DateValid {
		b |= 0x08
	}

	if f.DayValid {
		b |= 0x04
	}

	if f.TimeValid {
		b |= 0x02
	}

	if f.DST {
		b |= 0x01
	}

	return b
}

func unpackDateTimeFlags(b byte) DateTimeFlags {
	return DateTimeFlags{
		Fault:           b&0x80 != 0,
		WorkingDay:      b&0x40 != 0,
		WorkingDayValid: b&0x20 != 0,
		YearValid:       b&0x10 != 0,
		DateValid:       b&0x08 != 0,
		DayValid:        b&0x04 != 0,
		TimeValid:       b&0x02 != 0,
		DST:             b&0x01 != 0,
	}
}

// Unpack parses the given data.
func (d *DateTime) Unpack(data []byte) (n uint, err error) {
	if len(data) < 8 {
		return 0, ErrBufferSize
	}

	d.Year = 1900 + int(data[0])
	d.Month = data[1]
	d.Day = data[2]
	d.DOW = Weekday(data[3] >> 5)
	d.Hour = data[3] & 0x1F
	d.Minute = data[4]
	d.Second = data[5]
	d.Flags = unpackDateTimeFlags(data[6])
	d.Synchronized = data[7]&0x01 != 0

	return 8, nil
}

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// Validate checks cross-field consistency: when both the date and the
// day-of-week are marked valid, they must agree. This is checked explicitly
// rather than on set, since DateTime's fields can be assigned independently.
func (d DateTime) Validate() error {
	if !d.Flags.DateValid || !d.Flags.DayValid {
		return nil
	}

	t := time.Date(d.Year, time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)

	want := goWeekdayToKNX(t.Weekday())
	if want != d.DOW {
		return fmt.Errorf("%w: day-of-week %d does not match date %s (expected %d)", ErrValueRange, d.DOW, d.String(), want)
	}

	return nil
}

func goWeekdayToKNX(w time.Weekday) Weekday {
	if w == time.Sunday {
		return WeekdaySunday
	}

	return Weekday(w)
}
