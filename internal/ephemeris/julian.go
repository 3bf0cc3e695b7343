// Package ephemeris handles time scales, reference frames and the
// conversion between orbital elements and state vectors.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type TimeScale string

const (
	UTC TimeScale = "UTC"
	TAI TimeScale = "TAI"
	TT  TimeScale = "TT"
	TDB TimeScale = "TDB"
)

const (
	J2000JD        = 2451545.0
	MJDOffset      = 2400000.5
	DaysPerCentury = 36525.0
	SecondsPerDay  = 86400.0
)

var ErrTimeScaleMismatch = errors.New("ephemeris: time scales differ")

// JulianDate is a Julian day number tagged with the scale it is expressed in.
type JulianDate struct {
	JD    float64   `json:"jd" yaml:"jd"`
	Scale TimeScale `json:"scale" yaml:"scale"`
}

// J2000 is 2000-01-01 12:00 TT.
var J2000 = JulianDate{JD: J2000JD, Scale: TT}

func NewJulianDate(jd float64, scale TimeScale) JulianDate {
	return JulianDate{JD: jd, Scale: scale}
}

// FromCalendar converts a calendar date (Meeus, ch. 7). Dates on or after
// 1582-10-15 are Gregorian, earlier ones Julian.
func FromCalendar(year, month, day, hour, minute int, second float64, scale TimeScale) JulianDate {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}

	b := 0.0
	if year > 1582 || (year == 1582 && (month > 10 || (month == 10 && day >= 15))) {
		a := math.Floor(float64(y) / 100)
		b = 2 - a + math.Floor(a/4)
	}

	frac := (float64(hour) + float64(minute)/60 + second/3600) / 24
	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + float64(day) + b - 1524.5 + frac
	return JulianDate{JD: jd, Scale: scale}
}

// FromTime converts a time.Time, taken as UTC.
func FromTime(t time.Time) JulianDate {
	t = t.UTC()
	sec := float64(t.Second()) + float64(t.Nanosecond())/1e9
	return FromCalendar(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), sec, UTC)
}

// Calendar is the inverse of FromCalendar.
func (j JulianDate) Calendar() (year, month, day, hour, minute int, second float64) {
	z := math.Floor(j.JD + 0.5)
	f := j.JD + 0.5 - z

	a := z
	if z >= 2299161 {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	day = int(b - d - math.Floor(30.6001*e))
	if e < 14 {
		month = int(e - 1)
	} else {
		month = int(e - 13)
	}
	if month > 2 {
		year = int(c - 4716)
	} else {
		year = int(c - 4715)
	}

	secs := f * SecondsPerDay
	hour = int(secs / 3600)
	secs -= float64(hour) * 3600
	minute = int(secs / 60)
	second = secs - float64(minute)*60
	return
}

// Time returns the date as a time.Time in UTC, ignoring the scale tag.
func (j JulianDate) Time() time.Time {
	y, mo, d, h, mi, s := j.Calendar()
	whole := math.Floor(s)
	ns := int(math.Round((s - whole) * 1e9))
	return time.Date(y, time.Month(mo), d, h, mi, int(whole), ns, time.UTC)
}

func (j JulianDate) AddDays(days float64) JulianDate {
	return JulianDate{JD: j.JD + days, Scale: j.Scale}
}

// Sub returns j − other in days.
func (j JulianDate) Sub(other JulianDate) (float64, error) {
	if j.Scale != other.Scale {
		return 0, fmt.Errorf("%w: %s - %s", ErrTimeScaleMismatch, j.Scale, other.Scale)
	}
	return j.JD - other.JD, nil
}

func (j JulianDate) MJD() float64 { return j.JD - MJDOffset }

func (j JulianDate) CenturiesSinceJ2000() float64 {
	return (j.JD - J2000JD) / DaysPerCentury
}

func (j JulianDate) Before(other JulianDate) bool { return j.JD < other.JD }

func (j JulianDate) String() string {
	return fmt.Sprintf("JD %.6f %s", j.JD, j.Scale)
}
