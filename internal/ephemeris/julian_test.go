package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

func TestJ2000(t *testing.T) {
	got := FromCalendar(2000, 1, 1, 12, 0, 0, TT)
	if got.JD != 2451545.0 {
		t.Errorf("expected 2451545.0, got %.9f", got.JD)
	}
	if got.CenturiesSinceJ2000() != 0 {
		t.Errorf("expected zero centuries, got %g", got.CenturiesSinceJ2000())
	}
}

func TestFromCalendar(t *testing.T) {
	tests := []struct {
		name            string
		y, mo, d, h, mi int
		s               float64
		want            float64
	}{
		{"sputnik", 1957, 10, 4, 19, 26, 24, 2436116.31},
		{"julian calendar", 333, 1, 27, 12, 0, 0, 1842713.0},
		{"gregorian switch", 1582, 10, 15, 0, 0, 0, 2299160.5},
		{"mjd epoch", 1858, 11, 17, 0, 0, 0, MJDOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromCalendar(tt.y, tt.mo, tt.d, tt.h, tt.mi, tt.s, UTC)
			if math.Abs(got.JD-tt.want) > 1e-6 {
				t.Errorf("expected %.6f, got %.6f", tt.want, got.JD)
			}
		})
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	ref := time.Date(2024, 3, 15, 6, 30, 15, 0, time.UTC)
	jd := FromTime(ref)

	back := jd.Time()
	if d := back.Sub(ref); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("round trip drifted by %v: %v", d, back)
	}
}

func TestJulianDateMatchesSatelliteLibrary(t *testing.T) {
	dates := []time.Time{
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2013, 2, 15, 3, 20, 0, 0, time.UTC),
		time.Date(2029, 4, 13, 21, 46, 0, 0, time.UTC),
		time.Date(2068, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		want := satellite.JDay(d.Year(), int(d.Month()), d.Day(), d.Hour(), d.Minute(), d.Second())
		got := FromTime(d).JD
		if math.Abs(got-want) > 1e-8 {
			t.Errorf("%v: expected %.9f, got %.9f", d, want, got)
		}

		gWant := satellite.ThetaG_JD(want)
		gGot := GMST(got)
		diff := math.Abs(math.Remainder(gGot-gWant, 2*math.Pi))
		if diff > 1e-6 {
			t.Errorf("%v: GMST %.9f vs %.9f", d, gGot, gWant)
		}
	}
}

func TestGMSTAtJ2000(t *testing.T) {
	want := 280.46061837 * math.Pi / 180
	if got := GMST(J2000JD); math.Abs(got-want) > 1e-8 {
		t.Errorf("expected %.9f, got %.9f", want, got)
	}
	if got := EarthRotationAngle(J2000JD); math.Abs(got-2*math.Pi*0.7790572732640) > 1e-12 {
		t.Errorf("unexpected ERA %.12f", got)
	}
}

func TestMeanObliquity(t *testing.T) {
	if got := MeanObliquity(J2000JD); math.Abs(got-J2000Obliquity) > 1e-7 {
		t.Errorf("expected %.9f, got %.9f", J2000Obliquity, got)
	}
	if MeanObliquity(J2000JD+DaysPerCentury) >= MeanObliquity(J2000JD) {
		t.Error("obliquity should decrease over this century")
	}
}

func TestTimeScales(t *testing.T) {
	utc := FromCalendar(2020, 6, 1, 0, 0, 0, UTC)

	tt, err := ConvertScale(utc, TT)
	if err != nil {
		t.Fatal(err)
	}
	if diff := (tt.JD - utc.JD) * SecondsPerDay; math.Abs(diff-69.184) > 1e-4 {
		t.Errorf("expected TT-UTC 69.184 s, got %.6f", diff)
	}

	back, err := ConvertScale(tt, UTC)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.JD-utc.JD)*SecondsPerDay > 2e-4 {
		t.Errorf("UTC round trip off by %g s", (back.JD-utc.JD)*SecondsPerDay)
	}

	tdb, err := ConvertScale(tt, TDB)
	if err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(tdb.JD-tt.JD) * SecondsPerDay; d > 0.002 {
		t.Errorf("TDB-TT too large: %g s", d)
	}
	tt2, err := ConvertScale(tdb, TT)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(tt2.JD-tt.JD)*SecondsPerDay > 2e-4 {
		t.Errorf("TDB round trip off by %g s", (tt2.JD-tt.JD)*SecondsPerDay)
	}

	if _, err := ConvertScale(JulianDate{JD: 1, Scale: "GPS"}, TT); err == nil {
		t.Error("expected error for unknown scale")
	}
}

func TestLeapSeconds(t *testing.T) {
	tests := []struct {
		y, m int
		want float64
	}{
		{1965, 1, 10},
		{1972, 3, 10},
		{1999, 6, 32},
		{2016, 12, 36},
		{2017, 1, 37},
		{2030, 1, 37},
	}
	for _, tt := range tests {
		jd := FromCalendar(tt.y, tt.m, 1, 12, 0, 0, UTC).JD
		if got := LeapSeconds(jd); got != tt.want {
			t.Errorf("%d-%02d: expected %g, got %g", tt.y, tt.m, tt.want, got)
		}
	}
}

func TestSubRequiresSameScale(t *testing.T) {
	a := NewJulianDate(2451546, TT)
	b := NewJulianDate(2451545, UTC)
	if _, err := a.Sub(b); !errors.Is(err, ErrTimeScaleMismatch) {
		t.Errorf("expected ErrTimeScaleMismatch, got %v", err)
	}
	d, err := a.Sub(NewJulianDate(2451545, TT))
	if err != nil || d != 1 {
		t.Errorf("expected 1 day, got %g (%v)", d, err)
	}
	if a.AddDays(-1).JD != 2451545 || a.MJD() != 2451546-MJDOffset {
		t.Error("unexpected date arithmetic")
	}
}
