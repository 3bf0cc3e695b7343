package ephemeris

import (
	"fmt"
	"math"
	"sort"
)

// TTMinusTAI is fixed by definition.
const TTMinusTAI = 32.184

type leapStep struct {
	jd     float64
	offset float64
}

var leapTable = buildLeapTable()

func buildLeapTable() []leapStep {
	dates := []struct{ y, m int }{
		{1972, 1}, {1972, 7}, {1973, 1}, {1974, 1}, {1975, 1}, {1976, 1}, {1977, 1},
		{1978, 1}, {1979, 1}, {1980, 1}, {1981, 7}, {1982, 7}, {1983, 7}, {1985, 7},
		{1988, 1}, {1990, 1}, {1991, 1}, {1992, 7}, {1993, 7}, {1994, 7}, {1996, 1},
		{1997, 7}, {1999, 1}, {2006, 1}, {2009, 1}, {2012, 7}, {2015, 7}, {2017, 1},
	}
	steps := make([]leapStep, len(dates))
	for i, d := range dates {
		steps[i] = leapStep{
			jd:     FromCalendar(d.y, d.m, 1, 0, 0, 0, UTC).JD,
			offset: float64(10 + i),
		}
	}
	return steps
}

// LeapSeconds returns TAI − UTC in seconds for a UTC Julian date. Dates
// before 1972 use the 1972 value.
func LeapSeconds(jdUTC float64) float64 {
	i := sort.Search(len(leapTable), func(i int) bool { return leapTable[i].jd > jdUTC })
	if i == 0 {
		return leapTable[0].offset
	}
	return leapTable[i-1].offset
}

// TDBMinusTT is the dominant periodic term in seconds.
func TDBMinusTT(jdTT float64) float64 {
	g := (357.53 + 0.98560028*(jdTT-J2000JD)) * math.Pi / 180
	return 0.001657*math.Sin(g) + 0.000014*math.Sin(2*g)
}

// ConvertScale re-expresses a date in another time scale. TT is the hub.
func ConvertScale(jd JulianDate, to TimeScale) (JulianDate, error) {
	if jd.Scale == to {
		return jd, nil
	}
	tt, err := toTT(jd)
	if err != nil {
		return JulianDate{}, err
	}
	return fromTT(tt, to)
}

func toTT(jd JulianDate) (float64, error) {
	switch jd.Scale {
	case TT:
		return jd.JD, nil
	case TAI:
		return jd.JD + TTMinusTAI/SecondsPerDay, nil
	case UTC:
		return jd.JD + (LeapSeconds(jd.JD)+TTMinusTAI)/SecondsPerDay, nil
	case TDB:
		// One fixed-point pass is enough: the correction is below 2 ms.
		tt := jd.JD - TDBMinusTT(jd.JD)/SecondsPerDay
		return jd.JD - TDBMinusTT(tt)/SecondsPerDay, nil
	}
	return 0, fmt.Errorf("ephemeris: unknown time scale %q", jd.Scale)
}

func fromTT(tt float64, to TimeScale) (JulianDate, error) {
	switch to {
	case TT:
		return JulianDate{JD: tt, Scale: TT}, nil
	case TAI:
		return JulianDate{JD: tt - TTMinusTAI/SecondsPerDay, Scale: TAI}, nil
	case UTC:
		tai := tt - TTMinusTAI/SecondsPerDay
		utc := tai - LeapSeconds(tai)/SecondsPerDay
		utc = tai - LeapSeconds(utc)/SecondsPerDay
		return JulianDate{JD: utc, Scale: UTC}, nil
	case TDB:
		return JulianDate{JD: tt + TDBMinusTT(tt)/SecondsPerDay, Scale: TDB}, nil
	}
	return JulianDate{}, fmt.Errorf("ephemeris: unknown time scale %q", to)
}
