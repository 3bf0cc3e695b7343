// Package units converts between the energy, angle, distance and time units
// used across the engine.
package units

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

type Kind string

const (
	Energy   Kind = "energy"
	Angle    Kind = "angle"
	Distance Kind = "distance"
	Time     Kind = "time"
)

const (
	JoulesPerKilotonTNT = 4.184e12
	JoulesPerMegatonTNT = 4.184e15
	AU                  = 1.495978707e11 // m
	LunarDistance       = 3.844e8        // m
	EarthRadius         = 6.371e6        // m
	Day                 = 86400.0        // s
	JulianYear          = 365.25 * Day
)

var ErrIncompatibleUnits = errors.New("units: incompatible unit kinds")

// UnknownUnitError reports a unit key missing from every table.
type UnknownUnitError struct {
	Key string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("Unknown unit: %s", e.Key)
}

type unit struct {
	kind   Kind
	factor float64 // to the base unit of its kind
}

var table = map[string]unit{
	"J":     {Energy, 1},
	"kJ":    {Energy, 1e3},
	"MJ":    {Energy, 1e6},
	"GJ":    {Energy, 1e9},
	"erg":   {Energy, 1e-7},
	"cal":   {Energy, 4.184},
	"kcal":  {Energy, 4184},
	"kWh":   {Energy, 3.6e6},
	"t_TNT": {Energy, 4.184e9},
	"kt":    {Energy, JoulesPerKilotonTNT},
	"Mt":    {Energy, JoulesPerMegatonTNT},

	"rad":    {Angle, 1},
	"deg":    {Angle, math.Pi / 180},
	"arcmin": {Angle, math.Pi / (180 * 60)},
	"arcsec": {Angle, math.Pi / (180 * 3600)},
	"rev":    {Angle, 2 * math.Pi},

	"m":       {Distance, 1},
	"km":      {Distance, 1e3},
	"AU":      {Distance, AU},
	"LD":      {Distance, LunarDistance},
	"R_earth": {Distance, EarthRadius},
	"ly":      {Distance, 9.4607304725808e15},
	"pc":      {Distance, 3.0856775814913673e16},

	"s":       {Time, 1},
	"min":     {Time, 60},
	"h":       {Time, 3600},
	"day":     {Time, Day},
	"yr":      {Time, JulianYear},
	"century": {Time, 100 * JulianYear},
}

func lookup(key string) (unit, error) {
	u, ok := table[key]
	if !ok {
		return unit{}, &UnknownUnitError{Key: key}
	}
	return u, nil
}

// KindOf returns the kind a unit key belongs to.
func KindOf(key string) (Kind, error) {
	u, err := lookup(key)
	if err != nil {
		return "", err
	}
	return u.kind, nil
}

func factor(from, to string) (float64, error) {
	f, err := lookup(from)
	if err != nil {
		return 0, err
	}
	t, err := lookup(to)
	if err != nil {
		return 0, err
	}
	if f.kind != t.kind {
		return 0, fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatibleUnits, from, f.kind, to, t.kind)
	}
	return f.factor / t.factor, nil
}

func Convert(v float64, from, to string) (float64, error) {
	k, err := factor(from, to)
	if err != nil {
		return 0, err
	}
	return v * k, nil
}

// ConvertValue scales both the nominal value and its uncertainty.
func ConvertValue(v uncertainty.Value, to string) (uncertainty.Value, error) {
	k, err := factor(v.Unit, to)
	if err != nil {
		return uncertainty.Value{}, err
	}
	out := uncertainty.Scale(v, k).WithUnit(to)
	out.Source = v.Source
	out.Description = v.Description
	return out, nil
}

// Units lists the keys of one kind in sorted order.
func Units(kind Kind) []string {
	var keys []string
	for k, u := range table {
		if u.kind == kind {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func JoulesToMegatons(j float64) float64  { return j / JoulesPerMegatonTNT }
func MegatonsToJoules(mt float64) float64 { return mt * JoulesPerMegatonTNT }
func JoulesToKilotons(j float64) float64  { return j / JoulesPerKilotonTNT }
func Deg2Rad(d float64) float64           { return d * math.Pi / 180 }
func Rad2Deg(r float64) float64           { return r * 180 / math.Pi }
func AUToKm(au float64) float64           { return au * AU / 1e3 }
func KmToAU(km float64) float64           { return km * 1e3 / AU }
