package units

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/neoshield/internal/uncertainty"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{1, "Mt", "J", 4.184e15},
		{1000, "kt", "Mt", 1},
		{1, "kWh", "kJ", 3600},
		{180, "deg", "rad", math.Pi},
		{1, "rev", "deg", 360},
		{3600, "arcsec", "deg", 1},
		{1, "AU", "km", 1.495978707e8},
		{1, "LD", "km", 384400},
		{1, "day", "h", 24},
		{1, "century", "yr", 100},
		{2.5, "km", "km", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := Convert(tt.v, tt.from, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9*math.Abs(tt.want) {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert(1, "furlong", "m")
	var unknown *UnknownUnitError
	if !errors.As(err, &unknown) || unknown.Key != "furlong" {
		t.Fatalf("expected UnknownUnitError for furlong, got %v", err)
	}
	if err.Error() != "Unknown unit: furlong" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if _, err := Convert(1, "J", "m"); !errors.Is(err, ErrIncompatibleUnits) {
		t.Errorf("expected ErrIncompatibleUnits, got %v", err)
	}
}

func TestConvertValue(t *testing.T) {
	v := uncertainty.New(2, 0.1, "km").WithSource("radar")
	got, err := ConvertValue(v, "m")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 2000 || math.Abs(got.Uncertainty-100) > 1e-9 || got.Unit != "m" || got.Source != "radar" {
		t.Errorf("unexpected conversion %+v", got)
	}
}

func TestHelpers(t *testing.T) {
	if got := JoulesToMegatons(MegatonsToJoules(3)); math.Abs(got-3) > 1e-12 {
		t.Errorf("megaton round trip: %g", got)
	}
	if got := Rad2Deg(Deg2Rad(123.4)); math.Abs(got-123.4) > 1e-12 {
		t.Errorf("degree round trip: %g", got)
	}
	if got := KmToAU(AUToKm(0.05)); math.Abs(got-0.05) > 1e-15 {
		t.Errorf("AU round trip: %g", got)
	}
}

func TestUnitsByKind(t *testing.T) {
	want := []string{"arcmin", "arcsec", "deg", "rad", "rev"}
	for run := 0; run < 5; run++ {
		got := Units(Angle)
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("run %d: expected %v, got %v", run, want, got)
			}
		}
	}
}
