package convert

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestWeightFromContainersScenario(t *testing.T) {
	// booking factor 22.5, user enters 4 containers
	w, res := WeightFromContainers(dec(t, "4"), dec(t, "22.5"))
	if res != Set {
		t.Fatalf("expected derivation, got %v", res)
	}
	if !w.Equal(dec(t, "90")) {
		t.Fatalf("expected weight 90, got %s", w)
	}
}

func TestContainersFromWeightScenario(t *testing.T) {
	// user overwrites weight to 100; expect 4.444444 at six places
	c, res := ContainersFromWeight(dec(t, "100"), dec(t, "22.5"))
	if res != Set {
		t.Fatalf("expected derivation, got %v", res)
	}
	if got := c.StringFixed(6); got != "4.444444" {
		t.Fatalf("expected 4.444444, got %s", got)
	}
}

func TestNoFloatArtifacts(t *testing.T) {
	// 0.3 containers at factor 33.333333 must not surface as 9.999999991
	w, _ := WeightFromContainers(dec(t, "0.3"), dec(t, "33.333333"))
	if got := w.String(); got != "10" {
		t.Fatalf("expected clean 10, got %s", got)
	}
}

func TestZeroFactorLeavesCounterpartUntouched(t *testing.T) {
	if _, res := WeightFromContainers(dec(t, "4"), decimal.Zero); res != Unchanged {
		t.Fatalf("zero factor must not derive weight")
	}
	if _, res := ContainersFromWeight(dec(t, "100"), decimal.Zero); res != Unchanged {
		t.Fatalf("zero factor must not derive containers")
	}
}

func TestDerivationRoundTrip(t *testing.T) {
	factors := []string{"22.5", "0.25", "7", "1013.77", "0.013"}
	counts := []string{"1", "4", "2.5", "17.25", "400", "0.1"}

	// The derived weight is stored to 4 places, so the re-derived count can
	// be off by at most half a weight ulp divided by the factor, plus its
	// own 6-place rounding.
	halfWeightUlp := dec(t, "0.00005")
	containerUlp := dec(t, "0.000001")

	for _, f := range factors {
		for _, c := range counts {
			factor := dec(t, f)
			containers := dec(t, c)
			tolerance := halfWeightUlp.DivRound(factor, 12).Add(containerUlp)

			w, res := WeightFromContainers(containers, factor)
			if res != Set {
				t.Fatalf("f=%s c=%s: expected weight derivation", f, c)
			}
			back, res := ContainersFromWeight(w, factor)
			if res != Set {
				t.Fatalf("f=%s c=%s: expected container derivation", f, c)
			}
			drift := back.Sub(containers).Abs()
			if drift.GreaterThan(tolerance) {
				t.Fatalf("f=%s c=%s: round trip drifted by %s (got %s)", f, c, drift, back)
			}
		}
	}
}

func TestRederiveFillsBlankSide(t *testing.T) {
	c := dec(t, "4")
	containers, weight, res := Rederive(&c, nil, dec(t, "22.5"))
	if res != Set {
		t.Fatalf("expected rederive to fill weight")
	}
	if weight == nil || !weight.Equal(dec(t, "90")) {
		t.Fatalf("expected weight 90, got %v", weight)
	}
	if containers == nil || !containers.Equal(c) {
		t.Fatalf("containers should be preserved")
	}

	w := dec(t, "45")
	containers, weight, res = Rederive(nil, &w, dec(t, "22.5"))
	if res != Set {
		t.Fatalf("expected rederive to fill containers")
	}
	if containers == nil || !containers.Equal(dec(t, "2")) {
		t.Fatalf("expected containers 2, got %v", containers)
	}
	if weight == nil {
		t.Fatalf("weight should be preserved")
	}
}

func TestRederiveBothOrNeitherPopulated(t *testing.T) {
	if _, _, res := Rederive(nil, nil, dec(t, "22.5")); res != Unchanged {
		t.Fatalf("nothing populated: no derivation expected")
	}
	c, w := dec(t, "4"), dec(t, "90")
	if _, _, res := Rederive(&c, &w, dec(t, "22.5")); res != Unchanged {
		t.Fatalf("both populated: no derivation expected")
	}
	if _, _, res := Rederive(&c, nil, decimal.Zero); res != Unchanged {
		t.Fatalf("zero factor: no derivation expected")
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 4.5 ")
	if err != nil || d == nil || !d.Equal(dec(t, "4.5")) {
		t.Fatalf("expected 4.5, got %v err %v", d, err)
	}
	d, err = ParseAmount("")
	if err != nil || d != nil {
		t.Fatalf("empty text should clear the field, got %v err %v", d, err)
	}
	if _, err = ParseAmount("lots"); err == nil {
		t.Fatalf("expected parse error for non-numeric text")
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(nil); got != "" {
		t.Fatalf("nil amount should render empty, got %q", got)
	}
	w, _ := WeightFromContainers(dec(t, "4"), dec(t, "22.5"))
	if got := FormatAmount(&w); got != "90" {
		t.Fatalf("expected trimmed 90, got %q", got)
	}
}
