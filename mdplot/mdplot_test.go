package mdplot

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/kcl-tscm/gapmd/histo"
)

// The tests only check that the figures come out at all; what they
// look like is checked by eye.

func TestParity(Te *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ref := make([]float64, 50)
	pred := make([]float64, 50)
	for i := range ref {
		ref[i] = -4.6 + 0.2*rng.Float64()
		pred[i] = ref[i] + 0.01*rng.NormFloat64()
	}
	name := filepath.Join(Te.TempDir(), "parity")
	if err := Parity(ref, pred, "2b GAP vs DFTB", name); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name + ".png"); err != nil || fi.Size() == 0 {
		Te.Errorf("no usable figure at %s.png: %v", name, err)
	}
	if err := Parity(ref[:10], pred, "bad", name); err == nil {
		Te.Error("mismatched series should be rejected")
	}
}

func TestTraces(Te *testing.T) {
	temp := make([]float64, 100)
	for i := range temp {
		temp[i] = 1000 + 50*float64(i%7)
	}
	name := filepath.Join(Te.TempDir(), "temperature")
	s := []Series{{Label: "T (K)", Values: temp}}
	if err := Traces(s, 10, "Temperature (K)", "MD run", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("no figure at %s.png: %v", name, err)
	}
	if err := Traces(nil, 10, "y", "empty", name); err == nil {
		Te.Error("empty series list should be rejected")
	}
}

func TestHistogram(Te *testing.T) {
	D := histo.NewData(histo.Uniform(1.5, 4.0, 10))
	D.AddData(2.3, 2.35, 2.4, 2.38, 3.1, 3.8)
	name := filepath.Join(Te.TempDir(), "distances")
	if err := Histogram(D, "Pair distance (A)", "distance_2b coverage", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Errorf("no figure at %s.png: %v", name, err)
	}
}
