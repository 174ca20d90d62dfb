package main

import (
	"errors"
	"math"
	"testing"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/descriptor"
	"github.com/kcl-tscm/gapmd/traj"
	v3 "github.com/kcl-tscm/gapmd/v3"
)

// lineDB returns a database with two copies of three atoms on a line,
// spaced 2 Å apart.
func lineDB(Te *testing.T) *traj.DB {
	Te.Helper()
	atoms := []*gapmd.Atom{gapmd.NewAtom("Si"), gapmd.NewAtom("Si"), gapmd.NewAtom("Si")}
	coords, err := v3.NewMatrix([]float64{
		0, 0, 0,
		2, 0, 0,
		4, 0, 0,
	})
	if err != nil {
		Te.Fatal(err)
	}
	cell, err := gapmd.NewCell(100, 100, 100, [3]bool{false, false, false})
	if err != nil {
		Te.Fatal(err)
	}
	c, err := gapmd.NewConf(atoms, coords, cell)
	if err != nil {
		Te.Fatal(err)
	}
	db := traj.NewDB()
	db.Append(c, nil)
	db.Append(c, nil)
	return db
}

func TestCoverage(Te *testing.T) {
	db := lineDB(Te)
	spec, err := descriptor.NewDistance2B(3.0)
	if err != nil {
		Te.Fatal(err)
	}
	set, err := coverage(db, spec, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if set.Components() != 1 {
		Te.Fatalf("distance histograms should have one component, got %d", set.Components())
	}
	//two frames, two pairs at r=2 each, weighted by the cutoff
	want := 4 * descriptor.CutoffWeight(2.0, 3.0)
	if got := set.Component(0).Total(); math.Abs(got-want) > 1e-12 {
		Te.Errorf("total weight %f, want %f", got, want)
	}
	//every value landed inside the bin range
	if math.Abs(set.Component(0).Sum()-set.Component(0).Total()) > 1e-12 {
		Te.Error("values fell outside the histogram range")
	}
}

func TestCoverageComponents(Te *testing.T) {
	db := lineDB(Te)
	spec, err := descriptor.NewAngle3B(5.0)
	if err != nil {
		Te.Fatal(err)
	}
	set, err := coverage(db, spec, 8)
	if err != nil {
		Te.Fatal(err)
	}
	if set.Components() != spec.Dim() {
		Te.Errorf("one histogram per component: got %d, want %d", set.Components(), spec.Dim())
	}
}

func TestCoverageBadInput(Te *testing.T) {
	spec, err := descriptor.NewDistance2B(3.0)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := coverage(traj.NewDB(), spec, 10); !errors.Is(err, gapmd.ErrInsufficientData) {
		Te.Errorf("an empty database should be insufficient data, got %v", err)
	}
	if _, err := coverage(lineDB(Te), spec, 0); err == nil {
		Te.Error("zero bins should be rejected")
	}
}
