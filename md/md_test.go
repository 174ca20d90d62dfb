/*
 * md_test.go, part of gapmd.
 *
 * Copyright 2026 The gapmd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package md

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	gapmd "github.com/kcl-tscm/gapmd"
)

func bulk(Te *testing.T) *gapmd.Conf {
	Te.Helper()
	c, err := gapmd.Diamond("Si", gapmd.SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func slab(Te *testing.T) *gapmd.Conf {
	Te.Helper()
	c, err := gapmd.Slab("Si", gapmd.SiLatticeConstant, 2, 2, 1, 10.0)
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestMaxwellBoltzmann(Te *testing.T) {
	c := bulk(Te)
	MaxwellBoltzmann(c, 1000, rand.New(rand.NewSource(3)))
	T := c.Temperature()
	if T < 700 || T > 1300 {
		Te.Errorf("drawn temperature %f K too far from 1000 K", T)
	}
	p := c.Momentum()
	for i, v := range p {
		if math.Abs(v) > 1e-10 {
			Te.Errorf("momentum component %d not removed: %g", i, v)
		}
	}
	//anchored atoms take no velocity
	s := slab(Te)
	MaxwellBoltzmann(s, 1000, rand.New(rand.NewSource(3)))
	for i := 0; i < s.Len(); i++ {
		if !s.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			if s.Vels.At(i, j) != 0 {
				Te.Fatalf("anchored atom %d was given a velocity", i)
			}
		}
	}
}

func TestVerletMomentum(Te *testing.T) {
	c := bulk(Te)
	MaxwellBoltzmann(c, 500, rand.New(rand.NewSource(5)))
	dyn, err := NewDyn(c, gapmd.NewStillingerWeber(), 1.0, VelocityVerlet{})
	if err != nil {
		Te.Fatal(err)
	}
	if err := dyn.Run(50); err != nil {
		Te.Fatal(err)
	}
	p := c.Momentum()
	for i, v := range p {
		if math.Abs(v) > 1e-8 {
			Te.Errorf("momentum component %d drifted to %g", i, v)
		}
	}
	if dyn.Step() != 50 {
		Te.Errorf("step count %d after 50 steps", dyn.Step())
	}
}

func TestVerletEnergyConservation(Te *testing.T) {
	c := bulk(Te)
	c.Rattle(0.02, rand.New(rand.NewSource(9)))
	sw := gapmd.NewStillingerWeber()
	start, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	e0 := start.Energy + c.KineticEnergy()
	var eEnd float64
	dyn, err := NewDyn(c, sw, 0.5, VelocityVerlet{})
	if err != nil {
		Te.Fatal(err)
	}
	err = dyn.Attach(1, func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		eEnd = r.Energy + c.KineticEnergy()
		return nil
	})
	if err != nil {
		Te.Fatal(err)
	}
	if err := dyn.Run(100); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(eEnd-e0) > 5e-3*float64(c.Len()) {
		Te.Errorf("total energy drifted from %f to %f eV", e0, eEnd)
	}
}

// A hot slab under Langevin dynamics should settle into a band around
// the target temperature, and the anchored atoms must not move.
func TestLangevinBand(Te *testing.T) {
	c := slab(Te)
	MaxwellBoltzmann(c, 2000, rand.New(rand.NewSource(13)))
	frozen := make([]float64, 0)
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			frozen = append(frozen, c.Coords.At(i, 0), c.Coords.At(i, 1), c.Coords.At(i, 2))
		}
	}
	integ, err := NewLangevin(1000, 0.02, rand.NewSource(17))
	if err != nil {
		Te.Fatal(err)
	}
	dyn, err := NewDyn(c, gapmd.NewStillingerWeber(), 1.0, integ)
	if err != nil {
		Te.Fatal(err)
	}
	if err := dyn.Run(100); err != nil {
		Te.Fatal(err)
	}
	T := c.Temperature()
	fmt.Println("slab temperature after 100 fs:", T, "K")
	if T < 400 || T > 2500 {
		Te.Errorf("temperature %f K escaped the thermostat band", T)
	}
	k := 0
	for i := 0; i < c.Len(); i++ {
		if !c.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			if c.Coords.At(i, j) != frozen[k] {
				Te.Fatalf("anchored atom %d moved", i)
			}
			k++
		}
	}
}

func TestLangevinBadArgs(Te *testing.T) {
	if _, err := NewLangevin(-1, 0.02, nil); err == nil {
		Te.Error("negative temperature should be rejected")
	}
	if _, err := NewLangevin(300, -0.1, nil); err == nil {
		Te.Error("negative friction should be rejected")
	}
}

func TestObservers(Te *testing.T) {
	c := bulk(Te)
	dyn, err := NewDyn(c, gapmd.NewStillingerWeber(), 1.0, VelocityVerlet{})
	if err != nil {
		Te.Fatal(err)
	}
	var order []string
	err = dyn.Attach(2, func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		order = append(order, fmt.Sprintf("a%d", step))
		return nil
	})
	if err != nil {
		Te.Fatal(err)
	}
	err = dyn.Attach(3, func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		order = append(order, fmt.Sprintf("b%d", step))
		return nil
	})
	if err != nil {
		Te.Fatal(err)
	}
	if err := dyn.Run(6); err != nil {
		Te.Fatal(err)
	}
	want := []string{"a2", "a4", "a6", "b3", "b6"}
	//firing order within one step follows registration order
	wantOrder := []string{"a2", "b3", "a4", "a6", "b6"}
	if len(order) != len(want) {
		Te.Fatalf("got %d observer calls, want %d: %v", len(order), len(want), order)
	}
	for i, w := range wantOrder {
		if order[i] != w {
			Te.Errorf("call %d: got %s, want %s", i, order[i], w)
			break
		}
	}
	if err := dyn.Attach(0, nil); err == nil {
		Te.Error("a non-positive interval should be rejected")
	}
}

func TestObserverAbort(Te *testing.T) {
	c := bulk(Te)
	dyn, err := NewDyn(c, gapmd.NewStillingerWeber(), 1.0, VelocityVerlet{})
	if err != nil {
		Te.Fatal(err)
	}
	bad := fmt.Errorf("enough")
	err = dyn.Attach(3, func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		return bad
	})
	if err != nil {
		Te.Fatal(err)
	}
	if err := dyn.Run(10); err == nil {
		Te.Fatal("an observer error should abort the run")
	}
	if dyn.Step() != 3 {
		Te.Errorf("run aborted at step %d, want 3", dyn.Step())
	}
}

func TestFIRE(Te *testing.T) {
	c := bulk(Te)
	c.Rattle(0.15, rand.New(rand.NewSource(21)))
	sw := gapmd.NewStillingerWeber()
	start, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	res, steps, err := FIRE(c, sw, &FIREOpts{FMax: 0.01})
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("FIRE converged in", steps, "steps")
	if res.Energy >= start.Energy {
		Te.Errorf("relaxation did not lower the energy: %f -> %f", start.Energy, res.Energy)
	}
	for i := 0; i < c.Len(); i++ {
		f := 0.0
		for j := 0; j < 3; j++ {
			f += res.Forces.At(i, j) * res.Forces.At(i, j)
		}
		if math.Sqrt(f) > 0.01 {
			Te.Fatalf("atom %d still feels %f eV/A after convergence", i, math.Sqrt(f))
		}
	}
	//an impossible threshold runs out of steps
	c2 := bulk(Te)
	c2.Rattle(0.15, rand.New(rand.NewSource(22)))
	if _, _, err := FIRE(c2, sw, &FIREOpts{FMax: 1e-300, MaxSteps: 5}); err == nil {
		Te.Error("an unreachable threshold should error out")
	}
}
