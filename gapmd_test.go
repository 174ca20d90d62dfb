/*
 * gapmd_test.go, part of gapmd.
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

package gapmd

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/kcl-tscm/gapmd/v3"
)

func TestDiamond(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Len() != 64 {
		Te.Errorf("2x2x2 diamond should have 64 atoms, got %d", c.Len())
	}
	edges := c.Cell().Edges()
	want := 2 * SiLatticeConstant
	for i, e := range edges {
		if math.Abs(e-want) > 1e-12 {
			Te.Errorf("edge %d: got %f, want %f", i, e, want)
		}
	}
	for _, p := range c.Cell().PBC() {
		if !p {
			Te.Error("bulk diamond should be periodic in all directions")
		}
	}
	if _, err := Diamond("Si", SiLatticeConstant, 0, 1, 1); err == nil {
		Te.Error("zero replications should be rejected")
	}
	if _, err := Diamond("Xx", SiLatticeConstant, 1, 1, 1); err == nil {
		Te.Error("an unknown element should be rejected")
	}
}

func TestSlab(Te *testing.T) {
	c, err := Slab("Si", SiLatticeConstant, 2, 2, 1, 10.0)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Len() != 32 {
		Te.Errorf("2x2x1 slab should have 32 atoms, got %d", c.Len())
	}
	pbc := c.Cell().PBC()
	if !pbc[0] || !pbc[1] || pbc[2] {
		Te.Errorf("slab should be periodic in x and y only, got %v", pbc)
	}
	//half the 2a lateral edge; the vacuum axis must not enter
	if math.Abs(c.Cell().MaxCutoff()-SiLatticeConstant) > 1e-12 {
		Te.Errorf("only the periodic edges should bound the cutoff, got %f", c.Cell().MaxCutoff())
	}
	if math.Abs(c.Cell().Edges()[2]-(SiLatticeConstant+10.0)) > 1e-12 {
		Te.Errorf("slab cell height should include the vacuum, got %f", c.Cell().Edges()[2])
	}
	//the bottom layer anchors the slab: 2 basis atoms at z=0 per cell
	fixed := 0
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			fixed++
		}
	}
	if fixed != 8 {
		Te.Errorf("expected 8 anchored bottom-layer atoms, got %d", fixed)
	}
}

func TestCellMinImage(Te *testing.T) {
	cell, err := NewCell(10, 10, 20, [3]bool{true, true, false})
	if err != nil {
		Te.Fatal(err)
	}
	dx, dy, dz := cell.MinImage(9, -9, 19)
	if math.Abs(dx-(-1)) > 1e-12 || math.Abs(dy-1) > 1e-12 || math.Abs(dz-19) > 1e-12 {
		Te.Errorf("wrong minimum image: %f %f %f", dx, dy, dz)
	}
	if math.Abs(cell.MaxCutoff()-5) > 1e-12 {
		Te.Errorf("max cutoff should be half the smallest periodic edge, got %f", cell.MaxCutoff())
	}
	free, err := NewCell(10, 10, 10, [3]bool{false, false, false})
	if err != nil {
		Te.Fatal(err)
	}
	if !math.IsInf(free.MaxCutoff(), 1) {
		Te.Error("a non-periodic cell should not bound the cutoff")
	}
	if _, err := NewCell(10, -1, 10, [3]bool{true, true, true}); err == nil {
		Te.Error("non-positive edges should be rejected")
	}
}

func TestConfKinetics(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if c.KineticEnergy() != 0 || c.Temperature() != 0 {
		Te.Error("a fresh configuration should be at rest")
	}
	//one atom moving at 0.01 A/fs
	c.Vels.Set(0, 0, 0.01)
	m := c.Atom(0).Mass
	wantKE := 0.5 * m * 1e-4 / AccUnit
	if math.Abs(c.KineticEnergy()-wantKE) > 1e-12 {
		Te.Errorf("kinetic energy: got %g, want %g", c.KineticEnergy(), wantKE)
	}
	p := c.Momentum()
	if math.Abs(p[0]-m*0.01) > 1e-12 || p[1] != 0 || p[2] != 0 {
		Te.Errorf("wrong momentum: %v", p)
	}
	cp := c.Copy()
	cp.Vels.Set(0, 0, 0)
	if c.Vels.At(0, 0) != 0.01 {
		Te.Error("Copy must not share velocity storage")
	}
	cp.Coords.Set(0, 0, 99)
	if c.Coords.At(0, 0) == 99 {
		Te.Error("Copy must not share coordinate storage")
	}
}

func TestNeighbors(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	//nearest-neighbor shell only: each atom has 4 neighbors at a*sqrt(3)/4
	nb, err := NewNeighbors(c, 2.4)
	if err != nil {
		Te.Fatal(err)
	}
	rnn := SiLatticeConstant * math.Sqrt(3) / 4
	for i := 0; i < c.Len(); i++ {
		list := nb.Of(i)
		if len(list) != 4 {
			Te.Fatalf("atom %d has %d neighbors within 2.4 A, want 4", i, len(list))
		}
		for _, n := range list {
			if math.Abs(n.R-rnn) > 1e-9 {
				Te.Errorf("neighbor distance %f, want %f", n.R, rnn)
			}
		}
	}
	if err := nb.Check(2.4); err != nil {
		Te.Error("matching cutoff reported stale:", err)
	}
	err = nb.Check(3.0)
	if err == nil {
		Te.Error("a larger cutoff should report the lists stale")
	}
	if !errors.Is(err, ErrConnectivityStale) {
		Te.Errorf("wrong error kind: %v", err)
	}
	//cutoff at or over half the smallest periodic edge is invalid
	if _, err := NewNeighbors(c, SiLatticeConstant+1); err == nil {
		Te.Error("an oversized cutoff should be rejected")
	}
}

func TestSWDiamondEnergy(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	sw := NewStillingerWeber()
	res, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	//perfect diamond: tetrahedral angles kill the three-body term and
	//each atom keeps two bonds at the pair minimum, so E/N = -2*eps
	ePerAtom := res.Energy / float64(c.Len())
	if math.Abs(ePerAtom-(-4.3366)) > 2e-3 {
		Te.Errorf("cohesive energy %f eV/atom, want about -4.3366", ePerAtom)
	}
	for i := 0; i < c.Len(); i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(res.Forces.At(i, j)) > 1e-2 {
				Te.Fatalf("force %d,%d = %g at equilibrium", i, j, res.Forces.At(i, j))
			}
		}
	}
}

func TestSWForcesNumerical(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	c.Rattle(0.05, rand.New(rand.NewSource(7)))
	sw := NewStillingerWeber()
	res, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	h := 1e-5
	//a few atoms are enough; the terms are all alike
	for _, i := range []int{0, 13, 31, 63} {
		for j := 0; j < 3; j++ {
			orig := c.Coords.At(i, j)
			c.Coords.Set(i, j, orig+h)
			plus, err := sw.Evaluate(c)
			if err != nil {
				Te.Fatal(err)
			}
			c.Coords.Set(i, j, orig-h)
			minus, err := sw.Evaluate(c)
			if err != nil {
				Te.Fatal(err)
			}
			c.Coords.Set(i, j, orig)
			num := -(plus.Energy - minus.Energy) / (2 * h)
			if math.Abs(num-res.Forces.At(i, j)) > 1e-4 {
				Te.Errorf("atom %d axis %d: analytic %g vs numerical %g", i, j, res.Forces.At(i, j), num)
			}
		}
	}
}

func TestSWVirialNumerical(Te *testing.T) {
	c, err := Diamond("Si", SiLatticeConstant, 2, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	c.Rattle(0.05, rand.New(rand.NewSource(11)))
	sw := NewStillingerWeber()
	res, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Virial == nil {
		Te.Fatal("no virial")
	}
	//trace(W) = dE/dlambda under uniform scaling of cell and positions
	h := 1e-6
	scaled := func(lambda float64) float64 {
		s := c.Copy()
		e := c.Cell().Edges()
		cell, err := NewCell(lambda*e[0], lambda*e[1], lambda*e[2], c.Cell().PBC())
		if err != nil {
			Te.Fatal(err)
		}
		s2, err := NewConf(confAtoms(s), s.Coords, cell)
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < s2.Len(); i++ {
			for j := 0; j < 3; j++ {
				s2.Coords.Set(i, j, lambda*c.Coords.At(i, j))
			}
		}
		r, err := sw.Evaluate(s2)
		if err != nil {
			Te.Fatal(err)
		}
		return r.Energy
	}
	num := (scaled(1+h) - scaled(1-h)) / (2 * h)
	tr := res.Virial[0][0] + res.Virial[1][1] + res.Virial[2][2]
	if math.Abs(num-tr) > 1e-3*math.Abs(tr) {
		Te.Errorf("virial trace %g vs numerical dE/dlambda %g", tr, num)
	}
}

func confAtoms(c *Conf) []*Atom {
	atoms := make([]*Atom, c.Len())
	for i := range atoms {
		atoms[i] = c.Atom(i)
	}
	return atoms
}

func TestSWSingleAtom(Te *testing.T) {
	c, err := Isolated("Si")
	if err != nil {
		Te.Fatal(err)
	}
	sw := NewStillingerWeber()
	res, err := sw.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Energy != 0 {
		Te.Errorf("an isolated atom should have zero energy, got %g", res.Energy)
	}
}

func TestSWUnknownSpecies(Te *testing.T) {
	at := []*Atom{NewAtom("C"), NewAtom("C")}
	coords, err := v3.NewMatrix([]float64{0, 0, 0, 1.5, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	cell, _ := NewCell(50, 50, 50, [3]bool{false, false, false})
	c, err := NewConf(at, coords, cell)
	if err != nil {
		Te.Fatal(err)
	}
	sw := NewStillingerWeber()
	if _, err := sw.Evaluate(c); err == nil {
		Te.Error("a species without parameters should be rejected")
	}
}

func TestErrorKinds(Te *testing.T) {
	err := NewError(ErrInvalidGeometry, "bad cell")
	if !errors.Is(err, ErrInvalidGeometry) {
		Te.Error("kind lost in wrapping")
	}
	if errors.Is(err, ErrOracleUnavailable) {
		Te.Error("wrong kind matched")
	}
	deco := err.Decorate("NewCell")
	if len(deco) != 1 || deco[0] != "NewCell" {
		Te.Errorf("decoration not kept: %v", deco)
	}
}
