/*
 * build.go, part of gapmd.
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
	"fmt"

	v3 "github.com/kcl-tscm/gapmd/v3"
)

// SiLatticeConstant is the conventional lattice constant of diamond-cubic
// silicon, in Å.
const SiLatticeConstant = 5.431

// diamondBasis holds the fractional coordinates of the 8 atoms of the
// conventional diamond-cubic cell.
var diamondBasis = [8][3]float64{
	{0, 0, 0},
	{0.25, 0.25, 0.25},
	{0, 0.5, 0.5},
	{0.25, 0.75, 0.75},
	{0.5, 0, 0.5},
	{0.75, 0.25, 0.75},
	{0.5, 0.5, 0},
	{0.75, 0.75, 0.25},
}

// Diamond builds a fully periodic diamond-cubic crystal of the given
// element: the 8-atom conventional cell with lattice constant a (Å),
// replicated nx, ny and nz times along the cartesian axes. It fails with
// ErrInvalidGeometry for non-positive a or replication counts, and with a
// plain error for an element of unknown mass.
func Diamond(symbol string, a float64, nx, ny, nz int) (*Conf, error) {
	if a <= 0 || nx < 1 || ny < 1 || nz < 1 {
		return nil, NewError(ErrInvalidGeometry,
			fmt.Sprintf("diamond lattice a=%.3f size %dx%dx%d", a, nx, ny, nz))
	}
	if _, ok := AtomicMass(symbol); !ok {
		return nil, fmt.Errorf("gapmd.Diamond: no atomic mass for element %q", symbol)
	}
	natoms := 8 * nx * ny * nz
	atoms := make([]*Atom, 0, natoms)
	data := make([]float64, 0, 3*natoms)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			for iz := 0; iz < nz; iz++ {
				for _, b := range diamondBasis {
					atoms = append(atoms, NewAtom(symbol))
					data = append(data,
						a*(float64(ix)+b[0]),
						a*(float64(iy)+b[1]),
						a*(float64(iz)+b[2]))
				}
			}
		}
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, errDecorate(err, "Diamond")
	}
	cell, err := NewCell(a*float64(nx), a*float64(ny), a*float64(nz), [3]bool{true, true, true})
	if err != nil {
		return nil, errDecorate(err, "Diamond")
	}
	return NewConf(atoms, coords, cell)
}

// Slab builds a diamond-cubic slab for surface work: a Diamond crystal
// whose cell is extended by vacuum (Å) along z, periodic in x and y only,
// and whose bottom layer is
// position-fixed, so it stands in for the semi-infinite bulk below. Every
// atom with z below min(z)+tol is marked fixed; the default tol is a/40,
// one tenth of the a/4 interlayer spacing, so exactly the bottom layer
// qualifies. It fails with ErrInvalidGeometry for non-positive vacuum or
// tol, or bad lattice parameters.
func Slab(symbol string, a float64, nx, ny, nz int, vacuum float64, tol ...float64) (*Conf, error) {
	t := a / 40
	if len(tol) > 0 {
		t = tol[0]
	}
	if t <= 0 {
		return nil, NewError(ErrInvalidGeometry, fmt.Sprintf("non-positive fixing tolerance %.3f", t))
	}
	c, err := Diamond(symbol, a, nx, ny, nz)
	if err != nil {
		return nil, errDecorate(err, "Slab")
	}
	cell, err := c.Cell().Extend(2, vacuum)
	if err != nil {
		return nil, errDecorate(err, "Slab")
	}
	cell.pbc[2] = false //the vacuum gap ends periodicity along z
	c.cell = cell
	minz := c.Coords.At(0, 2)
	for i := 1; i < c.Len(); i++ {
		if z := c.Coords.At(i, 2); z < minz {
			minz = z
		}
	}
	for i := 0; i < c.Len(); i++ {
		if c.Coords.At(i, 2) < minz+t {
			c.Atom(i).Fixed = true
		}
	}
	return c, nil
}

// Isolated builds a single free atom of the given element in a large
// non-periodic cell. Evaluating it with the reference oracle gives the
// e0 energy offset for the fit.
func Isolated(symbol string) (*Conf, error) {
	if _, ok := AtomicMass(symbol); !ok {
		return nil, fmt.Errorf("gapmd.Isolated: no atomic mass for element %q", symbol)
	}
	const side = 50.0 //large enough for any sensible interaction cutoff
	coords, err := v3.NewMatrix([]float64{side / 2, side / 2, side / 2})
	if err != nil {
		return nil, errDecorate(err, "Isolated")
	}
	cell, err := NewCell(side, side, side, [3]bool{false, false, false})
	if err != nil {
		return nil, errDecorate(err, "Isolated")
	}
	return NewConf([]*Atom{NewAtom(symbol)}, coords, cell)
}
