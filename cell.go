/*
 * cell.go, part of gapmd.
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
	"math"
)

// Cell is an orthorhombic simulation cell with per-axis periodicity flags.
// Edge lengths are in Å.
type Cell struct {
	edges [3]float64
	pbc   [3]bool
}

// NewCell returns a cell with the given edge lengths and periodicity.
// All edges must be positive.
func NewCell(x, y, z float64, pbc [3]bool) (*Cell, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, NewError(ErrInvalidGeometry, fmt.Sprintf("non-positive cell edges %.3f %.3f %.3f", x, y, z))
	}
	return &Cell{edges: [3]float64{x, y, z}, pbc: pbc}, nil
}

// Edges returns the three edge lengths of the cell.
func (L *Cell) Edges() [3]float64 {
	return L.edges
}

// PBC returns the periodicity flags of the cell.
func (L *Cell) PBC() [3]bool {
	return L.pbc
}

// Volume returns the volume of the cell, in Å^3.
func (L *Cell) Volume() float64 {
	return L.edges[0] * L.edges[1] * L.edges[2]
}

// Copy returns a copy of the cell.
func (L *Cell) Copy() *Cell {
	n := new(Cell)
	*n = *L
	return n
}

// Extend returns a copy of the cell with the given length added to the
// edge along the given axis (0, 1 or 2).
func (L *Cell) Extend(axis int, length float64) (*Cell, error) {
	if axis < 0 || axis > 2 {
		panic("gapmd: cell axis out of range")
	}
	if length <= 0 {
		return nil, NewError(ErrInvalidGeometry, fmt.Sprintf("non-positive cell extension %.3f", length))
	}
	n := L.Copy()
	n.edges[axis] += length
	return n, nil
}

// MinImage wraps the displacement (dx,dy,dz) to its minimum image under
// the periodic axes of the cell. Non-periodic axes are left untouched.
// The result is only meaningful for displacements shorter than half the
// periodic edges, which NewNeighbors enforces for its cutoff.
func (L *Cell) MinImage(dx, dy, dz float64) (float64, float64, float64) {
	d := [3]float64{dx, dy, dz}
	for i := 0; i < 3; i++ {
		if L.pbc[i] {
			d[i] -= L.edges[i] * math.Round(d[i]/L.edges[i])
		}
	}
	return d[0], d[1], d[2]
}

// MaxCutoff returns the largest neighbor cutoff usable with the minimum
// image convention in this cell: half the smallest periodic edge, or
// +Inf for a fully non-periodic cell.
func (L *Cell) MaxCutoff() float64 {
	max := math.Inf(1)
	for i := 0; i < 3; i++ {
		if L.pbc[i] && L.edges[i]/2 < max {
			max = L.edges[i] / 2
		}
	}
	return max
}
