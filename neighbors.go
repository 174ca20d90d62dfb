/*
 * neighbors.go, part of gapmd.
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

// Neighbor is one entry of a neighbor list: the index of the neighboring
// atom, the minimum-image displacement from the central atom to it, and
// the corresponding distance.
type Neighbor struct {
	J int
	D [3]float64 //displacement, Å
	R float64    //distance, Å
}

// Neighbors is the cached connectivity of a configuration: for each atom,
// the atoms within a cutoff radius, under the minimum image convention.
// It records the cutoff it was built with; it must be rebuilt whenever
// positions change, and consumers that need a larger cutoff than the
// recorded one get ErrConnectivityStale.
type Neighbors struct {
	cutoff float64
	lists  [][]Neighbor
}

// NewNeighbors builds the full neighbor lists of c at the given cutoff,
// with a plain O(N²) double loop. Each pair within the cutoff appears in
// the lists of both of its atoms. The cutoff must be positive and, for
// periodic cells, smaller than half the smallest periodic edge, so the
// minimum image convention is unambiguous.
func NewNeighbors(c *Conf, cutoff float64) (*Neighbors, error) {
	if cutoff <= 0 {
		return nil, NewError(ErrInvalidGeometry, fmt.Sprintf("non-positive neighbor cutoff %.3f", cutoff))
	}
	if max := c.Cell().MaxCutoff(); cutoff >= max {
		return nil, NewError(ErrInvalidGeometry,
			fmt.Sprintf("neighbor cutoff %.3f not below half the smallest periodic edge (%.3f)", cutoff, max))
	}
	N := new(Neighbors)
	N.cutoff = cutoff
	N.lists = make([][]Neighbor, c.Len())
	cut2 := cutoff * cutoff
	cell := c.Cell()
	for i := 0; i < c.Len(); i++ {
		for j := i + 1; j < c.Len(); j++ {
			dx := c.Coords.At(j, 0) - c.Coords.At(i, 0)
			dy := c.Coords.At(j, 1) - c.Coords.At(i, 1)
			dz := c.Coords.At(j, 2) - c.Coords.At(i, 2)
			dx, dy, dz = cell.MinImage(dx, dy, dz)
			r2 := dx*dx + dy*dy + dz*dz
			if r2 >= cut2 {
				continue
			}
			r := math.Sqrt(r2)
			N.lists[i] = append(N.lists[i], Neighbor{J: j, D: [3]float64{dx, dy, dz}, R: r})
			N.lists[j] = append(N.lists[j], Neighbor{J: i, D: [3]float64{-dx, -dy, -dz}, R: r})
		}
	}
	return N, nil
}

// Cutoff returns the cutoff radius the connectivity was built with.
func (N *Neighbors) Cutoff() float64 {
	return N.cutoff
}

// Of returns the neighbor list of atom i. Panics if out of range. The
// returned slice is owned by the Neighbors object and must not be
// modified.
func (N *Neighbors) Of(i int) []Neighbor {
	if i >= len(N.lists) {
		panic("gapmd: requested neighbor list out of bounds")
	}
	return N.lists[i]
}

// Check returns ErrConnectivityStale if the connectivity was built with a
// cutoff smaller than the given one, nil otherwise.
func (N *Neighbors) Check(cutoff float64) error {
	if N.cutoff < cutoff {
		return NewError(ErrConnectivityStale,
			fmt.Sprintf("connectivity built at %.3f Å, %.3f Å required", N.cutoff, cutoff))
	}
	return nil
}
