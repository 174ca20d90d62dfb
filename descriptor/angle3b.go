/*
 * angle3b.go, part of gapmd.
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

package descriptor

import (
	"fmt"
	"math"
	"sort"

	gapmd "github.com/kcl-tscm/gapmd"
)

// Angle3B is the three-body descriptor: one small vector, the three
// triangle side lengths sorted ascending, per unordered triple of atoms
// whose pairwise distances all lie strictly within the cutoff. Sorting
// makes the value exactly invariant under all 6 permutations of the
// triple. The weight is the product of the smooth cutoff weights of the
// three sides.
type Angle3B struct {
	cutoff float64
}

// NewAngle3B returns a three-body descriptor with the given cutoff (Å).
func NewAngle3B(cutoff float64) (*Angle3B, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("descriptor.NewAngle3B: non-positive cutoff %g", cutoff)
	}
	return &Angle3B{cutoff: cutoff}, nil
}

func (A *Angle3B) Family() string       { return "angle_3b" }
func (A *Angle3B) Cutoff() float64      { return A.cutoff }
func (A *Angle3B) Dim() int             { return 3 }
func (A *Angle3B) NumPermutations() int { return 6 }

// triangles visits every unordered triple exactly once: the triple is
// enumerated from its lowest-index vertex, whose neighbor list must hold
// both other vertices if all three sides are within the cutoff.
func (A *Angle3B) triangles(c *gapmd.Conf, n *gapmd.Neighbors, visit func(i, j, k int, rij, rik, rjk float64)) {
	for i := 0; i < c.Len(); i++ {
		list := n.Of(i)
		for jj := 0; jj < len(list); jj++ {
			nj := list[jj]
			if nj.J < i || nj.R >= A.cutoff {
				continue
			}
			for kk := jj + 1; kk < len(list); kk++ {
				nk := list[kk]
				if nk.J < i || nk.R >= A.cutoff {
					continue
				}
				dx := nk.D[0] - nj.D[0]
				dy := nk.D[1] - nj.D[1]
				dz := nk.D[2] - nj.D[2]
				rjk := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if rjk >= A.cutoff {
					continue
				}
				visit(i, nj.J, nk.J, nj.R, nk.R, rjk)
			}
		}
	}
}

func (A *Angle3B) Compute(c *gapmd.Conf, n *gapmd.Neighbors) ([]Item, error) {
	if err := n.Check(A.cutoff); err != nil {
		return nil, err
	}
	var items []Item
	A.triangles(c, n, func(i, j, k int, rij, rik, rjk float64) {
		sides := []float64{rij, rik, rjk}
		sort.Float64s(sides)
		w := CutoffWeight(rij, A.cutoff) * CutoffWeight(rik, A.cutoff) * CutoffWeight(rjk, A.cutoff)
		items = append(items, Item{Vector: sides, Weight: w, Atoms: []int{i, j, k}})
	})
	return items, nil
}

func (A *Angle3B) Count(c *gapmd.Conf, n *gapmd.Neighbors) (int, error) {
	if err := n.Check(A.cutoff); err != nil {
		return 0, err
	}
	count := 0
	A.triangles(c, n, func(i, j, k int, rij, rik, rjk float64) { count++ })
	return count, nil
}

func (A *Angle3B) GapString() string {
	return fmt.Sprintf("angle_3b cutoff=%.2f", A.cutoff)
}
