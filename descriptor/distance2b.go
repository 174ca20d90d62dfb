/*
 * distance2b.go, part of gapmd.
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

	gapmd "github.com/kcl-tscm/gapmd"
)

// Distance2B is the pairwise descriptor: one scalar, the interatomic
// distance, per unordered pair of atoms strictly within the cutoff. The
// value is invariant under swapping the two atoms, so it declares 2
// permutations.
type Distance2B struct {
	cutoff  float64
	species []string //empty means all species qualify
}

// NewDistance2B returns a pairwise descriptor with the given cutoff (Å).
// If species are given, only pairs of those elements qualify.
func NewDistance2B(cutoff float64, species ...string) (*Distance2B, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("descriptor.NewDistance2B: non-positive cutoff %g", cutoff)
	}
	return &Distance2B{cutoff: cutoff, species: uniqueSorted(species)}, nil
}

func (D *Distance2B) Family() string       { return "distance_2b" }
func (D *Distance2B) Cutoff() float64      { return D.cutoff }
func (D *Distance2B) Dim() int             { return 1 }
func (D *Distance2B) NumPermutations() int { return 2 }

func (D *Distance2B) qualifies(c *gapmd.Conf, i int) bool {
	if len(D.species) == 0 {
		return true
	}
	sym := c.Atom(i).Symbol
	for _, s := range D.species {
		if s == sym {
			return true
		}
	}
	return false
}

func (D *Distance2B) Compute(c *gapmd.Conf, n *gapmd.Neighbors) ([]Item, error) {
	if err := n.Check(D.cutoff); err != nil {
		return nil, err
	}
	var items []Item
	for i := 0; i < c.Len(); i++ {
		if !D.qualifies(c, i) {
			continue
		}
		for _, nb := range n.Of(i) {
			if nb.J < i || nb.R >= D.cutoff || !D.qualifies(c, nb.J) {
				continue
			}
			items = append(items, Item{
				Vector: []float64{nb.R},
				Weight: CutoffWeight(nb.R, D.cutoff),
				Atoms:  []int{i, nb.J},
			})
		}
	}
	return items, nil
}

func (D *Distance2B) Count(c *gapmd.Conf, n *gapmd.Neighbors) (int, error) {
	if err := n.Check(D.cutoff); err != nil {
		return 0, err
	}
	count := 0
	for i := 0; i < c.Len(); i++ {
		if !D.qualifies(c, i) {
			continue
		}
		for _, nb := range n.Of(i) {
			if nb.J > i && nb.R < D.cutoff && D.qualifies(c, nb.J) {
				count++
			}
		}
	}
	return count, nil
}

func (D *Distance2B) GapString() string {
	return fmt.Sprintf("distance_2b cutoff=%.2f", D.cutoff)
}
