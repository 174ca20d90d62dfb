/*
 * descriptor.go, part of gapmd.
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

// Package descriptor converts atomic configurations into numeric feature
// vectors of the local environments: interatomic distances (distance_2b),
// triangle side lengths (angle_3b) and SOAP power spectra. Every family
// weights its values with a smooth cutoff function, so descriptors and
// their derivatives vanish continuously at the cutoff radius, and declares
// the set of index permutations its values are invariant under. The same
// specifications double as fragments of the command line of the external
// fitting program.
package descriptor

import (
	"math"
	"sort"
	"strconv"

	gapmd "github.com/kcl-tscm/gapmd"
)

// Item is one evaluated descriptor entry: the feature vector, the smooth
// cutoff weight attached to it, and the indexes of the atoms it involves.
type Item struct {
	Vector []float64
	Weight float64
	Atoms  []int
}

// Spec is an immutable descriptor specification. Compute and Count fail
// with gapmd.ErrConnectivityStale if the supplied connectivity was built
// with a cutoff smaller than the specification's.
type Spec interface {
	//Family returns the descriptor family identifier, as the external
	//fitting program spells it.
	Family() string

	//Cutoff returns the cutoff radius of the descriptor, in Å.
	Cutoff() float64

	//Dim returns the length of the vectors Compute produces. It depends
	//only on the specification, never on the configuration.
	Dim() int

	//NumPermutations returns the number of index permutations the
	//descriptor value is exactly invariant under.
	NumPermutations() int

	//Compute returns one Item per qualifying atom tuple (pair, triple,
	//or single atom for per-atom families).
	Compute(c *gapmd.Conf, n *gapmd.Neighbors) ([]Item, error)

	//Count returns the number of Items Compute would produce, without
	//building them.
	Count(c *gapmd.Conf, n *gapmd.Neighbors) (int, error)

	//GapString returns the descriptor part of the fitting program's
	//command-line fragment for this specification.
	GapString() string
}

// CutoffWeight is the smooth radial weight applied at the boundary:
// fc(r) = (cos(pi*r/rc)+1)/2 for r < rc and 0 beyond, so both the weight
// and its first derivative vanish continuously at rc.
func CutoffWeight(r, rc float64) float64 {
	if r >= rc {
		return 0
	}
	return 0.5 * (math.Cos(math.Pi*r/rc) + 1)
}

// uniqueSorted returns a sorted copy of symbols with duplicates removed.
func uniqueSorted(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var out []string
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// speciesZ renders the species of a specification as a {Z1 Z2 ...} list
// of atomic numbers for the fitting program. Unknown symbols render as 0,
// which the fitter rejects loudly.
func speciesZ(symbols []string) string {
	out := "{"
	for i, s := range symbols {
		z, _ := gapmd.AtomicNumber(s)
		if i > 0 {
			out += " "
		}
		out += strconv.Itoa(z)
	}
	return out + "}"
}
