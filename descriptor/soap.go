/*
 * soap.go, part of gapmd.
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

	"gonum.org/v1/gonum/floats"

	gapmd "github.com/kcl-tscm/gapmd"
)

// SOAP is the Smooth Overlap of Atomic Positions descriptor: one
// fixed-length vector per atom of a considered species, the power
// spectrum of a spherical-harmonic expansion of the smoothed neighbor
// density around the atom. The expansion uses NMax equispaced gaussian
// radial basis functions of width cutoff/NMax and real spherical
// harmonics up to LMax; each neighbor contribution carries the smooth
// cutoff weight, so the vector changes continuously as atoms cross the
// boundary. The power spectrum is rotation invariant by construction and
// invariant under any permutation of same-species neighbors; as a
// per-atom descriptor it declares 1 index permutation.
//
// The vector length is S(S+1)/2 * NMax(NMax+1)/2 * (LMax+1) for S
// considered species, identical for every configuration. Cross terms
// between the (species,radial) channel pairs are symmetrized, so the
// ordering of the species list never changes the values.
type SOAP struct {
	cutoff    float64
	lMax      int
	nMax      int
	atomSigma float64
	species   []string
	normalize bool
}

// NewSOAP returns a SOAP specification. atomSigma is the width (Å) of
// the gaussians the neighbor density is smeared with; normalize selects
// L2 normalization of the final vector.
func NewSOAP(cutoff float64, lMax, nMax int, atomSigma float64, species []string, normalize bool) (*SOAP, error) {
	if cutoff <= 0 || atomSigma <= 0 {
		return nil, fmt.Errorf("descriptor.NewSOAP: non-positive cutoff %g or atom sigma %g", cutoff, atomSigma)
	}
	if lMax < 0 || nMax < 1 {
		return nil, fmt.Errorf("descriptor.NewSOAP: bad truncation l_max=%d n_max=%d", lMax, nMax)
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("descriptor.NewSOAP: empty species set")
	}
	return &SOAP{
		cutoff:    cutoff,
		lMax:      lMax,
		nMax:      nMax,
		atomSigma: atomSigma,
		species:   uniqueSorted(species),
		normalize: normalize,
	}, nil
}

func (S *SOAP) Family() string       { return "soap" }
func (S *SOAP) Cutoff() float64      { return S.cutoff }
func (S *SOAP) NumPermutations() int { return 1 }

func (S *SOAP) Dim() int {
	ns := len(S.species)
	return ns * (ns + 1) / 2 * S.nMax * (S.nMax + 1) / 2 * (S.lMax + 1)
}

// speciesIndex returns the index of sym in the sorted species set, or -1.
func (S *SOAP) speciesIndex(sym string) int {
	for i, s := range S.species {
		if s == sym {
			return i
		}
	}
	return -1
}

func (S *SOAP) Compute(c *gapmd.Conf, n *gapmd.Neighbors) ([]Item, error) {
	if err := n.Check(S.cutoff); err != nil {
		return nil, err
	}
	var items []Item
	for i := 0; i < c.Len(); i++ {
		if S.speciesIndex(c.Atom(i).Symbol) < 0 {
			continue
		}
		vec := S.powerSpectrum(c, n, i)
		items = append(items, Item{Vector: vec, Weight: 1, Atoms: []int{i}})
	}
	return items, nil
}

func (S *SOAP) Count(c *gapmd.Conf, n *gapmd.Neighbors) (int, error) {
	if err := n.Check(S.cutoff); err != nil {
		return 0, err
	}
	count := 0
	for i := 0; i < c.Len(); i++ {
		if S.speciesIndex(c.Atom(i).Symbol) >= 0 {
			count++
		}
	}
	return count, nil
}

// powerSpectrum expands the neighbor density of atom i in the radial
// basis and real spherical harmonics, then contracts the expansion
// coefficients over m into the rotation-invariant power spectrum.
func (S *SOAP) powerSpectrum(c *gapmd.Conf, n *gapmd.Neighbors, i int) []float64 {
	ns := len(S.species)
	nl := S.lMax + 1
	nm := 2*S.lMax + 1
	//coefficients c_{s,n,l,m}, flattened
	coef := make([]float64, ns*S.nMax*nl*nm)
	idx := func(s, rn, l, m int) int {
		return ((s*S.nMax+rn)*nl+l)*nm + (m + S.lMax)
	}
	width := S.cutoff / float64(S.nMax)
	for _, nb := range n.Of(i) {
		s := S.speciesIndex(c.Atom(nb.J).Symbol)
		if s < 0 || nb.R >= S.cutoff || nb.R == 0 {
			continue
		}
		w := CutoffWeight(nb.R, S.cutoff)
		ylm := realSphHarm(S.lMax, nb.D[0], nb.D[1], nb.D[2], nb.R)
		for rn := 0; rn < S.nMax; rn++ {
			//equispaced gaussian radial basis, centers at
			//(rn+1)*cutoff/nMax, width cutoff/nMax, broadened by the
			//atomic smearing
			center := float64(rn+1) * width
			sig2 := width*width + S.atomSigma*S.atomSigma
			g := math.Exp(-(nb.R - center) * (nb.R - center) / (2 * sig2))
			for l := 0; l <= S.lMax; l++ {
				for m := -l; m <= l; m++ {
					coef[idx(s, rn, l, m)] += w * g * ylm[l][m+l]
				}
			}
		}
	}
	//contract over m; cross channels are symmetrized so the value does
	//not depend on which of the two (species,radial) pairs comes first
	vec := make([]float64, 0, S.Dim())
	for s1 := 0; s1 < ns; s1++ {
		for s2 := s1; s2 < ns; s2++ {
			for n1 := 0; n1 < S.nMax; n1++ {
				for n2 := n1; n2 < S.nMax; n2++ {
					for l := 0; l <= S.lMax; l++ {
						p := 0.0
						for m := -l; m <= l; m++ {
							p += coef[idx(s1, n1, l, m)]*coef[idx(s2, n2, l, m)] +
								coef[idx(s1, n2, l, m)]*coef[idx(s2, n1, l, m)]
						}
						vec = append(vec, p/2)
					}
				}
			}
		}
	}
	if S.normalize {
		if norm := floats.Norm(vec, 2); norm > 0 {
			floats.Scale(1/norm, vec)
		}
	}
	return vec
}

func (S *SOAP) GapString() string {
	return fmt.Sprintf("soap cutoff=%.2f l_max=%d n_max=%d atom_sigma=%.2f n_species=%d species_Z=%s",
		S.cutoff, S.lMax, S.nMax, S.atomSigma, len(S.species), speciesZ(S.species))
}

// realSphHarm returns the real spherical harmonics of the direction
// (x,y,z)/r up to lmax, indexed as ret[l][m+l]. The associated Legendre
// polynomials come from the standard stable recurrences over l at fixed
// m.
func realSphHarm(lmax int, x, y, z, r float64) [][]float64 {
	ct := z / r
	phi := math.Atan2(y, x)
	st := math.Sqrt(math.Max(0, 1-ct*ct))
	//plm[l][m] holds P_l^m(ct) for 0 <= m <= l
	plm := make([][]float64, lmax+1)
	for l := range plm {
		plm[l] = make([]float64, l+1)
	}
	plm[0][0] = 1
	for m := 1; m <= lmax; m++ {
		//P_m^m = -(2m-1) * sin(theta) * P_{m-1}^{m-1}, Condon-Shortley
		plm[m][m] = -float64(2*m-1) * st * plm[m-1][m-1]
	}
	for m := 0; m < lmax; m++ {
		plm[m+1][m] = float64(2*m+1) * ct * plm[m][m]
	}
	for m := 0; m <= lmax; m++ {
		for l := m + 2; l <= lmax; l++ {
			plm[l][m] = (float64(2*l-1)*ct*plm[l-1][m] - float64(l+m-1)*plm[l-2][m]) / float64(l-m)
		}
	}
	ret := make([][]float64, lmax+1)
	for l := 0; l <= lmax; l++ {
		ret[l] = make([]float64, 2*l+1)
		for m := 0; m <= l; m++ {
			norm := math.Sqrt(float64(2*l+1) / (4 * math.Pi) * factRatio(l-m, l+m))
			if m == 0 {
				ret[l][l] = norm * plm[l][0]
				continue
			}
			ret[l][l+m] = math.Sqrt2 * norm * plm[l][m] * math.Cos(float64(m)*phi)
			ret[l][l-m] = math.Sqrt2 * norm * plm[l][m] * math.Sin(float64(m)*phi)
		}
	}
	return ret
}

// factRatio returns a!/b! for a <= b.
func factRatio(a, b int) float64 {
	r := 1.0
	for i := a + 1; i <= b; i++ {
		r /= float64(i)
	}
	return r
}
