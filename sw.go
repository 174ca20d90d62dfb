/*
 * sw.go, part of gapmd.
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

	v3 "github.com/kcl-tscm/gapmd/v3"
)

// swParams holds the parameters of the Stillinger-Weber potential for one
// element, in the original reduced form: energies scale with epsilon (eV)
// and lengths with sigma (Å). The interaction range is a*sigma.
type swParams struct {
	epsilon float64
	sigma   float64
	a       float64
	lambda  float64
	gamma   float64
	cosT0   float64
	bigA    float64
	bigB    float64
}

// The original 1985 parametrization for silicon.
var swSi = swParams{
	epsilon: 2.1683,
	sigma:   2.0951,
	a:       1.80,
	lambda:  21.0,
	gamma:   1.20,
	cosT0:   -1.0 / 3.0,
	bigA:    7.049556277,
	bigB:    0.6022245584,
}

// StillingerWeber is an in-process Oracle implementing the
// Stillinger-Weber classical potential. It is far less accurate than the
// quantum driver of package quip but needs no external binary, which makes
// it the reference calculator of the test suite and a fallback oracle for
// quick pipeline runs. Energy, forces and virial are all computed
// analytically.
type StillingerWeber struct {
	params map[string]swParams
}

// NewStillingerWeber returns a Stillinger-Weber oracle with the original
// silicon parametrization.
func NewStillingerWeber() *StillingerWeber {
	return &StillingerWeber{params: map[string]swParams{"Si": swSi}}
}

// Cutoff returns the interaction range of the potential for the given
// element, or 0 if the element is not parametrized.
func (S *StillingerWeber) Cutoff(symbol string) float64 {
	p, ok := S.params[symbol]
	if !ok {
		return 0
	}
	return p.a * p.sigma
}

// Evaluate computes energy, forces and virial for c. Only
// single-species configurations of a parametrized element are supported.
func (S *StillingerWeber) Evaluate(c *Conf) (*Result, error) {
	symbol := c.Atom(0).Symbol
	p, ok := S.params[symbol]
	for i := 1; i < c.Len(); i++ {
		if c.Atom(i).Symbol != symbol {
			return nil, fmt.Errorf("gapmd: Stillinger-Weber supports single-species configurations only")
		}
	}
	if !ok {
		return nil, fmt.Errorf("gapmd: no Stillinger-Weber parameters for element %q", symbol)
	}
	rc := p.a * p.sigma
	res := &Result{Forces: v3.Zeros(c.Len()), Virial: &[3][3]float64{}}
	if c.Len() == 1 {
		return res, nil
	}
	neigh, err := NewNeighbors(c, rc)
	if err != nil {
		return nil, errDecorate(err, "StillingerWeber.Evaluate")
	}
	S.pairTerms(c, neigh, p, res)
	S.tripleTerms(c, neigh, p, res)
	return res, nil
}

// pairTerms accumulates the two-body energy, forces and virial. Each pair
// is visited once, from its lower-index atom.
func (S *StillingerWeber) pairTerms(c *Conf, neigh *Neighbors, p swParams, res *Result) {
	rc := p.a * p.sigma
	for i := 0; i < c.Len(); i++ {
		for _, n := range neigh.Of(i) {
			if n.J < i {
				continue
			}
			r := n.R
			sr4 := math.Pow(p.sigma/r, 4)
			expf := math.Exp(p.sigma / (r - rc))
			phi := p.bigA * p.epsilon * (p.bigB*sr4 - 1) * expf
			//dphi is dphi/dr
			dphi := p.bigA * p.epsilon * expf *
				(-4*p.bigB*sr4/r - (p.bigB*sr4-1)*p.sigma/((r-rc)*(r-rc)))
			res.Energy += phi
			for a := 0; a < 3; a++ {
				f := -dphi * n.D[a] / r //force on n.J
				res.Forces.Set(n.J, a, res.Forces.At(n.J, a)+f)
				res.Forces.Set(i, a, res.Forces.At(i, a)-f)
			}
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					res.Virial[a][b] += dphi / r * n.D[a] * n.D[b]
				}
			}
		}
	}
}

// tripleTerms accumulates the three-body angular penalty. For every atom i
// and every unordered pair (j,k) of its neighbors the term is
// lambda*epsilon*(cos(theta_jik)-cosT0)^2*g(r_ij)*g(r_ik), with
// g(r)=exp(gamma*sigma/(r-a*sigma)) decaying smoothly to zero at the
// cutoff.
func (S *StillingerWeber) tripleTerms(c *Conf, neigh *Neighbors, p swParams, res *Result) {
	rc := p.a * p.sigma
	gs := p.gamma * p.sigma
	for i := 0; i < c.Len(); i++ {
		list := neigh.Of(i)
		for jj := 0; jj < len(list); jj++ {
			for kk := jj + 1; kk < len(list); kk++ {
				nj, nk := list[jj], list[kk]
				gj := math.Exp(gs / (nj.R - rc))
				gk := math.Exp(gs / (nk.R - rc))
				dgj := -gs / ((nj.R - rc) * (nj.R - rc)) * gj
				dgk := -gs / ((nk.R - rc) * (nk.R - rc)) * gk
				dot := nj.D[0]*nk.D[0] + nj.D[1]*nk.D[1] + nj.D[2]*nk.D[2]
				cos := dot / (nj.R * nk.R)
				delta := cos - p.cosT0
				le := p.lambda * p.epsilon
				res.Energy += le * delta * delta * gj * gk
				//gradients of the term with respect to the displacements
				//d_ij and d_ik; the force on each atom is minus these.
				var gradj, gradk [3]float64
				for a := 0; a < 3; a++ {
					dcosj := nk.D[a]/(nj.R*nk.R) - cos*nj.D[a]/(nj.R*nj.R)
					dcosk := nj.D[a]/(nj.R*nk.R) - cos*nk.D[a]/(nk.R*nk.R)
					gradj[a] = le * gk * (2*delta*gj*dcosj + delta*delta*dgj*nj.D[a]/nj.R)
					gradk[a] = le * gj * (2*delta*gk*dcosk + delta*delta*dgk*nk.D[a]/nk.R)
				}
				for a := 0; a < 3; a++ {
					res.Forces.Set(nj.J, a, res.Forces.At(nj.J, a)-gradj[a])
					res.Forces.Set(nk.J, a, res.Forces.At(nk.J, a)-gradk[a])
					res.Forces.Set(i, a, res.Forces.At(i, a)+gradj[a]+gradk[a])
				}
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						res.Virial[a][b] += nj.D[a]*gradj[b] + nk.D[a]*gradk[b]
					}
				}
			}
		}
	}
}
