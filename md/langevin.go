/*
 * langevin.go, part of gapmd.
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

	gapmd "github.com/kcl-tscm/gapmd"
)

// Langevin is a stochastic NVT integrator: velocity Verlet plus a
// friction drag and a matching thermal noise that drive the system toward
// the target temperature. It uses the second-order impulse
// discretization, with one pair of gaussian vectors per atom and step
// shared by both velocity half-updates; to third order in dt the
// coefficients are
//
//	c1 = dt/2 - dt²·fr/8            c2 = dt·fr/2 - dt²·fr²/8
//	c3 = √dt·s/2 - dt^{3/2}·fr·s/8  c5 = dt^{3/2}·s/(2√3)   c4 = fr·c5/2
//
// with fr the friction (1/fs) and s = √(2·kB·T·fr/m) the per-atom noise
// amplitude. Fixed atoms get neither drag nor noise.
type Langevin struct {
	temp     float64 //K
	friction float64 //1/fs
	rng      *rand.Rand
	xi, eta  []float64 //per-component gaussians of the current step
}

// NewLangevin returns a Langevin integrator with the given target
// temperature (K) and friction coefficient (1/fs). The random source is
// injectable for reproducible runs; a nil src seeds from the global
// default.
func NewLangevin(temp, friction float64, src rand.Source) (*Langevin, error) {
	if temp < 0 || friction <= 0 {
		return nil, fmt.Errorf("md.NewLangevin: bad temperature %g or friction %g", temp, friction)
	}
	if src == nil {
		src = rand.NewSource(rand.Int63())
	}
	return &Langevin{temp: temp, friction: friction, rng: rand.New(src)}, nil
}

func (L *Langevin) Advance(c *gapmd.Conf, dt float64, cur *gapmd.Result, eval func() (*gapmd.Result, error)) (*gapmd.Result, error) {
	n := c.Len()
	if len(L.xi) != 3*n {
		L.xi = make([]float64, 3*n)
		L.eta = make([]float64, 3*n)
	}
	for i := range L.xi {
		L.xi[i] = L.rng.NormFloat64()
		L.eta[i] = L.rng.NormFloat64()
	}
	L.kick(c, dt, cur)
	for i := 0; i < n; i++ {
		if c.Atom(i).Fixed {
			continue
		}
		_, _, _, c5 := L.coeffs(dt, c.Atom(i).Mass)
		for j := 0; j < 3; j++ {
			c.Coords.Set(i, j, c.Coords.At(i, j)+dt*c.Vels.At(i, j)+c5*L.eta[3*i+j])
		}
	}
	res, err := eval()
	if err != nil {
		return nil, err
	}
	L.kick(c, dt, res)
	return res, nil
}

// kick applies one velocity half-update with the given forces, reusing
// the gaussian draws of the current step.
func (L *Langevin) kick(c *gapmd.Conf, dt float64, r *gapmd.Result) {
	for i := 0; i < c.Len(); i++ {
		at := c.Atom(i)
		if at.Fixed {
			continue
		}
		c1, c2, c3, c5 := L.coeffs(dt, at.Mass)
		c4 := L.friction / 2 * c5
		for j := 0; j < 3; j++ {
			a := gapmd.AccUnit * r.Forces.At(i, j) / at.Mass
			v := c.Vels.At(i, j)
			c.Vels.Set(i, j, v+c1*a-c2*v+c3*L.xi[3*i+j]-c4*L.eta[3*i+j])
		}
	}
}

func (L *Langevin) coeffs(dt, mass float64) (c1, c2, c3, c5 float64) {
	fr := L.friction
	sigma := math.Sqrt(2 * gapmd.KB * L.temp * fr * gapmd.AccUnit / mass)
	c1 = dt/2 - dt*dt*fr/8
	c2 = dt*fr/2 - dt*dt*fr*fr/8
	c3 = math.Sqrt(dt)*sigma/2 - math.Pow(dt, 1.5)*fr*sigma/8
	c5 = math.Pow(dt, 1.5) * sigma / (2 * math.Sqrt(3))
	return c1, c2, c3, c5
}
