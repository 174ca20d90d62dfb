/*
 * fire.go, part of gapmd.
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

	gapmd "github.com/kcl-tscm/gapmd"
)

// FIREOpts are the knobs of the FIRE relaxation. The zero value of any
// field selects the defaults given below.
type FIREOpts struct {
	Dt       float64 //initial timestep, fs (default 0.5)
	DtMax    float64 //largest allowed timestep, fs (default 2.0)
	FMax     float64 //convergence: largest per-atom force norm, eV/Å (default 0.05)
	MaxSteps int     //give up after this many steps (default 2000)
}

func (o *FIREOpts) defaults() {
	if o.Dt <= 0 {
		o.Dt = 0.5
	}
	if o.DtMax <= 0 {
		o.DtMax = 2.0
	}
	if o.FMax <= 0 {
		o.FMax = 0.05
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = 2000
	}
}

// The fixed FIRE parameters from the original paper.
const (
	fireNMin   = 5
	fireFInc   = 1.1
	fireFDec   = 0.5
	fireAStart = 0.1
	fireFA     = 0.99
)

// FIRE relaxes the geometry of c with the Fast Inertial Relaxation
// Engine: damped dynamics whose velocity is steered toward the force
// direction while the power P = F·v stays positive, and quenched when it
// turns negative. Fixed atoms do not move. It returns the oracle result
// at the relaxed geometry and the number of steps taken, or an error if
// the run does not converge within MaxSteps. opts may be nil for all
// defaults.
func FIRE(c *gapmd.Conf, oracle gapmd.Oracle, opts *FIREOpts) (*gapmd.Result, int, error) {
	var o FIREOpts
	if opts != nil {
		o = *opts
	}
	o.defaults()
	n := c.Len()
	v := make([]float64, 3*n)
	dt := o.Dt
	alpha := fireAStart
	npos := 0
	var res *gapmd.Result
	var err error
	for step := 1; step <= o.MaxSteps; step++ {
		if res, err = evalMasked(c, oracle); err != nil {
			return nil, step, err
		}
		if maxForce(c, res) < o.FMax {
			return res, step - 1, nil
		}
		p := 0.0
		fnorm, vnorm := 0.0, 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < 3; j++ {
				f := res.Forces.At(i, j)
				p += f * v[3*i+j]
				fnorm += f * f
				vnorm += v[3*i+j] * v[3*i+j]
			}
		}
		fnorm, vnorm = math.Sqrt(fnorm), math.Sqrt(vnorm)
		if p > 0 {
			npos++
			if npos > fireNMin {
				dt = math.Min(dt*fireFInc, o.DtMax)
				alpha *= fireFA
			}
			if fnorm > 0 {
				for i := range v {
					fi := res.Forces.At(i/3, i%3)
					v[i] = (1-alpha)*v[i] + alpha*vnorm*fi/fnorm
				}
			}
		} else {
			for i := range v {
				v[i] = 0
			}
			dt *= fireFDec
			alpha = fireAStart
			npos = 0
		}
		for i := 0; i < n; i++ {
			at := c.Atom(i)
			if at.Fixed {
				continue
			}
			for j := 0; j < 3; j++ {
				v[3*i+j] += dt * gapmd.AccUnit * res.Forces.At(i, j) / at.Mass
				c.Coords.Set(i, j, c.Coords.At(i, j)+dt*v[3*i+j])
			}
		}
	}
	return nil, o.MaxSteps, fmt.Errorf("md.FIRE: not converged after %d steps", o.MaxSteps)
}

// evalMasked evaluates the oracle and zeroes forces on fixed atoms.
func evalMasked(c *gapmd.Conf, oracle gapmd.Oracle) (*gapmd.Result, error) {
	res, err := oracle.Evaluate(c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < c.Len(); i++ {
		if !c.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			res.Forces.Set(i, j, 0)
		}
	}
	return res, nil
}

// maxForce returns the largest per-atom force norm among the non-fixed
// atoms, in eV/Å.
func maxForce(c *gapmd.Conf, r *gapmd.Result) float64 {
	max := 0.0
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			continue
		}
		f2 := 0.0
		for j := 0; j < 3; j++ {
			f := r.Forces.At(i, j)
			f2 += f * f
		}
		if f := math.Sqrt(f2); f > max {
			max = f
		}
	}
	return max
}
