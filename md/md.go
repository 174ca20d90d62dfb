/*
 * md.go, part of gapmd.
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

	gapmd "github.com/kcl-tscm/gapmd"
)

// Integrator advances a configuration one timestep. Advance receives the
// oracle result at the pre-step positions and an eval callback that
// re-evaluates the oracle at whatever positions the configuration holds;
// it returns the result at the post-step positions, which the next step
// reuses, so the oracle runs exactly once per step.
type Integrator interface {
	Advance(c *gapmd.Conf, dt float64, cur *gapmd.Result, eval func() (*gapmd.Result, error)) (*gapmd.Result, error)
}

// ObserverFunc is a callback fired periodically during a run, after the
// position/velocity update of a qualifying step. It observes the live
// configuration; observers that keep snapshots must copy it. A non-nil
// error aborts the run.
type ObserverFunc func(step int, c *gapmd.Conf, r *gapmd.Result) error

type observer struct {
	interval int
	f        ObserverFunc
}

// Dyn drives a dynamics run: one configuration, one oracle, one
// integrator, and any number of periodic observers. The configuration is
// exclusively owned by the Dyn while Run executes.
type Dyn struct {
	conf   *gapmd.Conf
	oracle gapmd.Oracle
	integ  Integrator
	dt     float64 //fs
	obs    []observer
	steps  int //total steps taken over all Run calls
	cur    *gapmd.Result
}

// NewDyn returns a dynamics driver for the given configuration, oracle
// and integrator, with timestep dt in fs.
func NewDyn(c *gapmd.Conf, oracle gapmd.Oracle, dt float64, integ Integrator) (*Dyn, error) {
	if c == nil || oracle == nil || integ == nil {
		return nil, fmt.Errorf("md.NewDyn: nil configuration, oracle or integrator")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("md.NewDyn: non-positive timestep %g", dt)
	}
	return &Dyn{conf: c, oracle: oracle, integ: integ, dt: dt}, nil
}

// Conf returns the configuration the driver advances.
func (D *Dyn) Conf() *gapmd.Conf {
	return D.conf
}

// Step returns the total number of steps taken so far.
func (D *Dyn) Step() int {
	return D.steps
}

// Attach registers f to fire after every interval-th step, counting from
// the first step of the first Run call. Observers fire in registration
// order.
func (D *Dyn) Attach(interval int, f ObserverFunc) error {
	if interval < 1 {
		return fmt.Errorf("md.Attach: interval must be >= 1, got %d", interval)
	}
	if f == nil {
		return fmt.Errorf("md.Attach: nil observer")
	}
	D.obs = append(D.obs, observer{interval, f})
	return nil
}

// eval queries the oracle at the current positions and zeroes the forces
// on fixed atoms, so no integrator can move them.
func (D *Dyn) eval() (*gapmd.Result, error) {
	res, err := D.oracle.Evaluate(D.conf)
	if err != nil {
		return nil, err
	}
	for i := 0; i < D.conf.Len(); i++ {
		if !D.conf.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			res.Forces.Set(i, j, 0)
		}
	}
	return res, nil
}

// Run advances the configuration nsteps steps. An oracle or observer
// failure aborts the run and is returned; the configuration is left at
// whatever state existed when the failure occurred, with no rollback.
func (D *Dyn) Run(nsteps int) error {
	var err error
	if D.cur == nil {
		D.conf.ZeroFixed()
		if D.cur, err = D.eval(); err != nil {
			return err
		}
	}
	for s := 0; s < nsteps; s++ {
		D.cur, err = D.integ.Advance(D.conf, D.dt, D.cur, D.eval)
		if err != nil {
			return err
		}
		D.steps++
		for _, o := range D.obs {
			if D.steps%o.interval != 0 {
				continue
			}
			if err = o.f(D.steps, D.conf, D.cur); err != nil {
				return err
			}
		}
	}
	return nil
}
