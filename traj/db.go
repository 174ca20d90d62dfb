/*
 * db.go, part of gapmd.
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

package traj

import (
	gapmd "github.com/kcl-tscm/gapmd"
	v3 "github.com/kcl-tscm/gapmd/v3"
)

// Frame is one stored snapshot: an independent copy of a configuration
// plus the scalar/array properties attached to it when it was collected.
type Frame struct {
	Conf      *gapmd.Conf
	Energy    float64 //eV; meaningful only if HasEnergy
	HasEnergy bool
	Forces    *v3.Matrix     //eV/Å, nil if not stored
	Virial    *[3][3]float64 //eV, nil if not stored
}

// DB is the trajectory database: an ordered, append-only sequence of
// snapshots. Insertion order is simulation time. Snapshots are deep
// copies, so later mutation of the live configuration does not touch the
// stored history, and reads of stored frames are safe at any time.
type DB struct {
	frames []*Frame
}

// NewDB returns an empty trajectory database.
func NewDB() *DB {
	return new(DB)
}

// Append stores an independent copy of c, together with the energy,
// forces and virial of r. A nil r stores the bare configuration.
func (D *DB) Append(c *gapmd.Conf, r *gapmd.Result) {
	f := &Frame{Conf: c.Copy()}
	if r != nil {
		f.Energy = r.Energy
		f.HasEnergy = true
		if r.Forces != nil {
			f.Forces = r.Forces.Copy()
		}
		if r.Virial != nil {
			v := *r.Virial
			f.Virial = &v
		}
	}
	D.frames = append(D.frames, f)
}

// Len returns the number of stored snapshots.
func (D *DB) Len() int {
	return len(D.frames)
}

// Frame returns the ith stored snapshot. Panics if out of range.
func (D *DB) Frame(i int) *Frame {
	if i >= len(D.frames) {
		panic("traj: requested frame out of bounds")
	}
	return D.frames[i]
}

// Energies returns the stored energy of every frame, in insertion order.
// It fails with ErrInsufficientData if the database is empty or any frame
// has no stored energy.
func (D *DB) Energies() ([]float64, error) {
	if len(D.frames) == 0 {
		return nil, gapmd.NewError(gapmd.ErrInsufficientData, "empty trajectory database")
	}
	es := make([]float64, len(D.frames))
	for i, f := range D.frames {
		if !f.HasEnergy {
			return nil, gapmd.NewError(gapmd.ErrInsufficientData, "frame without stored energy")
		}
		es[i] = f.Energy
	}
	return es, nil
}

// Collector returns an observer that appends every configuration it sees,
// with the oracle result of the qualifying step, to db. Attach it to a
// dynamics driver to sample a run at fixed step intervals.
func Collector(db *DB) func(step int, c *gapmd.Conf, r *gapmd.Result) error {
	return func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		db.Append(c, r)
		return nil
	}
}
