/*
 * oracle.go, part of gapmd.
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

import v3 "github.com/kcl-tscm/gapmd/v3"

// Result holds the output of one oracle evaluation: the potential energy
// (eV), the force on each atom (eV/Å) and, if the oracle provides it, the
// virial tensor (eV).
type Result struct {
	Energy float64
	Forces *v3.Matrix
	Virial *[3][3]float64 //nil if the oracle does not compute it
}

// Copy returns a deep copy of the result.
func (R *Result) Copy() *Result {
	n := new(Result)
	n.Energy = R.Energy
	if R.Forces != nil {
		n.Forces = R.Forces.Copy()
	}
	if R.Virial != nil {
		v := *R.Virial
		n.Virial = &v
	}
	return n
}

// Oracle is an energy/force calculator. Evaluate must be pure with respect
// to the configuration's positions, species and cell: identical input gives
// identical output, with no hidden state in between. The quantum driver of
// package quip (expensive, treated as ground truth), the fitted-GAP driver
// of the same package (cheap, approximate) and the in-process
// StillingerWeber potential all conform, so the rest of the pipeline can
// use them interchangeably.
type Oracle interface {
	Evaluate(c *Conf) (*Result, error)
}
