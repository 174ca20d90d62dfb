/*
 * conf.go, part of gapmd.
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
	"math/rand"

	v3 "github.com/kcl-tscm/gapmd/v3"
)

// Physical constants and unit conversions. The library works in Å, eV,
// amu and fs throughout.
const (
	//KB is the Boltzmann constant in eV/K.
	KB = 8.617333262e-5

	//AccUnit converts a force/mass ratio in (eV/Å)/amu into an
	//acceleration in Å/fs². Its inverse converts amu·(Å/fs)² into eV.
	AccUnit = 9.648533212e-3
)

// Conf is an atomic configuration: a set of atoms with coordinates and
// velocities, in a simulation cell. Atom count and species are immutable
// after construction; coordinates and velocities mutate only through the
// dynamics/relaxation code in package md or through explicit Set calls by
// the caller.
type Conf struct {
	atoms  []*Atom
	cell   *Cell
	Coords *v3.Matrix //positions, Å
	Vels   *v3.Matrix //velocities, Å/fs
}

// NewConf makes a configuration with the given atoms, coordinates and cell.
// Velocities start at zero. It returns an error if any slice is nil, the
// dimensions are inconsistent, or any atom has a non-positive mass.
func NewConf(atoms []*Atom, coords *v3.Matrix, cell *Cell) (*Conf, error) {
	if atoms == nil || coords == nil || cell == nil {
		return nil, fmt.Errorf("gapmd.NewConf: nil atoms, coordinates or cell")
	}
	if len(atoms) != coords.NVecs() {
		return nil, fmt.Errorf("gapmd.NewConf: %d atoms but %d coordinates", len(atoms), coords.NVecs())
	}
	for i, at := range atoms {
		if at.Mass <= 0 {
			return nil, fmt.Errorf("gapmd.NewConf: atom %d (%s) has non-positive mass", i, at.Symbol)
		}
	}
	C := new(Conf)
	C.atoms = atoms
	C.cell = cell
	C.Coords = coords
	C.Vels = v3.Zeros(len(atoms))
	return C, nil
}

// Len returns the number of atoms in the configuration.
func (C *Conf) Len() int {
	return len(C.atoms)
}

// Atom returns the Atom corresponding to the index i. Panics if out of
// range.
func (C *Conf) Atom(i int) *Atom {
	if i >= C.Len() {
		panic("gapmd: requested Atom out of bounds")
	}
	return C.atoms[i]
}

// Cell returns the simulation cell of the configuration.
func (C *Conf) Cell() *Cell {
	return C.cell
}

// Masses returns a slice with the masses of all atoms, in amu.
func (C *Conf) Masses() []float64 {
	m := make([]float64, C.Len())
	for i, at := range C.atoms {
		m[i] = at.Mass
	}
	return m
}

// NFree returns the number of atoms not marked as fixed.
func (C *Conf) NFree() int {
	n := 0
	for _, at := range C.atoms {
		if !at.Fixed {
			n++
		}
	}
	return n
}

// Copy returns an independent deep copy of the configuration, atoms and
// cell included, so mutating the original afterwards does not touch the
// copy.
func (C *Conf) Copy() *Conf {
	n := new(Conf)
	n.atoms = make([]*Atom, len(C.atoms))
	for i, at := range C.atoms {
		n.atoms[i] = at.Copy()
	}
	n.cell = C.cell.Copy()
	n.Coords = C.Coords.Copy()
	n.Vels = C.Vels.Copy()
	return n
}

// KineticEnergy returns the total kinetic energy of the configuration,
// in eV.
func (C *Conf) KineticEnergy() float64 {
	ke := 0.0
	for i, at := range C.atoms {
		v2 := 0.0
		for j := 0; j < 3; j++ {
			v := C.Vels.At(i, j)
			v2 += v * v
		}
		ke += 0.5 * at.Mass * v2
	}
	return ke / AccUnit
}

// Temperature returns the instantaneous kinetic temperature in K, using
// 3 degrees of freedom per non-fixed atom. It returns 0 for a
// configuration with no free atoms.
func (C *Conf) Temperature() float64 {
	dof := 3 * C.NFree()
	if dof == 0 {
		return 0
	}
	return 2 * C.KineticEnergy() / (KB * float64(dof))
}

// Momentum returns the total linear momentum of the configuration, in
// amu·Å/fs.
func (C *Conf) Momentum() [3]float64 {
	var p [3]float64
	for i, at := range C.atoms {
		for j := 0; j < 3; j++ {
			p[j] += at.Mass * C.Vels.At(i, j)
		}
	}
	return p
}

// ZeroFixed zeroes the velocities of all fixed atoms.
func (C *Conf) ZeroFixed() {
	for i, at := range C.atoms {
		if !at.Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			C.Vels.Set(i, j, 0)
		}
	}
}

// Rattle displaces every non-fixed atom by a uniform random vector of
// amplitude at most amp (Å). Useful to break symmetry before a
// relaxation, as the forces on a perfect lattice vanish by symmetry.
func (C *Conf) Rattle(amp float64, rng *rand.Rand) {
	for i, at := range C.atoms {
		if at.Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			C.Coords.Set(i, j, C.Coords.At(i, j)+amp*(2*rng.Float64()-1))
		}
	}
}
