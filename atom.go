/*
 * atom.go, part of gapmd.
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

// Atom contains the per-atom data except for the coordinates and
// velocities, which live in matrices owned by the Conf.
type Atom struct {
	Symbol string
	Mass   float64 //amu
	Fixed  bool    //position constrained during dynamics and relaxation
	Tag    int     //free for the caller, not interpreted by the library
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("gapmd: attempted to copy a nil atom")
	}
	newat := new(Atom)
	*newat = *A
	return newat
}

// NewAtom returns an atom of the given element with its standard atomic
// mass. Unknown symbols get a zero mass, which the Conf constructor
// rejects, so a typo surfaces early.
func NewAtom(symbol string) *Atom {
	return &Atom{Symbol: symbol, Mass: symbolMass[symbol]}
}

// symbolMass contains the standard atomic masses, in amu, of the elements
// this library is normally used with. Extend as needed.
var symbolMass = map[string]float64{
	"H":  1.008,
	"He": 4.0026,
	"Li": 6.94,
	"B":  10.81,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Na": 22.990,
	"Mg": 24.305,
	"Al": 26.982,
	"Si": 28.085,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"Ge": 72.630,
	"Ga": 69.723,
	"As": 74.922,
	"Ag": 107.87,
	"Au": 196.97,
}

// AtomicMass returns the standard atomic mass of the given element symbol
// and whether the symbol is known to the library.
func AtomicMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

var symbolZ = map[string]int{
	"H": 1, "He": 2, "Li": 3, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17,
	"Ga": 31, "Ge": 32, "As": 33, "Ag": 47, "Au": 79,
}

// AtomicNumber returns the atomic number of the given element symbol and
// whether the symbol is known to the library.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := symbolZ[symbol]
	return z, ok
}
