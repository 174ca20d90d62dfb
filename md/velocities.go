/*
 * velocities.go, part of gapmd.
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
	"math"
	"math/rand"

	gapmd "github.com/kcl-tscm/gapmd"
)

// MaxwellBoltzmann assigns the non-fixed atoms velocities drawn from a
// Maxwell-Boltzmann distribution at temperature temp (K), zeroes the
// velocities of fixed atoms and removes the center-of-mass momentum of
// the free ones. Surface equilibration runs typically draw at twice the
// target temperature, since roughly half the kinetic energy flows into
// potential energy. A nil rng seeds from the global default.
func MaxwellBoltzmann(c *gapmd.Conf, temp float64, rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	for i := 0; i < c.Len(); i++ {
		at := c.Atom(i)
		if at.Fixed {
			continue
		}
		s := math.Sqrt(gapmd.KB * temp * gapmd.AccUnit / at.Mass)
		for j := 0; j < 3; j++ {
			c.Vels.Set(i, j, s*rng.NormFloat64())
		}
	}
	c.ZeroFixed()
	removeDrift(c)
}

// removeDrift subtracts the center-of-mass velocity of the free atoms, so
// the slab as a whole does not wander.
func removeDrift(c *gapmd.Conf) {
	var p [3]float64
	mass := 0.0
	for i := 0; i < c.Len(); i++ {
		at := c.Atom(i)
		if at.Fixed {
			continue
		}
		mass += at.Mass
		for j := 0; j < 3; j++ {
			p[j] += at.Mass * c.Vels.At(i, j)
		}
	}
	if mass == 0 {
		return
	}
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			c.Vels.Set(i, j, c.Vels.At(i, j)-p[j]/mass)
		}
	}
}
