/*
 * verlet.go, part of gapmd.
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

import gapmd "github.com/kcl-tscm/gapmd"

// VelocityVerlet is the deterministic NVE integrator: half a velocity
// kick with the old forces, a full position drift, then the second half
// kick with the forces at the new positions.
type VelocityVerlet struct{}

func (VelocityVerlet) Advance(c *gapmd.Conf, dt float64, cur *gapmd.Result, eval func() (*gapmd.Result, error)) (*gapmd.Result, error) {
	halfKick(c, dt, cur)
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			continue
		}
		for j := 0; j < 3; j++ {
			c.Coords.Set(i, j, c.Coords.At(i, j)+dt*c.Vels.At(i, j))
		}
	}
	res, err := eval()
	if err != nil {
		return nil, err
	}
	halfKick(c, dt, res)
	return res, nil
}

// halfKick advances the velocities of the non-fixed atoms by half a
// timestep under the given forces.
func halfKick(c *gapmd.Conf, dt float64, r *gapmd.Result) {
	for i := 0; i < c.Len(); i++ {
		at := c.Atom(i)
		if at.Fixed {
			continue
		}
		fac := 0.5 * dt * gapmd.AccUnit / at.Mass
		for j := 0; j < 3; j++ {
			c.Vels.Set(i, j, c.Vels.At(i, j)+fac*r.Forces.At(i, j))
		}
	}
}
