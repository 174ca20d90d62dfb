/*
 * doc.go, part of gapmd.
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

// Package md advances atomic configurations through time. It provides a
// deterministic velocity-Verlet integrator, a stochastic Langevin
// thermostat, Maxwell-Boltzmann velocity initialization, a periodic
// observer mechanism for monitoring and trajectory collection, and FIRE
// geometry relaxation. The step loop is strictly sequential: every step
// queries the oracle exactly once at the updated positions, and
// observers fire after the update, in registration order.
package md
