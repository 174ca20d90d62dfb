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

// Package gapmd provides atomic configurations, structure builders and
// energy/force calculators for running molecular dynamics on semiconductor
// surfaces and fitting Gaussian Approximation Potentials to the results.
//
// The root package holds the core data model: Atom, Conf (an atomic
// configuration with cell and velocities), Cell, neighbor connectivity, the
// diamond-lattice slab builder and the Oracle interface that both the
// external quantum calculator driver (package quip) and the in-process
// Stillinger-Weber potential implement. Dynamics integrators live in package
// md, the trajectory database and its extended-XYZ codec in package traj,
// structural descriptors in package descriptor and the gap_fit driver plus
// accuracy metrics in package gap.
package gapmd
