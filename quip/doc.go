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

// Package quip drives an external QUIP-compatible evaluator binary as an
// energy/force oracle: the configuration is written as extended XYZ, the
// binary is invoked with the parameter file and init_args of the chosen
// model, and the annotated configuration it prints is parsed back into
// energy, forces and virial. Two constructors cover the two models the
// pipeline needs: a tight-binding quantum oracle (expensive, ground
// truth) and a fitted-GAP oracle (cheap, approximate). In order to use
// this package you need the quip program, built separately as part of
// the QUIP/GAP distribution.
package quip
