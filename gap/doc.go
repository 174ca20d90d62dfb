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

// Package gap drives the external gap_fit program, which trains a sparse
// Gaussian-process regression from a serialized trajectory database to a
// persisted potential artifact, and evaluates the accuracy of fitted
// potentials against the reference data. The fit itself is entirely the
// external program's business: this package builds its flat key=value
// command line from descriptor specifications and regression
// hyperparameters, runs it to completion, and validates the artifact it
// leaves behind. Combining several descriptors in one fit composes their
// kernels additively.
package gap
