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

// Package traj implements the trajectory database: an append-only,
// insertion-ordered store of configuration snapshots collected during a
// dynamics run, together with an extended-XYZ codec for exchanging it
// with the external fitting and evaluation programs. Files whose name
// ends in .zst or .gz are transparently compressed with zstd or gzip;
// anything else is written as plain text.
package traj
