/*
 * errors.go, part of gapmd.
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

package quip

import (
	"fmt"

	gapmd "github.com/kcl-tscm/gapmd"
)

// Error is the concrete error type of the driver. It fulfills
// gapmd.Error.
type Error struct {
	message   string
	inputname string //the job the failing evaluation belonged to
	extra     string
	deco      []string
	critical  bool
}

func (err Error) Error() string {
	if err.extra == "" {
		return fmt.Sprintf("quip job %s: %s", err.inputname, err.message)
	}
	return fmt.Sprintf("quip job %s: %s (%s)", err.inputname, err.message, err.extra)
}

// Decorate adds new information to the error and returns the resulting
// decoration slice.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	ErrNotRunning = "the evaluator binary did not run or exited abnormally"
	ErrCantInput  = "can't write the input configuration"
	ErrNoOutput   = "can't read the evaluator's output"
	ErrNoEnergy   = "no energy in the evaluator's output"
	ErrNoForces   = "no forces in the evaluator's output"
)

// errDecorate decorates err with the caller's name before returning it,
// if err implements gapmd.Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	err2, ok := err.(gapmd.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
