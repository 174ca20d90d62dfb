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

package gapmd

import "errors"

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error without changing its type or wrapping it around something else.
// The decoration slice should contain a list of functions in the calling
// stack plus, for each function, any relevant information, in the format
// "FunctionName: Extra info". If passed an empty string, Decorate should
// just return the current value, not add the empty string to the slice.
type Error interface {
	error
	Decorate(string) []string
}

// The error kinds of the library. Every CError wraps one of these, so
// callers can classify failures with errors.Is without depending on the
// concrete error type of each package.
var (
	//ErrInvalidGeometry means a structure builder was given non-positive
	//or otherwise unusable lattice parameters.
	ErrInvalidGeometry = errors.New("gapmd: invalid build geometry")

	//ErrOracleUnavailable means the parameter or fitted-potential file
	//needed to construct an energy/force oracle is missing or unparseable.
	ErrOracleUnavailable = errors.New("gapmd: oracle parameter or artifact file unavailable")

	//ErrConnectivityStale means a consumer required a larger neighbor
	//cutoff than the one the connectivity was built with.
	ErrConnectivityStale = errors.New("gapmd: neighbor connectivity stale for the requested cutoff")

	//ErrInsufficientData means a statistical operation was handed an
	//empty (or too short) input.
	ErrInsufficientData = errors.New("gapmd: insufficient data")

	//ErrFitterFailure means the external fitting process exited
	//abnormally or produced an unreadable artifact.
	ErrFitterFailure = errors.New("gapmd: external fitter failed")
)

// CError is the concrete error of the root package. It wraps one of the
// error kinds above, so errors.Is(err, gapmd.ErrWhatever) works on it.
type CError struct {
	kind error
	msg  string
	deco []string
}

// NewError returns a CError of the given kind. The kind may be nil for
// errors that do not fit any of the predefined ones.
func NewError(kind error, msg string) *CError {
	return &CError{kind: kind, msg: msg}
}

func (err *CError) Error() string {
	if err.kind == nil {
		return err.msg
	}
	if err.msg == "" {
		return err.kind.Error()
	}
	return err.kind.Error() + ": " + err.msg
}

// Unwrap returns the kind of the error, for use with errors.Is.
func (err *CError) Unwrap() error {
	return err.kind
}

// Decorate adds the dec string to the decoration slice of the error and
// returns the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// errDecorate decorates err with the caller's name before returning it,
// if err implements Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
