/*
 * artifact.go, part of gapmd.
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

package gap

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/quip"
)

// Artifact is a validated, persisted fit: the XML parameter file the
// fitter leaves behind. It survives process restarts; rebuilding an
// oracle from it needs no refit.
type Artifact struct {
	path string
}

// LoadArtifact validates the file at path as a fit artifact: it must
// exist, parse as XML and carry a GAP_params element. Anything else
// comes back as gapmd.ErrFitterFailure.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gapmd.NewError(gapmd.ErrFitterFailure, err.Error())
	}
	defer f.Close()
	dec := xml.NewDecoder(f)
	found := false
	elements := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gapmd.NewError(gapmd.ErrFitterFailure, fmt.Sprintf("%s: %v", path, err))
		}
		if se, ok := tok.(xml.StartElement); ok {
			elements++
			if se.Name.Local == "GAP_params" {
				found = true
			}
		}
	}
	if elements == 0 {
		return nil, gapmd.NewError(gapmd.ErrFitterFailure, path+": no XML content")
	}
	if !found {
		return nil, gapmd.NewError(gapmd.ErrFitterFailure, path+": no <GAP_params> element")
	}
	return &Artifact{path: path}, nil
}

// Path returns the location of the artifact file.
func (A *Artifact) Path() string { return A.path }

// Oracle builds an evaluator from the artifact. The returned oracle is
// as pure as the artifact: identical configurations give identical
// results for as long as the file is left alone.
func (A *Artifact) Oracle() (*quip.Handle, error) {
	H, err := quip.NewGAP(A.path)
	if err != nil {
		return nil, errDecorate(err, "Oracle")
	}
	return H, nil
}

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
