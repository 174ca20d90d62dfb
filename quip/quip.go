/*
 * quip.go, part of gapmd.
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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/traj"
)

// Handle is an Oracle backed by the external quip binary. One Handle type
// serves both models; the constructors differ only in init_args and in
// how the parameter file is validated.
type Handle struct {
	command   string
	inputname string
	dir       string
	paramFile string
	initArgs  string
	virial    bool
}

// NewTightBinding returns an oracle backed by the tight-binding model of
// the given XML parameter set. It fails with gapmd.ErrOracleUnavailable
// if the file is missing or not well-formed XML.
func NewTightBinding(paramFile string) (*Handle, error) {
	if err := checkXML(paramFile, ""); err != nil {
		return nil, err
	}
	H := newHandle(paramFile)
	H.initArgs = "TB DFTB"
	return H, nil
}

// NewGAP returns an oracle backed by a fitted GAP artifact. It fails
// with gapmd.ErrOracleUnavailable if the artifact is missing, not
// well-formed XML, or holds no GAP parameters.
func NewGAP(artifact string) (*Handle, error) {
	if err := checkXML(artifact, "GAP_params"); err != nil {
		return nil, err
	}
	H := newHandle(artifact)
	H.initArgs = "IP GAP"
	return H, nil
}

func newHandle(paramFile string) *Handle {
	H := new(Handle)
	H.command = "quip"
	H.inputname = "gapmd"
	H.dir = "."
	H.paramFile = paramFile
	return H
}

// SetName sets the job name, used for the input and output files of each
// evaluation. Concurrent evaluations in one directory need distinct
// names.
func (H *Handle) SetName(name string) {
	H.inputname = name
}

// SetCommand sets the name or path of the quip binary.
func (H *Handle) SetCommand(command string) {
	H.command = command
}

// SetDir sets the directory the input/output files are kept in.
func (H *Handle) SetDir(dir string) {
	H.dir = dir
}

// SetVirial selects whether the virial is requested from the binary.
func (H *Handle) SetVirial(v bool) {
	H.virial = v
}

// Evaluate writes c as extended XYZ, runs the binary and parses energy,
// forces and, if requested, the virial from its output.
func (H *Handle) Evaluate(c *gapmd.Conf) (*gapmd.Result, error) {
	in := filepath.Join(H.dir, H.inputname+".xyz")
	out := filepath.Join(H.dir, H.inputname+".out")
	db := traj.NewDB()
	db.Append(c, nil)
	if err := traj.WriteFile(in, db); err != nil {
		return nil, Error{ErrCantInput, H.inputname, err.Error(), []string{"Evaluate"}, true}
	}
	args := fmt.Sprintf("atoms_filename=%s param_filename=%s init_args={%s} energy forces", in, H.paramFile, H.initArgs)
	if H.virial {
		args += " virial"
	}
	com := fmt.Sprintf("%s %s > %s 2> %s.err", H.command, args, out, out)
	command := exec.Command("sh", "-c", com)
	if err := command.Run(); err != nil {
		return nil, Error{ErrNotRunning, H.inputname, err.Error(), []string{"exec.Run", "Evaluate"}, true}
	}
	res, err := parseOutput(out)
	if err != nil {
		return nil, errDecorate(err, "Evaluate")
	}
	return res, nil
}

// parseOutput extracts the annotated configuration the binary prints:
// the lines prefixed with "AT " form an extended-XYZ record carrying
// energy, forces and virial.
func parseOutput(name string) (*gapmd.Result, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{ErrNoOutput, name, err.Error(), []string{"parseOutput"}, true}
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, Error{ErrNoOutput, name, err.Error(), []string{"parseOutput"}, true}
	}
	var sb strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.HasPrefix(line, "AT ") {
			sb.WriteString(line[3:])
			sb.WriteString("\n")
		}
	}
	if sb.Len() == 0 {
		return nil, Error{ErrNoOutput, name, "no AT lines in output", []string{"parseOutput"}, true}
	}
	db, err := traj.Read(strings.NewReader(sb.String()))
	if err != nil {
		return nil, Error{ErrNoOutput, name, err.Error(), []string{"traj.Read", "parseOutput"}, true}
	}
	if db.Len() < 1 {
		return nil, Error{ErrNoOutput, name, "output holds no configuration", []string{"parseOutput"}, true}
	}
	frame := db.Frame(0)
	if !frame.HasEnergy {
		return nil, Error{ErrNoEnergy, name, "", []string{"parseOutput"}, true}
	}
	if frame.Forces == nil {
		return nil, Error{ErrNoForces, name, "", []string{"parseOutput"}, true}
	}
	return &gapmd.Result{Energy: frame.Energy, Forces: frame.Forces, Virial: frame.Virial}, nil
}

// checkXML verifies that the file exists and parses as XML and, if
// element is non-empty, that an element of that name occurs. All
// failures come back as gapmd.ErrOracleUnavailable, since an oracle
// cannot be built from the file.
func checkXML(name, element string) error {
	f, err := os.Open(name)
	if err != nil {
		return gapmd.NewError(gapmd.ErrOracleUnavailable, err.Error())
	}
	defer f.Close()
	dec := xml.NewDecoder(f)
	found := element == ""
	elements := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return gapmd.NewError(gapmd.ErrOracleUnavailable, fmt.Sprintf("%s: %v", name, err))
		}
		if se, ok := tok.(xml.StartElement); ok {
			elements++
			if se.Name.Local == element {
				found = true
			}
		}
	}
	if elements == 0 {
		return gapmd.NewError(gapmd.ErrOracleUnavailable, name+": no XML content")
	}
	if !found {
		return gapmd.NewError(gapmd.ErrOracleUnavailable,
			fmt.Sprintf("%s: no <%s> element", name, element))
	}
	return nil
}
