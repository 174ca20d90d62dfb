/*
 * xyz.go, part of gapmd.
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

//The format written here is extended XYZ: one record per snapshot, a
//Lattice= and Properties= header per record, energy= and virial= as
//per-record scalars, and one line per atom with species, position and
//any stored per-atom arrays. It is the lingua franca of the fitting and
//evaluation programs this library drives.

package traj

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	gapmd "github.com/kcl-tscm/gapmd"
	v3 "github.com/kcl-tscm/gapmd/v3"
)

// WriteFile serializes db to the named file, one extended-XYZ record per
// snapshot, in insertion order. Names ending in .zst or .gz are
// compressed accordingly. An empty database produces an empty file.
func WriteFile(name string, db *DB) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{err.Error(), name, []string{"WriteFile"}, true}
	}
	defer f.Close()
	var w io.Writer = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return Error{err.Error(), name, []string{"WriteFile"}, true}
		}
		defer zw.Close()
		w = zw
	case strings.HasSuffix(name, ".gz"):
		gw := gzip.NewWriter(f)
		defer gw.Close()
		w = gw
	}
	if err := Write(w, db); err != nil {
		return errDecorate(err, "WriteFile: "+name)
	}
	return nil
}

// Write serializes db to w as plain extended XYZ.
func Write(w io.Writer, db *DB) error {
	for i := 0; i < db.Len(); i++ {
		if err := writeFrame(w, db.Frame(i)); err != nil {
			return errDecorate(err, fmt.Sprintf("Write: frame %d", i))
		}
	}
	return nil
}

func writeFrame(w io.Writer, f *Frame) error {
	c := f.Conf
	if _, err := fmt.Fprintf(w, "%d\n", c.Len()); err != nil {
		return Error{err.Error(), "", []string{"writeFrame"}, true}
	}
	e := c.Cell().Edges()
	header := fmt.Sprintf("Lattice=\"%.8f 0.0 0.0 0.0 %.8f 0.0 0.0 0.0 %.8f\"", e[0], e[1], e[2])
	props := "species:S:1:pos:R:3"
	if f.Forces != nil {
		props += ":force:R:3"
	}
	fixed := false
	for i := 0; i < c.Len(); i++ {
		if c.Atom(i).Fixed {
			fixed = true
			break
		}
	}
	if fixed {
		props += ":move_mask:L:1"
	}
	header += " Properties=" + props
	if f.HasEnergy {
		header += fmt.Sprintf(" energy=%.8f", f.Energy)
	}
	pbc := c.Cell().PBC()
	header += fmt.Sprintf(" pbc=\"%s %s %s\"", tf(pbc[0]), tf(pbc[1]), tf(pbc[2]))
	if f.Virial != nil {
		v := f.Virial
		header += fmt.Sprintf(" virial=\"%.8f %.8f %.8f %.8f %.8f %.8f %.8f %.8f %.8f\"",
			v[0][0], v[0][1], v[0][2], v[1][0], v[1][1], v[1][2], v[2][0], v[2][1], v[2][2])
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return Error{err.Error(), "", []string{"writeFrame"}, true}
	}
	for i := 0; i < c.Len(); i++ {
		line := fmt.Sprintf("%-2s %14.8f %14.8f %14.8f",
			c.Atom(i).Symbol, c.Coords.At(i, 0), c.Coords.At(i, 1), c.Coords.At(i, 2))
		if f.Forces != nil {
			line += fmt.Sprintf(" %14.8f %14.8f %14.8f",
				f.Forces.At(i, 0), f.Forces.At(i, 1), f.Forces.At(i, 2))
		}
		if fixed {
			//move_mask is true for atoms free to move
			line += " " + tf(!c.Atom(i).Fixed)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return Error{err.Error(), "", []string{"writeFrame"}, true}
		}
	}
	return nil
}

func tf(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// ReadFile deserializes a trajectory database from the named file,
// decompressing by suffix as WriteFile does. An empty file yields an
// empty database.
func ReadFile(name string) (*DB, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"ReadFile"}, true}
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"ReadFile"}, true}
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(name, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"ReadFile"}, true}
		}
		defer gr.Close()
		r = gr
	}
	db, err := Read(r)
	if err != nil {
		return nil, errDecorate(err, "ReadFile: "+name)
	}
	return db, nil
}

// Read deserializes a trajectory database from plain extended XYZ.
func Read(r io.Reader) (*DB, error) {
	db := NewDB()
	br := bufio.NewReader(r)
	for {
		f, err := readFrame(br)
		if err == io.EOF {
			return db, nil
		}
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("Read: frame %d", db.Len()))
		}
		db.frames = append(db.frames, f)
	}
}

// readFrame parses one extended-XYZ record. It returns io.EOF, with no
// error wrapping, if the reader is cleanly exhausted before the record
// starts.
func readFrame(br *bufio.Reader) (*Frame, error) {
	line, err := nextLine(br)
	if err != nil {
		return nil, err //io.EOF included
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, Error{"bad atom-count line: " + line, "", []string{"readFrame"}, true}
	}
	header, err := nextLine(br)
	if err != nil {
		return nil, Error{"record truncated before header", "", []string{"readFrame"}, true}
	}
	kv := splitKeyValues(header)
	cell, err := parseLattice(kv)
	if err != nil {
		return nil, errDecorate(err, "readFrame")
	}
	cols, err := parseProperties(kv["Properties"])
	if err != nil {
		return nil, errDecorate(err, "readFrame")
	}
	f := new(Frame)
	if es, ok := kv["energy"]; ok {
		if f.Energy, err = strconv.ParseFloat(es, 64); err != nil {
			return nil, Error{"bad energy value: " + es, "", []string{"readFrame"}, true}
		}
		f.HasEnergy = true
	}
	if vs, ok := kv["virial"]; ok {
		if f.Virial, err = parseVirial(vs); err != nil {
			return nil, errDecorate(err, "readFrame")
		}
	}
	atoms := make([]*gapmd.Atom, natoms)
	data := make([]float64, 3*natoms)
	var forces []float64
	if cols.force >= 0 {
		forces = make([]float64, 3*natoms)
	}
	for i := 0; i < natoms; i++ {
		line, err := nextLine(br)
		if err != nil {
			return nil, Error{fmt.Sprintf("record truncated at atom %d", i), "", []string{"readFrame"}, true}
		}
		fields := strings.Fields(line)
		if len(fields) < cols.total {
			return nil, Error{fmt.Sprintf("atom line %d has %d fields, %d expected", i, len(fields), cols.total), "", []string{"readFrame"}, true}
		}
		atoms[i] = gapmd.NewAtom(fields[cols.species])
		for j := 0; j < 3; j++ {
			if data[3*i+j], err = strconv.ParseFloat(fields[cols.pos+j], 64); err != nil {
				return nil, Error{"bad coordinate: " + fields[cols.pos+j], "", []string{"readFrame"}, true}
			}
			if cols.force >= 0 {
				if forces[3*i+j], err = strconv.ParseFloat(fields[cols.force+j], 64); err != nil {
					return nil, Error{"bad force: " + fields[cols.force+j], "", []string{"readFrame"}, true}
				}
			}
		}
		if cols.moveMask >= 0 {
			atoms[i].Fixed = fields[cols.moveMask] == "F"
		}
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, errDecorate(err, "readFrame")
	}
	f.Conf, err = gapmd.NewConf(atoms, coords, cell)
	if err != nil {
		return nil, Error{err.Error(), "", []string{"readFrame"}, true}
	}
	if forces != nil {
		if f.Forces, err = v3.NewMatrix(forces); err != nil {
			return nil, errDecorate(err, "readFrame")
		}
	}
	return f, nil
}

// nextLine returns the next non-blank line, or io.EOF if none remains.
func nextLine(br *bufio.Reader) (string, error) {
	for {
		line, err := br.ReadString('\n')
		if len(line) == 0 && err != nil {
			return "", io.EOF
		}
		if strings.TrimSpace(line) == "" {
			if err != nil {
				return "", io.EOF
			}
			continue
		}
		return strings.TrimRight(line, "\n"), nil
	}
}

// splitKeyValues parses an extended-XYZ header line: space-separated
// key=value pairs, with double quotes protecting values that contain
// spaces.
func splitKeyValues(line string) map[string]string {
	kv := make(map[string]string)
	fields := quotedFields(line)
	for _, f := range fields {
		eq := strings.Index(f, "=")
		if eq < 0 {
			continue
		}
		key := f[:eq]
		val := strings.Trim(f[eq+1:], "\"")
		kv[key] = val
	}
	return kv
}

// quotedFields splits on runs of spaces that are outside double quotes.
func quotedFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inq := false
	for _, r := range line {
		switch {
		case r == '"':
			inq = !inq
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inq:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

// parseLattice builds the cell from the Lattice and pbc header values.
// Only orthorhombic (diagonal) lattices are supported.
func parseLattice(kv map[string]string) (*gapmd.Cell, error) {
	ls, ok := kv["Lattice"]
	if !ok {
		return nil, Error{"record without Lattice", "", []string{"parseLattice"}, true}
	}
	fields := strings.Fields(ls)
	if len(fields) != 9 {
		return nil, Error{"Lattice does not hold 9 numbers: " + ls, "", []string{"parseLattice"}, true}
	}
	var l [9]float64
	var err error
	for i, f := range fields {
		if l[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, Error{"bad Lattice value: " + f, "", []string{"parseLattice"}, true}
		}
	}
	for _, i := range []int{1, 2, 3, 5, 6, 7} {
		if l[i] != 0 {
			return nil, Error{"non-orthorhombic lattice not supported: " + ls, "", []string{"parseLattice"}, true}
		}
	}
	pbc := [3]bool{true, true, true}
	if ps, ok := kv["pbc"]; ok {
		pf := strings.Fields(ps)
		if len(pf) == 3 {
			for i := 0; i < 3; i++ {
				pbc[i] = pf[i] == "T"
			}
		}
	}
	cell, err := gapmd.NewCell(l[0], l[4], l[8], pbc)
	if err != nil {
		return nil, Error{err.Error(), "", []string{"parseLattice"}, true}
	}
	return cell, nil
}

// columns holds the field offsets of the per-atom properties found in a
// Properties= header value. Absent optional properties are -1.
type columns struct {
	species  int
	pos      int
	force    int
	moveMask int
	total    int
}

func parseProperties(props string) (*columns, error) {
	if props == "" {
		return nil, Error{"record without Properties", "", []string{"parseProperties"}, true}
	}
	cols := &columns{species: -1, pos: -1, force: -1, moveMask: -1}
	fields := strings.Split(props, ":")
	if len(fields)%3 != 0 {
		return nil, Error{"malformed Properties: " + props, "", []string{"parseProperties"}, true}
	}
	off := 0
	for i := 0; i < len(fields); i += 3 {
		name := fields[i]
		n, err := strconv.Atoi(fields[i+2])
		if err != nil || n < 1 {
			return nil, Error{"malformed Properties: " + props, "", []string{"parseProperties"}, true}
		}
		switch name {
		case "species":
			cols.species = off
		case "pos":
			cols.pos = off
		case "force", "forces":
			cols.force = off
		case "move_mask":
			cols.moveMask = off
		}
		off += n
	}
	cols.total = off
	if cols.species < 0 || cols.pos < 0 {
		return nil, Error{"Properties without species or pos: " + props, "", []string{"parseProperties"}, true}
	}
	return cols, nil
}

func parseVirial(vs string) (*[3][3]float64, error) {
	fields := strings.Fields(vs)
	if len(fields) != 9 {
		return nil, Error{"virial does not hold 9 numbers: " + vs, "", []string{"parseVirial"}, true}
	}
	v := new([3][3]float64)
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, Error{"bad virial value: " + f, "", []string{"parseVirial"}, true}
		}
		v[i/3][i%3] = x
	}
	return v, nil
}
