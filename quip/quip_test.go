/*
 * quip_test.go, part of gapmd.
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
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	gapmd "github.com/kcl-tscm/gapmd"
)

func writeTemp(Te *testing.T, name, content string) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestConstructorValidation(Te *testing.T) {
	//a missing parameter file means no oracle can be built
	_, err := NewTightBinding("no/such/file.xml")
	if !errors.Is(err, gapmd.ErrOracleUnavailable) {
		Te.Errorf("missing file: wrong error %v", err)
	}
	garbage := writeTemp(Te, "garbage.xml", "definitely } not { xml")
	if _, err := NewTightBinding(garbage); !errors.Is(err, gapmd.ErrOracleUnavailable) {
		Te.Errorf("malformed file: wrong error %v", err)
	}
	//any well-formed parameter set works for tight binding
	tb := writeTemp(Te, "dftb.xml", "<DFTB_params><slako/></DFTB_params>")
	if _, err := NewTightBinding(tb); err != nil {
		Te.Error("a well-formed parameter set was rejected:", err)
	}
	//a GAP oracle additionally needs GAP parameters in the file
	if _, err := NewGAP(tb); !errors.Is(err, gapmd.ErrOracleUnavailable) {
		Te.Errorf("a parameter set without GAP parameters should be rejected, got %v", err)
	}
	gp := writeTemp(Te, "gp.xml", `<GAP_params label="x"><gpSparse/></GAP_params>`)
	if _, err := NewGAP(gp); err != nil {
		Te.Error("a valid artifact was rejected:", err)
	}
}

func TestParseOutput(Te *testing.T) {
	out := writeTemp(Te, "job.out", `libAtoms::Hello World
some banner noise
AT 2
AT Lattice="10.0 0.0 0.0 0.0 10.0 0.0 0.0 0.0 10.0" Properties=species:S:1:pos:R:3:force:R:3 energy=-3.5 pbc="T T T"
AT Si     0.00000000     0.00000000     0.00000000     0.10000000     0.20000000     0.30000000
AT Si     2.00000000     0.00000000     0.00000000    -0.10000000    -0.20000000    -0.30000000
Energy=-3.5
`)
	res, err := parseOutput(out)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(res.Energy-(-3.5)) > 1e-9 {
		Te.Errorf("energy %f, want -3.5", res.Energy)
	}
	if res.Forces == nil {
		Te.Fatal("forces not parsed")
	}
	if math.Abs(res.Forces.At(0, 2)-0.3) > 1e-9 || math.Abs(res.Forces.At(1, 0)-(-0.1)) > 1e-9 {
		Te.Error("wrong forces parsed")
	}
}

func TestParseOutputMissingPieces(Te *testing.T) {
	noAT := writeTemp(Te, "empty.out", "just a banner\nno annotated configuration\n")
	if _, err := parseOutput(noAT); err == nil {
		Te.Error("output without AT lines should be rejected")
	}
	noEnergy := writeTemp(Te, "noe.out", `AT 1
AT Lattice="10.0 0.0 0.0 0.0 10.0 0.0 0.0 0.0 10.0" Properties=species:S:1:pos:R:3:force:R:3 pbc="T T T"
AT Si 0.0 0.0 0.0 0.0 0.0 0.0
`)
	if _, err := parseOutput(noEnergy); err == nil {
		Te.Error("output without an energy should be rejected")
	}
	noForces := writeTemp(Te, "nof.out", `AT 1
AT Lattice="10.0 0.0 0.0 0.0 10.0 0.0 0.0 0.0 10.0" Properties=species:S:1:pos:R:3 energy=-1.0 pbc="T T T"
AT Si 0.0 0.0 0.0
`)
	if _, err := parseOutput(noForces); err == nil {
		Te.Error("output without forces should be rejected")
	}
}

// TestEvaluate exercises the full round trip through the external
// binary, when one is installed.
func TestEvaluate(Te *testing.T) {
	if _, err := exec.LookPath("quip"); err != nil {
		Te.Skip("no quip binary in PATH")
	}
	params := os.Getenv("GAPMD_TB_PARAMS")
	if params == "" {
		Te.Skip("GAPMD_TB_PARAMS not set")
	}
	H, err := NewTightBinding(params)
	if err != nil {
		Te.Fatal(err)
	}
	H.SetDir(Te.TempDir())
	c, err := gapmd.Slab("Si", gapmd.SiLatticeConstant, 1, 1, 1, 8.0)
	if err != nil {
		Te.Fatal(err)
	}
	res, err := H.Evaluate(c)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Energy >= 0 {
		Te.Errorf("a bound slab should have negative energy, got %f", res.Energy)
	}
	if res.Forces == nil || res.Forces.NVecs() != c.Len() {
		Te.Error("forces missing or of the wrong shape")
	}
}
