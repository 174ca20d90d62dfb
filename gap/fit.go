/*
 * fit.go, part of gapmd.
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
	"fmt"
	"os"
	"os/exec"
	"strings"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/descriptor"
)

// The kernel (covariance) types gap_fit understands.
const (
	SquaredExponential  = "ard_se"       //per-dimension length scales
	DotProduct          = "dot_product"  //with an integer exponent
	PiecewisePolynomial = "pp"
)

// The sparsification methods.
const (
	SparseUniform = "uniform"    //uniform grid over descriptor values
	SparseRandom  = "random"     //random subset of the training points
	SparseCUR     = "cur_points" //representative subset by CUR decomposition
)

// DescriptorOpts binds one descriptor specification to its regression
// hyperparameters: kernel type, signal scale delta, and the
// sparsification of the training points.
type DescriptorOpts struct {
	Spec         descriptor.Spec
	Kernel       string
	Delta        float64 //signal scale, eV
	Theta        float64 //length scale for ard_se
	Zeta         int     //exponent for dot_product
	NSparse      int
	SparseMethod string
}

// Fragment renders the descriptor and its hyperparameters as one element
// of the gap={...} command-line block.
func (o *DescriptorOpts) Fragment() (string, error) {
	if o.Spec == nil {
		return "", fmt.Errorf("gap: DescriptorOpts without a descriptor")
	}
	if o.Delta <= 0 {
		return "", fmt.Errorf("gap: %s: non-positive delta %g", o.Spec.Family(), o.Delta)
	}
	if o.NSparse < 1 {
		return "", fmt.Errorf("gap: %s: non-positive n_sparse %d", o.Spec.Family(), o.NSparse)
	}
	frag := o.Spec.GapString()
	switch o.Kernel {
	case SquaredExponential:
		if o.Theta <= 0 {
			return "", fmt.Errorf("gap: %s: ard_se needs a positive theta, got %g", o.Spec.Family(), o.Theta)
		}
		frag += fmt.Sprintf(" covariance_type=ard_se theta_uniform=%.4f", o.Theta)
	case DotProduct:
		if o.Zeta < 1 {
			return "", fmt.Errorf("gap: %s: dot_product needs a positive zeta, got %d", o.Spec.Family(), o.Zeta)
		}
		frag += fmt.Sprintf(" covariance_type=dot_product zeta=%d", o.Zeta)
	case PiecewisePolynomial:
		frag += " covariance_type=pp"
	default:
		return "", fmt.Errorf("gap: %s: unknown covariance type %q", o.Spec.Family(), o.Kernel)
	}
	method := o.SparseMethod
	if method == "" {
		method = SparseUniform
	}
	switch method {
	case SparseUniform, SparseRandom, SparseCUR:
	default:
		return "", fmt.Errorf("gap: %s: unknown sparse method %q", o.Spec.Family(), method)
	}
	frag += fmt.Sprintf(" delta=%.4f sparse_method=%s n_sparse=%d", o.Delta, method, o.NSparse)
	return frag, nil
}

// Fit holds everything one invocation of the external fitter needs. Its
// zero value is not usable: AtFile, GPFile and at least one descriptor
// are required.
type Fit struct {
	Command      string     //the fitter binary, default "gap_fit"
	AtFile       string     //training database, extended XYZ
	GPFile       string     //output artifact path
	E0           float64    //reference energy of the isolated atom, eV
	DefaultSigma [4]float64 //expected noise in energies, forces, virials, hessians
	Descriptors  []DescriptorOpts
}

// CommandLine builds the flat key=value parameter string of the fitter.
// Multiple descriptors are joined with " : " inside the gap={} block,
// which composes their covariance kernels additively.
func (F *Fit) CommandLine() (string, error) {
	if F.AtFile == "" || F.GPFile == "" {
		return "", fmt.Errorf("gap: Fit needs both at_file and gp_file")
	}
	if len(F.Descriptors) == 0 {
		return "", fmt.Errorf("gap: Fit needs at least one descriptor")
	}
	frags := make([]string, len(F.Descriptors))
	for i := range F.Descriptors {
		frag, err := F.Descriptors[i].Fragment()
		if err != nil {
			return "", err
		}
		frags[i] = frag
	}
	command := F.Command
	if command == "" {
		command = "gap_fit"
	}
	s := F.DefaultSigma
	return fmt.Sprintf("%s at_file=%s gp_file=%s e0=%.8f default_sigma={%g %g %g %g} "+
		"energy_parameter_name=energy force_parameter_name=force sparse_jitter=1e-8 gap={%s}",
		command, F.AtFile, F.GPFile, F.E0, s[0], s[1], s[2], s[3],
		strings.Join(frags, " : ")), nil
}

// Run invokes the fitter and blocks until it finishes; a hung fit must
// be killed externally. Stdout and stderr go to GPFile+".log". A
// non-zero exit, or an artifact that fails validation afterwards, comes
// back as gapmd.ErrFitterFailure carrying the tail of the log.
func (F *Fit) Run() (*Artifact, error) {
	com, err := F.CommandLine()
	if err != nil {
		return nil, err
	}
	logfile := F.GPFile + ".log"
	command := exec.Command("sh", "-c", com+" > "+logfile+" 2>&1")
	if err := command.Run(); err != nil {
		return nil, gapmd.NewError(gapmd.ErrFitterFailure,
			fmt.Sprintf("%v; log tail: %s", err, logTail(logfile)))
	}
	art, err := LoadArtifact(F.GPFile)
	if err != nil {
		return nil, err
	}
	return art, nil
}

// logTail returns the last few lines of the fitter log, for error
// messages.
func logTail(name string) string {
	const maxLines = 5
	raw, err := os.ReadFile(name)
	if err != nil {
		return "(no log)"
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, " | ")
}
