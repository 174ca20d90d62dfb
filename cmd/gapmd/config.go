/*
 * config.go, part of gapmd.
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

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/descriptor"
	"github.com/kcl-tscm/gapmd/gap"
)

// Config is the full pipeline configuration. Unknown YAML keys are
// rejected, so a typo fails loudly instead of silently keeping a
// default.
type Config struct {
	Seed    int64  `yaml:"seed"`
	Catalog string `yaml:"catalog"` //path of the run ledger; empty disables it

	Build   BuildConfig   `yaml:"build"`
	MD      MDConfig      `yaml:"md"`
	Fit     FitConfig     `yaml:"fit"`
	Eval    EvalConfig    `yaml:"eval"`
	Inspect InspectConfig `yaml:"inspect"`
	Relax   RelaxConfig   `yaml:"relax"`
}

// BuildConfig describes the surface slab the pipeline works on.
type BuildConfig struct {
	Symbol  string  `yaml:"symbol"`
	A       float64 `yaml:"a"` //cubic lattice constant, A
	Nx      int     `yaml:"nx"`
	Ny      int     `yaml:"ny"`
	Nz      int     `yaml:"nz"`
	Vacuum  float64 `yaml:"vacuum"` //A of empty space over the surface
	Outfile string  `yaml:"outfile"`
}

// MDConfig describes one dynamics run.
type MDConfig struct {
	Oracle      string  `yaml:"oracle"`      //"sw", "tb" or "gap"
	Params      string  `yaml:"params"`      //parameter/artifact file for tb and gap
	Temperature float64 `yaml:"temperature"` //K
	Friction    float64 `yaml:"friction"`    //1/fs
	Dt          float64 `yaml:"dt"`          //fs
	Steps       int     `yaml:"steps"`
	Collect     int     `yaml:"collect"` //snapshot every this many steps
	Outfile     string  `yaml:"outfile"`
}

// DescriptorConfig selects one descriptor and its regression
// hyperparameters for a fit.
type DescriptorConfig struct {
	Family       string  `yaml:"family"` //"distance_2b", "angle_3b" or "soap"
	Cutoff       float64 `yaml:"cutoff"`
	Kernel       string  `yaml:"kernel"`
	Delta        float64 `yaml:"delta"`
	Theta        float64 `yaml:"theta"`
	Zeta         int     `yaml:"zeta"`
	NSparse      int     `yaml:"n_sparse"`
	SparseMethod string  `yaml:"sparse_method"`
	LMax         int     `yaml:"l_max"`      //soap only
	NMax         int     `yaml:"n_max"`      //soap only
	AtomSigma    float64 `yaml:"atom_sigma"` //soap only
	Normalize    bool    `yaml:"normalize"`  //soap only
}

// FitConfig describes one fitter invocation.
type FitConfig struct {
	AtFile       string             `yaml:"at_file"`
	GPFile       string             `yaml:"gp_file"`
	E0           float64            `yaml:"e0"`
	E0Auto       bool               `yaml:"e0_auto"` //obtain e0 from the MD oracle instead
	DefaultSigma [4]float64         `yaml:"default_sigma"`
	Descriptors  []DescriptorConfig `yaml:"descriptors"`
}

// EvalConfig describes an accuracy evaluation of a fitted artifact.
type EvalConfig struct {
	AtFile   string `yaml:"at_file"`
	Artifact string `yaml:"artifact"`
	Parity   string `yaml:"parity"` //parity plot basename; empty disables it
}

// InspectConfig describes a descriptor-coverage inspection of a
// trajectory database.
type InspectConfig struct {
	Infile     string           `yaml:"infile"`
	Descriptor DescriptorConfig `yaml:"descriptor"`
	Bins       int              `yaml:"bins"`
	Plot       string           `yaml:"plot"`    //histogram plot basename; empty disables it
	Outfile    string           `yaml:"outfile"` //JSON output; empty disables it
}

// RelaxConfig describes a geometry relaxation.
type RelaxConfig struct {
	Infile   string  `yaml:"infile"` //empty relaxes a freshly built slab
	Outfile  string  `yaml:"outfile"`
	FMax     float64 `yaml:"fmax"` //eV/A convergence threshold
	MaxSteps int     `yaml:"max_steps"`
}

// DefaultConfig returns the configuration of the tutorial pipeline: a
// small Si(100) slab, hot Langevin dynamics on the cheap reference
// model, a two-body fit.
func DefaultConfig() Config {
	return Config{
		Seed:    2018,
		Catalog: "gapmd_runs.db",
		Build: BuildConfig{
			Symbol:  "Si",
			A:       gapmd.SiLatticeConstant,
			Nx:      2,
			Ny:      2,
			Nz:      1,
			Vacuum:  10.0,
			Outfile: "slab.xyz",
		},
		MD: MDConfig{
			Oracle:      "sw",
			Temperature: 1000,
			Friction:    0.02,
			Dt:          1.0,
			Steps:       300,
			Collect:     5,
			Outfile:     "train.xyz",
		},
		Fit: FitConfig{
			AtFile:       "train.xyz",
			GPFile:       "gp.xml",
			E0Auto:       true,
			DefaultSigma: [4]float64{0.005, 0.2, 0, 0},
			Descriptors: []DescriptorConfig{{
				Family:       "distance_2b",
				Cutoff:       5.0,
				Kernel:       gap.SquaredExponential,
				Delta:        2.0,
				Theta:        2.5,
				NSparse:      15,
				SparseMethod: gap.SparseUniform,
			}},
		},
		Eval: EvalConfig{
			AtFile:   "train.xyz",
			Artifact: "gp.xml",
			Parity:   "parity",
		},
		Inspect: InspectConfig{
			Infile: "train.xyz",
			Descriptor: DescriptorConfig{
				Family: "distance_2b",
				Cutoff: 5.0,
			},
			Bins:    40,
			Plot:    "coverage",
			Outfile: "coverage.json",
		},
		Relax: RelaxConfig{
			Outfile:  "relaxed.xyz",
			FMax:     0.05,
			MaxSteps: 2000,
		},
	}
}

// LoadConfig reads the YAML configuration at path on top of the
// defaults, rejecting unknown keys. An empty path gives the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("can't open config: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Spec builds the descriptor the entry selects. The configured slab
// species is used where the descriptor needs one.
func (d *DescriptorConfig) Spec(symbol string) (descriptor.Spec, error) {
	switch d.Family {
	case "distance_2b":
		return descriptor.NewDistance2B(d.Cutoff, symbol)
	case "angle_3b":
		return descriptor.NewAngle3B(d.Cutoff)
	case "soap":
		return descriptor.NewSOAP(d.Cutoff, d.LMax, d.NMax, d.AtomSigma, []string{symbol}, d.Normalize)
	default:
		return nil, fmt.Errorf("unknown descriptor family %q", d.Family)
	}
}

// Opts builds the full fitter options of the entry.
func (d *DescriptorConfig) Opts(symbol string) (gap.DescriptorOpts, error) {
	spec, err := d.Spec(symbol)
	if err != nil {
		return gap.DescriptorOpts{}, err
	}
	return gap.DescriptorOpts{
		Spec:         spec,
		Kernel:       d.Kernel,
		Delta:        d.Delta,
		Theta:        d.Theta,
		Zeta:         d.Zeta,
		NSparse:      d.NSparse,
		SparseMethod: d.SparseMethod,
	}, nil
}
