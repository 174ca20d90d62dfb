/*
 * main.go, part of gapmd.
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

// The gapmd command runs the surface-potential fitting pipeline: build
// a slab, run reference dynamics on it, collect a training database,
// fit a GAP from it with the external fitter, and measure how the fit
// holds up.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/catalog"
	"github.com/kcl-tscm/gapmd/gap"
	"github.com/kcl-tscm/gapmd/md"
	"github.com/kcl-tscm/gapmd/mdplot"
	"github.com/kcl-tscm/gapmd/quip"
	"github.com/kcl-tscm/gapmd/traj"
)

const usage = `usage: gapmd <command> [-config file.yaml]

commands:
  build     build the surface slab and write it out
  md        run dynamics on the slab, collecting a training database
  fit       fit a GAP from the training database
  eval      measure a fitted artifact against the reference data
  inspect   histogram the descriptor coverage of the training database
  relax     relax the slab geometry with FIRE
  pipeline  all of the above, in order
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("gapmd: ")
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	confpath := flags.String("config", "", "YAML configuration file; defaults are used without one")
	flags.Parse(os.Args[2:])
	cfg, err := LoadConfig(*confpath)
	if err != nil {
		log.Fatal(err)
	}
	start := time.Now()
	switch command {
	case "build":
		err = cmdBuild(&cfg)
	case "md":
		err = cmdMD(&cfg)
	case "fit":
		err = cmdFit(&cfg)
	case "eval":
		err = cmdEval(&cfg)
	case "inspect":
		err = cmdInspect(&cfg)
	case "relax":
		err = cmdRelax(&cfg)
	case "pipeline":
		err = cmdPipeline(&cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s finished in %v", command, time.Since(start).Round(time.Millisecond))
}

func buildSlab(cfg *Config) (*gapmd.Conf, error) {
	b := cfg.Build
	return gapmd.Slab(b.Symbol, b.A, b.Nx, b.Ny, b.Nz, b.Vacuum)
}

// oracleFor builds the configured reference oracle: the analytic
// Stillinger-Weber model, or an external tight-binding or GAP
// evaluator.
func oracleFor(m *MDConfig) (gapmd.Oracle, string, error) {
	switch m.Oracle {
	case "sw":
		return gapmd.NewStillingerWeber(), "sw", nil
	case "tb":
		H, err := quip.NewTightBinding(m.Params)
		return H, "tb:" + m.Params, err
	case "gap":
		H, err := quip.NewGAP(m.Params)
		return H, "gap:" + m.Params, err
	default:
		return nil, "", fmt.Errorf("unknown oracle %q", m.Oracle)
	}
}

func reportFile(name string) {
	fi, err := os.Stat(name)
	if err != nil {
		return
	}
	log.Printf("wrote %s (%s)", name, humanize.IBytes(uint64(fi.Size())))
}

func cmdBuild(cfg *Config) error {
	c, err := buildSlab(cfg)
	if err != nil {
		return err
	}
	free := 0
	for i := 0; i < c.Len(); i++ {
		if !c.Atom(i).Fixed {
			free++
		}
	}
	log.Printf("built %s slab: %d atoms, %d free", cfg.Build.Symbol, c.Len(), free)
	db := traj.NewDB()
	db.Append(c, nil)
	if err := traj.WriteFile(cfg.Build.Outfile, db); err != nil {
		return err
	}
	reportFile(cfg.Build.Outfile)
	return nil
}

// runMD runs the configured dynamics and returns the collected
// database. The initial velocity draw doubles the target temperature,
// since half of it equipartitions into the potential early on.
func runMD(cfg *Config, oracle gapmd.Oracle) (*traj.DB, error) {
	c, err := buildSlab(cfg)
	if err != nil {
		return nil, err
	}
	m := cfg.MD
	rng := rand.New(rand.NewSource(cfg.Seed))
	md.MaxwellBoltzmann(c, 2*m.Temperature, rng)
	integ, err := md.NewLangevin(m.Temperature, m.Friction, rand.NewSource(cfg.Seed+1))
	if err != nil {
		return nil, err
	}
	dyn, err := md.NewDyn(c, oracle, m.Dt, integ)
	if err != nil {
		return nil, err
	}
	db := traj.NewDB()
	if err := dyn.Attach(m.Collect, traj.Collector(db)); err != nil {
		return nil, err
	}
	logEvery := m.Steps / 10
	if logEvery < 1 {
		logEvery = 1
	}
	err = dyn.Attach(logEvery, func(step int, c *gapmd.Conf, r *gapmd.Result) error {
		log.Printf("step %6d  T = %7.1f K  E = %10.4f eV", step, c.Temperature(), r.Energy)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := dyn.Run(m.Steps); err != nil {
		return nil, err
	}
	return db, nil
}

func cmdMD(cfg *Config) error {
	oracle, name, err := oracleFor(&cfg.MD)
	if err != nil {
		return err
	}
	log.Printf("running %s steps of Langevin dynamics at %g K on %s",
		humanize.Comma(int64(cfg.MD.Steps)), cfg.MD.Temperature, name)
	db, err := runMD(cfg, oracle)
	if err != nil {
		return err
	}
	log.Printf("collected %d frames", db.Len())
	if err := traj.WriteFile(cfg.MD.Outfile, db); err != nil {
		return err
	}
	reportFile(cfg.MD.Outfile)
	return nil
}

// makeFit assembles the fitter invocation from the configuration,
// restricted to the first n descriptors (n<=0 means all of them).
func makeFit(cfg *Config, n int) (*gap.Fit, error) {
	descs := cfg.Fit.Descriptors
	if n > 0 && n < len(descs) {
		descs = descs[:n]
	}
	F := &gap.Fit{
		AtFile:       cfg.Fit.AtFile,
		GPFile:       cfg.Fit.GPFile,
		E0:           cfg.Fit.E0,
		DefaultSigma: cfg.Fit.DefaultSigma,
	}
	for i := range descs {
		opts, err := descs[i].Opts(cfg.Build.Symbol)
		if err != nil {
			return nil, err
		}
		F.Descriptors = append(F.Descriptors, opts)
	}
	if cfg.Fit.E0Auto {
		oracle, _, err := oracleFor(&cfg.MD)
		if err != nil {
			return nil, err
		}
		e0, err := gap.E0(oracle, cfg.Build.Symbol)
		if err != nil {
			return nil, err
		}
		F.E0 = e0
		log.Printf("isolated-atom energy e0 = %.6f eV", e0)
	}
	return F, nil
}

func openCatalog(cfg *Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return nil, nil
	}
	return catalog.Open(context.Background(), cfg.Catalog)
}

func runFit(cfg *Config, F *gap.Fit, kind string) (*gap.Artifact, error) {
	com, err := F.CommandLine()
	if err != nil {
		return nil, err
	}
	log.Printf("fitting: %s", com)
	art, err := F.Run()
	if err != nil {
		return nil, err
	}
	reportFile(art.Path())
	cat, err := openCatalog(cfg)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		defer cat.Close()
		ctx := context.Background()
		id, err := cat.NewRun(ctx, kind, "")
		if err != nil {
			return nil, err
		}
		if err := cat.RecordFit(ctx, id, F); err != nil {
			return nil, err
		}
		log.Printf("catalogued fit run %s", id)
	}
	return art, nil
}

func cmdFit(cfg *Config) error {
	F, err := makeFit(cfg, 0)
	if err != nil {
		return err
	}
	_, err = runFit(cfg, F, "fit")
	return err
}

func runEval(cfg *Config, artifact string, db *traj.DB) error {
	art, err := gap.LoadArtifact(artifact)
	if err != nil {
		return err
	}
	oracle, err := art.Oracle()
	if err != nil {
		return err
	}
	cmp, err := gap.Compare(db, oracle)
	if err != nil {
		return err
	}
	log.Printf("energy RMSE %.4f eV/atom over %d frames", cmp.RMSE, db.Len())
	if cmp.HasForce {
		log.Printf("force RMSE %.4f eV/A", cmp.ForceRMSE)
	}
	if cfg.Eval.Parity != "" {
		if err := mdplot.Parity(cmp.Ref, cmp.Pred, "reference vs GAP", cfg.Eval.Parity); err != nil {
			return err
		}
		reportFile(cfg.Eval.Parity + ".png")
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	if cat != nil {
		defer cat.Close()
		ctx := context.Background()
		id, err := cat.NewRun(ctx, "eval", "")
		if err != nil {
			return err
		}
		if err := cat.RecordEval(ctx, id, artifact, db.Len(), cmp); err != nil {
			return err
		}
		log.Printf("catalogued eval run %s", id)
	}
	return nil
}

func cmdEval(cfg *Config) error {
	db, err := traj.ReadFile(cfg.Eval.AtFile)
	if err != nil {
		return err
	}
	return runEval(cfg, cfg.Eval.Artifact, db)
}

func cmdRelax(cfg *Config) error {
	var c *gapmd.Conf
	var err error
	if cfg.Relax.Infile != "" {
		db, err := traj.ReadFile(cfg.Relax.Infile)
		if err != nil {
			return err
		}
		if db.Len() < 1 {
			return fmt.Errorf("%s holds no configuration", cfg.Relax.Infile)
		}
		c = db.Frame(db.Len() - 1).Conf
	} else {
		c, err = buildSlab(cfg)
		if err != nil {
			return err
		}
	}
	oracle, name, err := oracleFor(&cfg.MD)
	if err != nil {
		return err
	}
	opts := &md.FIREOpts{FMax: cfg.Relax.FMax, MaxSteps: cfg.Relax.MaxSteps}
	res, steps, err := md.FIRE(c, oracle, opts)
	if err != nil {
		return err
	}
	log.Printf("relaxed on %s in %d steps to E = %.4f eV", name, steps, res.Energy)
	db := traj.NewDB()
	db.Append(c, res)
	if err := traj.WriteFile(cfg.Relax.Outfile, db); err != nil {
		return err
	}
	reportFile(cfg.Relax.Outfile)
	return nil
}

// cmdPipeline runs the whole tutorial flow: reference MD, a first fit
// with only the leading (two-body) descriptor, then a fit with the
// full descriptor set if there is more than one, each followed by an
// evaluation, and finally a validation MD run and a relaxation on the
// fitted potential.
func cmdPipeline(cfg *Config) error {
	if err := cmdBuild(cfg); err != nil {
		return err
	}
	oracle, name, err := oracleFor(&cfg.MD)
	if err != nil {
		return err
	}
	log.Printf("reference dynamics on %s", name)
	db, err := runMD(cfg, oracle)
	if err != nil {
		return err
	}
	log.Printf("collected %d training frames", db.Len())
	if err := traj.WriteFile(cfg.Fit.AtFile, db); err != nil {
		return err
	}
	reportFile(cfg.Fit.AtFile)

	F, err := makeFit(cfg, 1)
	if err != nil {
		return err
	}
	art, err := runFit(cfg, F, "pipeline")
	if err != nil {
		return err
	}
	if err := runEval(cfg, art.Path(), db); err != nil {
		return err
	}
	if len(cfg.Fit.Descriptors) > 1 {
		F, err = makeFit(cfg, 0)
		if err != nil {
			return err
		}
		art, err = runFit(cfg, F, "pipeline")
		if err != nil {
			return err
		}
		if err := runEval(cfg, art.Path(), db); err != nil {
			return err
		}
	}

	//validation: run the same dynamics on the fitted potential
	fitted, err := art.Oracle()
	if err != nil {
		return err
	}
	log.Print("validation dynamics on the fitted potential")
	vdb, err := runMD(cfg, fitted)
	if err != nil {
		return err
	}
	temps := make([]float64, 0, vdb.Len())
	for i := 0; i < vdb.Len(); i++ {
		temps = append(temps, vdb.Frame(i).Conf.Temperature())
	}
	s := []mdplot.Series{{Label: "T (K)", Values: temps}}
	if err := mdplot.Traces(s, cfg.MD.Collect, "Temperature (K)", "GAP validation run", "validation_T"); err != nil {
		return err
	}
	reportFile("validation_T.png")

	relax := *cfg
	relax.MD.Oracle = "gap"
	relax.MD.Params = art.Path()
	return cmdRelax(&relax)
}
