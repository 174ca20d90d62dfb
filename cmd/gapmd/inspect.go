/*
 * inspect.go, part of gapmd.
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
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/descriptor"
	"github.com/kcl-tscm/gapmd/histo"
	"github.com/kcl-tscm/gapmd/mdplot"
	"github.com/kcl-tscm/gapmd/traj"
)

// coverage evaluates the descriptor on every frame of the database and
// bins the values into one histogram per vector component, each sample
// weighted by its cutoff weight. The bin range spans the observed
// values.
func coverage(db *traj.DB, spec descriptor.Spec, bins int) (*histo.Set, error) {
	if db.Len() == 0 {
		return nil, gapmd.NewError(gapmd.ErrInsufficientData, "empty database")
	}
	if bins < 1 {
		return nil, fmt.Errorf("need at least one bin, got %d", bins)
	}
	all := make([][]descriptor.Item, db.Len())
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < db.Len(); i++ {
		frame := db.Frame(i)
		nb, err := gapmd.NewNeighbors(frame.Conf, spec.Cutoff())
		if err != nil {
			return nil, err
		}
		items, err := spec.Compute(frame.Conf, nb)
		if err != nil {
			return nil, err
		}
		all[i] = items
		for _, it := range items {
			for _, v := range it.Vector {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
	}
	if min > max {
		return nil, gapmd.NewError(gapmd.ErrInsufficientData, "no descriptor values inside the cutoff")
	}
	if max == min {
		max = min + 1e-9
	}
	//the top divider is exclusive, so the largest value needs headroom
	max = math.Nextafter(max, math.Inf(1))
	set := histo.NewSet(spec.Dim(), histo.Uniform(min, max, bins))
	for _, items := range all {
		if err := set.Accumulate(items); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// cmdInspect bins the descriptor values of a trajectory database, to
// show what region of descriptor space the training data covers before
// a fit is paid for.
func cmdInspect(cfg *Config) error {
	db, err := traj.ReadFile(cfg.Inspect.Infile)
	if err != nil {
		return err
	}
	spec, err := cfg.Inspect.Descriptor.Spec(cfg.Build.Symbol)
	if err != nil {
		return err
	}
	set, err := coverage(db, spec, cfg.Inspect.Bins)
	if err != nil {
		return err
	}
	total := 0.0
	for i := 0; i < set.Components(); i++ {
		total += set.Component(i).Total()
	}
	log.Printf("binned %s values from %d frames, total weight %.2f",
		spec.Family(), db.Len(), total)
	if cfg.Inspect.Outfile != "" {
		raw, err := json.Marshal(set)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Inspect.Outfile, raw, 0644); err != nil {
			return err
		}
		reportFile(cfg.Inspect.Outfile)
	}
	if cfg.Inspect.Plot != "" {
		//only the leading components; a soap vector would mean hundreds
		//of figures, and the JSON carries them all anyway
		n := set.Components()
		if n > 3 {
			n = 3
		}
		for i := 0; i < n; i++ {
			name := cfg.Inspect.Plot
			if set.Components() > 1 {
				name = fmt.Sprintf("%s_%d", name, i)
			}
			title := fmt.Sprintf("%s coverage", spec.Family())
			if err := mdplot.Histogram(set.Component(i), spec.Family(), title, name); err != nil {
				return err
			}
			reportFile(name + ".png")
		}
	}
	return nil
}
