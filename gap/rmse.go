/*
 * rmse.go, part of gapmd.
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
	"math"

	gapmd "github.com/kcl-tscm/gapmd"
	"github.com/kcl-tscm/gapmd/traj"
)

// EnergyRMSE returns the root-mean-square deviation between two series
// of values. Empty or mismatched series are an error
// (gapmd.ErrInsufficientData), never a NaN.
func EnergyRMSE(ref, pred []float64) (float64, error) {
	if len(ref) == 0 {
		return 0, gapmd.NewError(gapmd.ErrInsufficientData, "no values to compare")
	}
	if len(ref) != len(pred) {
		return 0, gapmd.NewError(gapmd.ErrInsufficientData,
			fmt.Sprintf("series lengths differ: %d reference vs %d predicted", len(ref), len(pred)))
	}
	var acc float64
	for i, r := range ref {
		d := pred[i] - r
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(ref))), nil
}

// Comparison holds the outcome of evaluating an oracle against a
// reference database. Energies are per atom, in eV, frame by frame in
// database order.
type Comparison struct {
	Ref       []float64
	Pred      []float64
	RMSE      float64 //per-atom energy RMSE, eV
	ForceRMSE float64 //per-component force RMSE, eV/A, if HasForce
	HasForce  bool
}

// Compare evaluates the oracle on every frame of the database and
// measures its deviation from the stored reference data. Per-atom
// energies are always compared; force components are compared when
// every frame stores reference forces. Frames without a reference
// energy, or an empty database, give gapmd.ErrInsufficientData.
func Compare(db *traj.DB, oracle gapmd.Oracle) (*Comparison, error) {
	if db.Len() == 0 {
		return nil, gapmd.NewError(gapmd.ErrInsufficientData, "empty reference database")
	}
	C := new(Comparison)
	C.Ref = make([]float64, 0, db.Len())
	C.Pred = make([]float64, 0, db.Len())
	C.HasForce = true
	var facc float64
	var fn int
	for i := 0; i < db.Len(); i++ {
		frame := db.Frame(i)
		if !frame.HasEnergy {
			return nil, gapmd.NewError(gapmd.ErrInsufficientData,
				fmt.Sprintf("frame %d has no reference energy", i))
		}
		res, err := oracle.Evaluate(frame.Conf)
		if err != nil {
			return nil, errDecorate(err, "Compare")
		}
		n := float64(frame.Conf.Len())
		C.Ref = append(C.Ref, frame.Energy/n)
		C.Pred = append(C.Pred, res.Energy/n)
		if frame.Forces == nil || res.Forces == nil {
			C.HasForce = false
			continue
		}
		for j := 0; j < frame.Conf.Len(); j++ {
			for k := 0; k < 3; k++ {
				d := res.Forces.At(j, k) - frame.Forces.At(j, k)
				facc += d * d
				fn++
			}
		}
	}
	rmse, err := EnergyRMSE(C.Ref, C.Pred)
	if err != nil {
		return nil, errDecorate(err, "Compare")
	}
	C.RMSE = rmse
	if C.HasForce && fn > 0 {
		C.ForceRMSE = math.Sqrt(facc / float64(fn))
	} else {
		C.HasForce = false
	}
	return C, nil
}

// E0 obtains the reference energy of one isolated atom from the oracle,
// for the e0 parameter of a fit.
func E0(oracle gapmd.Oracle, symbol string) (float64, error) {
	c, err := gapmd.Isolated(symbol)
	if err != nil {
		return 0, errDecorate(err, "E0")
	}
	res, err := oracle.Evaluate(c)
	if err != nil {
		return 0, errDecorate(err, "E0")
	}
	return res.Energy, nil
}
