/*
 * catalog.go, part of gapmd.
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

// Package catalog keeps a SQLite ledger of fitting runs: which training
// file and parameters each fit used, where its artifact lives, and how
// the fitted potential scored against the reference data. The point is
// being able to answer, weeks later, which artifact came from what.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kcl-tscm/gapmd/gap"
)

// A Run is one catalogued pipeline invocation.
type Run struct {
	ID      string
	Created time.Time
	Kind    string //"fit", "eval", "pipeline"...
	Notes   string
}

// A FitRecord documents one fitter invocation.
type FitRecord struct {
	RunID  string
	AtFile string
	GPFile string
	Params string //the full fitter command line
	E0     float64
}

// An EvalRecord documents one accuracy evaluation.
type EvalRecord struct {
	RunID      string
	Oracle     string  //which artifact or parameter set was evaluated
	Frames     int
	RMSEEnergy float64 //eV/atom
	RMSEForce  float64 //eV/A, zero if not measured
	HasForce   bool
}

// Catalog is the ledger itself. It is safe for concurrent use.
type Catalog struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the catalog at path and prepares its tables.
// The path ":memory:" gives a throwaway in-memory catalog.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("gapmd/catalog: a path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// Close releases the underlying database. The catalog is unusable
// afterwards.
func (C *Catalog) Close() error {
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.db == nil {
		return nil
	}
	err := C.db.Close()
	C.db = nil
	return err
}

func (C *Catalog) getDB() (*sql.DB, error) {
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.db == nil {
		return nil, errors.New("gapmd/catalog: catalog is closed")
	}
	return C.db, nil
}

// NewRun registers a new run and returns its generated ID.
func (C *Catalog) NewRun(ctx context.Context, kind, notes string) (string, error) {
	db, err := C.getDB()
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	created := time.Now().UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created, kind, notes)
		VALUES (?, ?, ?, ?)
	`, id, created, kind, notes)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordFit attaches the parameters of a fitter invocation to a run.
// The run must exist.
func (C *Catalog) RecordFit(ctx context.Context, runID string, F *gap.Fit) error {
	db, err := C.getDB()
	if err != nil {
		return err
	}
	params, err := F.CommandLine()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO fits (run_id, at_file, gp_file, params, e0)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			at_file = excluded.at_file,
			gp_file = excluded.gp_file,
			params = excluded.params,
			e0 = excluded.e0
	`, runID, F.AtFile, F.GPFile, params, F.E0)
	return err
}

// RecordEval attaches the outcome of an accuracy evaluation to a run.
func (C *Catalog) RecordEval(ctx context.Context, runID, oracle string, frames int, cmp *gap.Comparison) error {
	db, err := C.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO evals (run_id, oracle, frames, rmse_energy, rmse_force, has_force)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, oracle) DO UPDATE SET
			frames = excluded.frames,
			rmse_energy = excluded.rmse_energy,
			rmse_force = excluded.rmse_force,
			has_force = excluded.has_force
	`, runID, oracle, frames, cmp.RMSE, cmp.ForceRMSE, cmp.HasForce)
	return err
}

// GetFit retrieves the fit record of a run, if one was recorded.
func (C *Catalog) GetFit(ctx context.Context, runID string) (FitRecord, bool, error) {
	db, err := C.getDB()
	if err != nil {
		return FitRecord{}, false, err
	}
	rec := FitRecord{RunID: runID}
	err = db.QueryRowContext(ctx, `
		SELECT at_file, gp_file, params, e0 FROM fits WHERE run_id = ?
	`, runID).Scan(&rec.AtFile, &rec.GPFile, &rec.Params, &rec.E0)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FitRecord{}, false, nil
		}
		return FitRecord{}, false, err
	}
	return rec, true, nil
}

// GetEvals retrieves the evaluation records of a run, oldest first.
func (C *Catalog) GetEvals(ctx context.Context, runID string) ([]EvalRecord, error) {
	db, err := C.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT oracle, frames, rmse_energy, rmse_force, has_force
		FROM evals WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []EvalRecord
	for rows.Next() {
		rec := EvalRecord{RunID: runID}
		if err := rows.Scan(&rec.Oracle, &rec.Frames, &rec.RMSEEnergy, &rec.RMSEForce, &rec.HasForce); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListRuns returns every catalogued run, newest first.
func (C *Catalog) ListRuns(ctx context.Context) ([]Run, error) {
	db, err := C.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, created, kind, notes FROM runs ORDER BY created DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Kind, &r.Notes); err != nil {
			return nil, err
		}
		r.Created, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("gapmd/catalog: run %s has a malformed timestamp %q", r.ID, created)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created TEXT NOT NULL,
			kind TEXT NOT NULL,
			notes TEXT
		);
		CREATE TABLE IF NOT EXISTS fits (
			run_id TEXT PRIMARY KEY REFERENCES runs(id),
			at_file TEXT NOT NULL,
			gp_file TEXT NOT NULL,
			params TEXT NOT NULL,
			e0 REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS evals (
			run_id TEXT NOT NULL REFERENCES runs(id),
			oracle TEXT NOT NULL,
			frames INTEGER NOT NULL,
			rmse_energy REAL NOT NULL,
			rmse_force REAL NOT NULL,
			has_force INTEGER NOT NULL,
			PRIMARY KEY (run_id, oracle)
		);
	`)
	return err
}
