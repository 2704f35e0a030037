package droneod

import (
	"database/sql"
	"time"

	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"
)

// DB archives estimation runs so they can be compared across filter tunings.
type DB struct {
	*sql.DB
}

// OpenDB opens (creating if needed) the archive at path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario TEXT,
			filter TEXT,
			dataset TEXT,
			dt DOUBLE,
			mean_step_us DOUBLE,
			abs_x DOUBLE, abs_z DOUBLE, abs_phi DOUBLE, abs_dist DOUBLE,
			rel_x DOUBLE, rel_z DOUBLE, rel_phi DOUBLE, rel_dist DOUBLE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS estimates (
			run_id INTEGER,
			idx INTEGER,
			t DOUBLE,
			x DOUBLE, z DOUBLE, phi DOUBLE,
			x_dot DOUBLE, z_dot DOUBLE, phi_dot DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

// SaveRun records one completed run and returns its identifier.
func (db *DB) SaveRun(scenario, filter, dataset string, dt float64, meanStep time.Duration, r ErrorReport) (int64, error) {
	res, err := db.Exec(`INSERT INTO runs
		(scenario, filter, dataset, dt, mean_step_us,
		 abs_x, abs_z, abs_phi, abs_dist, rel_x, rel_z, rel_phi, rel_dist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scenario, filter, dataset, dt, float64(meanStep.Nanoseconds())/1e3,
		r.AbsX, r.AbsZ, r.AbsPhi, r.AbsDist, r.RelX, r.RelZ, r.RelPhi, r.RelDist)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveEstimates records the estimate history of a run.
func (db *DB) SaveEstimates(runID int64, t []float64, estimates []*mat.VecDense) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO estimates
		(run_id, idx, t, x, z, phi, x_dot, z_dot, phi_dot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i, x := range estimates {
		if _, err := stmt.Exec(runID, i, t[i],
			x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3), x.AtVec(4), x.AtVec(5)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// RunReport reads back the error scalars of an archived run.
func (db *DB) RunReport(runID int64) (ErrorReport, error) {
	var r ErrorReport
	err := db.QueryRow(`SELECT abs_x, abs_z, abs_phi, abs_dist,
		rel_x, rel_z, rel_phi, rel_dist FROM runs WHERE run_id = ?`, runID).
		Scan(&r.AbsX, &r.AbsZ, &r.AbsPhi, &r.AbsDist, &r.RelX, &r.RelZ, &r.RelPhi, &r.RelDist)
	return r, err
}

// RunEstimates reads back the estimate history of an archived run in index
// order.
func (db *DB) RunEstimates(runID int64) ([]float64, []*mat.VecDense, error) {
	rows, err := db.Query(`SELECT t, x, z, phi, x_dot, z_dot, phi_dot
		FROM estimates WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var ts []float64
	var estimates []*mat.VecDense
	for rows.Next() {
		var t float64
		comps := make([]float64, 6)
		if err := rows.Scan(&t, &comps[0], &comps[1], &comps[2], &comps[3], &comps[4], &comps[5]); err != nil {
			return nil, nil, err
		}
		ts = append(ts, t)
		estimates = append(estimates, mat.NewVecDense(6, comps))
	}
	return ts, estimates, rows.Err()
}
