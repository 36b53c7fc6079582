// Package store persists squad plans, together with the role that was active
// when they were saved, in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/squad"
	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS plans (
    name TEXT PRIMARY KEY,
    budget INTEGER NOT NULL,
    active_role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS targets (
    plan TEXT NOT NULL,
    role TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    team TEXT,
    price INTEGER NOT NULL,
    PRIMARY KEY (plan, role, position)
);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes
	// writers, which SQLite wants anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlan replaces the stored plan called name.
func (s *Store) SavePlan(ctx context.Context, name string, active planner.Role, plan *squad.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans(name, budget, active_role) VALUES(?,?,?)
		 ON CONFLICT(name) DO UPDATE SET budget = excluded.budget, active_role = excluded.active_role`,
		name, plan.Budget, active.String(),
	); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM targets WHERE plan = ?`, name); err != nil {
		return fmt.Errorf("clear targets: %w", err)
	}

	for _, r := range planner.Roles {
		for i, t := range plan.Targets(r) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO targets(plan, role, position, name, team, price) VALUES(?,?,?,?,?,?)`,
				name, r.String(), i, t.Name, t.Team, t.Price,
			); err != nil {
				return fmt.Errorf("insert target: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadPlan returns the plan called name and its active role. found is false
// when no such plan exists.
func (s *Store) LoadPlan(ctx context.Context, name string) (active planner.Role, plan *squad.Plan, found bool, err error) {
	var (
		budget  int
		roleStr string
	)
	err = s.db.QueryRowContext(ctx, `SELECT budget, active_role FROM plans WHERE name = ?`, name).Scan(&budget, &roleStr)
	if err == sql.ErrNoRows {
		return 0, nil, false, nil
	}
	if err != nil {
		return 0, nil, false, fmt.Errorf("load plan: %w", err)
	}

	if active, err = planner.ParseRole(roleStr); err != nil {
		return 0, nil, false, fmt.Errorf("plan %q: %w", name, err)
	}

	plan = squad.NewPlan(budget)
	// NewPlan replaces a zero budget with the default; a stored zero is kept.
	plan.Budget = budget

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, name, team, price FROM targets WHERE plan = ? ORDER BY role, position`, name)
	if err != nil {
		return 0, nil, false, fmt.Errorf("load targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r    string
			team sql.NullString
			t    squad.Target
		)
		if err := rows.Scan(&r, &t.Name, &team, &t.Price); err != nil {
			return 0, nil, false, fmt.Errorf("scan target: %w", err)
		}
		role, err := planner.ParseRole(r)
		if err != nil {
			return 0, nil, false, fmt.Errorf("plan %q target %q: %w", name, t.Name, err)
		}
		t.Team = team.String
		if err := plan.AddTarget(role, t); err != nil {
			return 0, nil, false, fmt.Errorf("plan %q: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, false, fmt.Errorf("iterate targets: %w", err)
	}

	return active, plan, true, nil
}

// DeletePlan removes the plan called name, if any.
func (s *Store) DeletePlan(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM targets WHERE plan = ?`, name); err != nil {
		return fmt.Errorf("delete targets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListPlans returns the names of all stored plans, sorted.
func (s *Store) ListPlans(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan plan name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
