// Package playerdb holds the aggregated players database the planner shows in
// its player pool: one entry per player and role, with auction prices collected
// from several price guides over the last seasons.
package playerdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	planner "github.com/samclaus/squadplanner"
)

// Prices summarises a player's price across every source and season.
type Prices struct {
	Min int     `json:"min"`
	Max int     `json:"max"`
	Avg float64 `json:"avg"`
}

// Stats is one season of on-pitch performance.
type Stats struct {
	Goals   int     `json:"goals"`
	Assists int     `json:"assists"`
	Minutes int     `json:"minutes"`
	Rating  float64 `json:"rating"`
}

type Notes struct {
	Comm string `json:"comm"`
}

// Player is a database entry. JSON field names follow players_database.json,
// which the planner front end also reads.
type Player struct {
	Name   string `json:"nome"`
	Team   string `json:"team"`
	Prices Prices `json:"prezzi"`

	// AllPrices maps "<source>_<year>" to the price that source listed.
	AllPrices map[string]int `json:"allPrices"`

	// Performance is keyed by season, e.g. "2025_26".
	Performance map[string]Stats `json:"performance"`
	Notes       Notes            `json:"notes"`
}

// Database groups players by role.
type Database map[planner.Role][]Player

// Load reads a players_database.json file.
func Load(path string) (Database, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read players database: %w", err)
	}

	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("decode players database %s: %w", path, err)
	}
	return db, nil
}

// Save writes the database as indented JSON, leaving non-ASCII names as they
// are.
func (db Database) Save(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(db); err != nil {
		return fmt.Errorf("encode players database: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write players database: %w", err)
	}
	return nil
}

// Pool returns a copy of r's players sorted by name.
func (db Database) Pool(r planner.Role) []Player {
	pool := append([]Player{}, db[r]...)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Name < pool[j].Name
	})
	return pool
}

// Lookup finds a player of role r by name, ignoring case.
func (db Database) Lookup(r planner.Role, name string) (Player, bool) {
	name = strings.TrimSpace(name)
	for _, p := range db[r] {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Player{}, false
}

// Len returns the number of entries across all roles.
func (db Database) Len() int {
	n := 0
	for _, players := range db {
		n += len(players)
	}
	return n
}
