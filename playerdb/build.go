package playerdb

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	planner "github.com/samclaus/squadplanner"
	"go.uber.org/zap"
)

// ErrNoSourceData is returned by Build when none of the source files exist.
var ErrNoSourceData = errors.New("no source data found")

// preferredCommentSource is the price guide whose comments win over the others.
const preferredCommentSource = "sos_fanta"

// Source is one price guide for one season.
type Source struct {
	Season string // e.g. "2025_26"
	Name   string // e.g. "fantaboom"
	File   string
}

func newSource(season, name string) Source {
	return Source{Season: season, Name: name, File: name + "_" + season + ".xlsx"}
}

// DefaultSources lists the price guides the planner aggregates, newest season
// first.
var DefaultSources = []Source{
	newSource("2025_26", "fantaboom"),
	newSource("2025_26", "fantaclassic"),
	newSource("2025_26", "profeta"),
	newSource("2025_26", "sos_fanta"),
	newSource("2024_25", "fantaboom"),
	newSource("2024_25", "fantaclassic"),
	newSource("2024_25", "profeta"),
	newSource("2024_25", "sos_fanta"),
}

// Build reads every source found in dir and aggregates them. A source whose
// .xlsx file is missing may be given as a .csv with the same stem; sources
// with neither are skipped.
func Build(dir string, sources []Source, logger *zap.Logger) (Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var rows []Row
	found := 0

	for _, src := range sources {
		path, ok := locateSource(dir, src.File)
		if !ok {
			logger.Debug("Source missing, skipping", zap.String("file", src.File))
			continue
		}

		srcRows, skipped, err := ReadSource(path)
		if err != nil {
			return nil, err
		}
		if skipped > 0 {
			logger.Warn("Skipped rows with unknown role", zap.String("file", path), zap.Int("rows", skipped))
		}

		for i := range srcRows {
			srcRows[i].Source = src.Name
			srcRows[i].Season = src.Season
		}
		rows = append(rows, srcRows...)
		found++

		logger.Info("Read source", zap.String("file", path), zap.Int("rows", len(srcRows)))
	}

	if found == 0 {
		return nil, ErrNoSourceData
	}

	return Aggregate(rows, seasonsOf(sources)), nil
}

func locateSource(dir, file string) (string, bool) {
	candidates := []string{
		filepath.Join(dir, file),
		filepath.Join(dir, strings.TrimSuffix(file, filepath.Ext(file))+".csv"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, true
		}
	}
	return "", false
}

func seasonsOf(sources []Source) []string {
	var seasons []string
	seen := make(map[string]struct{})
	for _, s := range sources {
		if _, ok := seen[s.Season]; !ok {
			seen[s.Season] = struct{}{}
			seasons = append(seasons, s.Season)
		}
	}
	return seasons
}

type groupKey struct {
	name string
	role planner.Role
}

// Aggregate merges price guide rows into one entry per (name, role). Rows are
// expected in source order: the first row of a group decides the team and
// the stats of each season. Every season in seasons gets a performance entry,
// zeroed when no row covers it.
func Aggregate(rows []Row, seasons []string) Database {
	groups := make(map[groupKey][]Row)
	var keys []groupKey

	for _, r := range rows {
		k := groupKey{r.Name, r.Role}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].role < keys[j].role
	})

	db := make(Database)
	for _, k := range keys {
		db[k.role] = append(db[k.role], aggregatePlayer(groups[k], seasons))
	}
	return db
}

func aggregatePlayer(group []Row, seasons []string) Player {
	first := group[0]
	p := Player{
		Name:        first.Name,
		Team:        first.Team,
		AllPrices:   make(map[string]int),
		Performance: make(map[string]Stats),
	}

	sum := 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	fallbackComm := ""

	for _, r := range group {
		sum += r.Price
		lo = math.Min(lo, r.Price)
		hi = math.Max(hi, r.Price)

		year, _, _ := strings.Cut(r.Season, "_")
		p.AllPrices[r.Source+"_"+year] = int(r.Price)

		if _, ok := p.Performance[r.Season]; !ok {
			p.Performance[r.Season] = Stats{
				Goals:   r.Goals,
				Assists: r.Assists,
				Minutes: r.Minutes,
				Rating:  r.Rating,
			}
		}

		if r.Comm == "" {
			continue
		}
		if r.Source == preferredCommentSource {
			p.Notes.Comm = r.Comm
		} else if fallbackComm == "" {
			fallbackComm = r.Comm
		}
	}

	if p.Notes.Comm == "" {
		p.Notes.Comm = fallbackComm
	}

	for _, s := range seasons {
		if _, ok := p.Performance[s]; !ok {
			p.Performance[s] = Stats{}
		}
	}

	p.Prices = Prices{
		Min: int(lo),
		Max: int(hi),
		Avg: math.Round(sum/float64(len(group))*10) / 10,
	}

	return p
}

// Summary is a printable one-line description of db.
func Summary(db Database) string {
	parts := make([]string, 0, len(planner.Roles))
	for _, r := range planner.Roles {
		parts = append(parts, fmt.Sprintf("%s=%d", r, len(db[r])))
	}
	return strings.Join(parts, " ")
}
