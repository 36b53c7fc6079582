package playerdb

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	planner "github.com/samclaus/squadplanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadSourceCSVNormalizesHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profeta_2025_26.csv")
	writeFile(t, path, "Nome,Ruolo,Squadra,Prezzo,Gol,Ass,MV,Commento\n"+
		"Lautaro,A,Inter,120,24,3,\"7,1\",top\n"+
		"Sommer,p,Inter,15,,,,\n"+
		"Nobody,X,None,1,0,0,0,\n"+
		",,,,,,,\n")

	rows, skipped, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{
		Name: "Lautaro", Team: "Inter", Role: planner.RoleForward, Price: 120,
		Goals: 24, Assists: 3, Rating: 7.1, Comm: "top",
	}, rows[0])
	assert.Equal(t, planner.RoleGoalkeeper, rows[1].Role)
	assert.Zero(t, rows[1].Goals)
}

func TestReadSourceWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fantaboom_2025_26.xlsx")
	writeWorkbook(t, path, [][]any{
		{"NOME", "RUOLO", "PREZZO", "MINUTI"},
		{"Barella", "C", 35.5, 2900},
		{"Dimarco", "D"},
	})

	rows, skipped, err := ReadSource(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, 35.5, rows[0].Price)
	assert.Equal(t, 2900, rows[0].Minutes)
	assert.Equal(t, "", rows[0].Team)
	assert.Zero(t, rows[1].Price)
}

func TestReadSourceErrors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing_price.csv")
	writeFile(t, missing, "nome,ruolo\nSommer,P\n")
	_, _, err := ReadSource(missing)
	assert.ErrorContains(t, err, `missing column "price"`)

	badPrice := filepath.Join(dir, "bad_price.csv")
	writeFile(t, badPrice, "nome,ruolo,prezzo\nSommer,P,cheap\n")
	_, _, err = ReadSource(badPrice)
	assert.ErrorContains(t, err, "line 2")

	_, _, err = ReadSource(filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	rows := []Row{
		{Name: "Lautaro", Team: "Inter", Role: planner.RoleForward, Price: 120, Goals: 24, Comm: "reliable", Source: "fantaboom", Season: "2025_26"},
		{Name: "Lautaro", Team: "Inter FC", Role: planner.RoleForward, Price: 115.9, Goals: 99, Source: "sos_fanta", Season: "2025_26", Comm: "captain"},
		{Name: "Lautaro", Role: planner.RoleForward, Price: 100, Goals: 12, Source: "profeta", Season: "2024_25"},
		{Name: "Kean", Role: planner.RoleForward, Price: 60, Source: "fantaboom", Season: "2025_26", Comm: "rising"},
		{Name: "Barella", Role: planner.RoleMidfielder, Price: 35, Source: "fantaboom", Season: "2024_25"},
	}

	db := Aggregate(rows, []string{"2025_26", "2024_25"})

	forwards := db[planner.RoleForward]
	require.Len(t, forwards, 2)
	assert.Equal(t, "Kean", forwards[0].Name)

	lautaro := forwards[1]
	assert.Equal(t, "Inter", lautaro.Team)
	assert.Equal(t, Prices{Min: 100, Max: 120, Avg: 112}, lautaro.Prices)
	assert.Equal(t, map[string]int{
		"fantaboom_2025": 120,
		"sos_fanta_2025": 115,
		"profeta_2024":   100,
	}, lautaro.AllPrices)
	assert.Equal(t, 24, lautaro.Performance["2025_26"].Goals)
	assert.Equal(t, 12, lautaro.Performance["2024_25"].Goals)
	assert.Equal(t, "captain", lautaro.Notes.Comm)

	kean := forwards[0]
	assert.Equal(t, "rising", kean.Notes.Comm)
	assert.Equal(t, Stats{}, kean.Performance["2024_25"])

	require.Len(t, db[planner.RoleMidfielder], 1)
	assert.Empty(t, db[planner.RoleGoalkeeper])
}

func TestAggregateRoundsAverage(t *testing.T) {
	rows := []Row{
		{Name: "A", Role: planner.RoleDefender, Price: 1, Season: "2025_26", Source: "x"},
		{Name: "A", Role: planner.RoleDefender, Price: 2, Season: "2025_26", Source: "y"},
		{Name: "A", Role: planner.RoleDefender, Price: 2, Season: "2025_26", Source: "z"},
	}
	db := Aggregate(rows, nil)
	assert.Equal(t, 1.7, db[planner.RoleDefender][0].Prices.Avg)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "fantaboom_2025_26.xlsx"), [][]any{
		{"Nome", "Ruolo", "Prezzo"},
		{"Kean", "A", 60},
	})
	writeFile(t, filepath.Join(dir, "sos_fanta_2024_25.csv"), "nome,ruolo,prezzo,commento\nKean,A,20,breakout\n")

	db, err := Build(dir, DefaultSources, nil)
	require.NoError(t, err)

	kean, ok := db.Lookup(planner.RoleForward, "kean")
	require.True(t, ok)
	assert.Equal(t, Prices{Min: 20, Max: 60, Avg: 40}, kean.Prices)
	assert.Equal(t, "breakout", kean.Notes.Comm)
	assert.Len(t, kean.Performance, 2)
	assert.Equal(t, "P=0 D=0 C=0 A=1", Summary(db))

	_, err = Build(t.TempDir(), DefaultSources, nil)
	assert.ErrorIs(t, err, ErrNoSourceData)
}

func TestSaveLoad(t *testing.T) {
	db := Database{
		planner.RoleGoalkeeper: {
			{Name: "Çağlar", Prices: Prices{Min: 1, Max: 2, Avg: 1.5}, AllPrices: map[string]int{}, Performance: map[string]Stats{}},
		},
	}
	path := filepath.Join(t.TempDir(), "players_database.json")
	require.NoError(t, db.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"P": [`)
	assert.Contains(t, string(raw), `"nome": "Çağlar"`)

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, db, back)

	_, err = Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestPoolAndLookup(t *testing.T) {
	db := Database{
		planner.RoleDefender: {{Name: "Dimarco"}, {Name: "Bastoni"}, {Name: "Bremer"}},
	}

	pool := db.Pool(planner.RoleDefender)
	assert.Equal(t, "Bastoni", pool[0].Name)
	assert.Equal(t, "Dimarco", db[planner.RoleDefender][0].Name, "pool must not reorder the database")
	assert.Empty(t, db.Pool(planner.RoleForward))

	_, ok := db.Lookup(planner.RoleDefender, " bremer ")
	assert.True(t, ok)
	_, ok = db.Lookup(planner.RoleForward, "Bremer")
	assert.False(t, ok)
	assert.Equal(t, 3, db.Len())
}
