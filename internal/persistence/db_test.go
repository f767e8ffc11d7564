package persistence

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/talgya/hexclash/internal/battle"
	"github.com/talgya/hexclash/internal/units"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "battles.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(rounds int) battle.Result {
	return battle.Result{
		BattleID:   uuid.New(),
		Winner:     units.Hero,
		Rounds:     rounds,
		Experience: 40,
		EnemyPower: 52,
		Loot:       battle.RarityUncommon,
		Units: []battle.UnitReport{
			{ID: 0, Name: "Swordsman", Side: units.Hero, Start: 5, Left: 4, DamageDealt: 30, DamageTaken: 12},
			{ID: 1, Name: "shadowleaf_wolf", Side: units.Enemy, Start: 4, Left: 0, DamageTaken: 30, Kills: 1},
		},
		Log: []battle.Entry{
			{Round: 1, Kind: battle.KindRound, Text: "Round 1 begins"},
			{Round: 1, Kind: battle.KindAttack, Actor: 0, Target: 1, Amount: 30, Text: "Swordsman attacks"},
			{Round: 2, Kind: battle.KindDeath, Actor: 1, Text: "shadowleaf_wolf is destroyed"},
		},
	}
}

func TestSaveAndLoadBattle(t *testing.T) {
	db := openTestDB(t)
	r := sampleResult(2)
	if err := db.SaveBattle(r); err != nil {
		t.Fatal(err)
	}

	rec, err := db.Battle(r.BattleID.String())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Winner != "hero" || rec.Rounds != 2 || rec.Experience != 40 || rec.Loot != "uncommon" {
		t.Fatalf("record = %+v", rec)
	}
	if len(rec.Units) != 2 || rec.Units[1].Name != "shadowleaf_wolf" || rec.Units[1].Kills != 1 {
		t.Fatalf("units = %+v", rec.Units)
	}
	if rec.Summary != r.Summary() {
		t.Fatalf("summary = %q, want %q", rec.Summary, r.Summary())
	}

	events, err := db.BattleEvents(r.BattleID.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != len(r.Log) {
		t.Fatalf("got %d events, want %d", len(events), len(r.Log))
	}
	for i, e := range events {
		if e != r.Log[i] {
			t.Errorf("event %d = %+v, want %+v", i, e, r.Log[i])
		}
	}
}

func TestSaveBattleTwiceReplaces(t *testing.T) {
	db := openTestDB(t)
	r := sampleResult(2)
	if err := db.SaveBattle(r); err != nil {
		t.Fatal(err)
	}
	r.Rounds = 3
	if err := db.SaveBattle(r); err != nil {
		t.Fatal(err)
	}
	n, err := db.CountBattles()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	events, _ := db.BattleEvents(r.BattleID.String())
	if len(events) != len(r.Log) {
		t.Fatalf("events duplicated: %d", len(events))
	}
}

func TestRecentBattles(t *testing.T) {
	db := openTestDB(t)
	var ids []string
	for i := 1; i <= 4; i++ {
		r := sampleResult(i)
		ids = append(ids, r.BattleID.String())
		if err := db.SaveBattle(r); err != nil {
			t.Fatal(err)
		}
	}
	recent, err := db.RecentBattles(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d battles, want 2", len(recent))
	}
	if recent[0].ID != ids[3] || recent[1].ID != ids[2] {
		t.Fatalf("order = %s, %s", recent[0].ID, recent[1].ID)
	}
}

func TestMissingBattle(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Battle(uuid.NewString()); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("err = %v, want ErrBattleNotFound", err)
	}
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveMeta("last_seed", "42"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_seed", "43"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMeta("last_seed")
	if err != nil {
		t.Fatal(err)
	}
	if v != "43" {
		t.Fatalf("meta = %q, want 43", v)
	}
}
