package gamestate_repo

import (
	"strings"
	"testing"

	"slot_backend/internal/model"
)

func testState() *model.GameState {
	return &model.GameState{AccountID: 5, GameID: "rock-climber", Bet: 10, CoinValue: model.DefaultCoinValue}
}

func TestCreateQueryIgnoresConflict(t *testing.T) {
	sqlStr, args, err := insertQuery(testState(), []byte("null")).
		Suffix("ON CONFLICT (" + colAccountID + ", " + colGameID + ") DO NOTHING").
		ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sqlStr, "INSERT INTO gamestates (user_id,game_id,bet,coin_value,reels) VALUES ($1,$2,$3,$4,$5)") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if !strings.HasSuffix(sqlStr, "ON CONFLICT (user_id, game_id) DO NOTHING") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if len(args) != 5 || args[0] != int64(5) || args[1] != "rock-climber" || args[2] != 10 {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectQuery(t *testing.T) {
	sqlStr, args, err := selectQuery(5, "rock-climber").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sqlStr, "SELECT bet, coin_value, reels FROM gamestates WHERE ") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if !strings.Contains(sqlStr, "user_id = $") || !strings.Contains(sqlStr, "game_id = $") || !strings.Contains(sqlStr, " AND ") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestUpdateQuery(t *testing.T) {
	sqlStr, args, err := updateQuery(testState(), []byte("[[1]]")).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sqlStr, "UPDATE gamestates SET bet = $1, coin_value = $2, reels = $3 WHERE ") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if len(args) != 5 || string(args[2].([]byte)) != "[[1]]" {
		t.Fatalf("args = %v", args)
	}
}
