package account_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"slot_backend/internal/model"
)

func TestCreateQuery(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sqlStr, args, err := createQuery(&model.Account{Username: "Guest", Balance: decimal.RequireFromString("10000.001"), Key: "k", LastLogin: at}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sqlStr, "INSERT INTO accounts (username,balance,key,last_login) VALUES ($1,$2,$3,$4)") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if !strings.HasSuffix(sqlStr, "RETURNING id") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if len(args) != 4 || args[0] != "Guest" || args[2] != "k" {
		t.Fatalf("args = %v", args)
	}
	if b := args[1].(decimal.Decimal); b.StringFixed(2) != "10000.00" {
		t.Fatalf("balance arg = %s", b)
	}
}

func TestTouchQuery(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sqlStr, args, err := touchQuery("secret", at).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{
		"UPDATE accounts SET last_login = GREATEST($1::timestamptz, last_login + interval '1 microsecond')",
		"WHERE key = $2",
	} {
		if !strings.Contains(sqlStr, part) {
			t.Fatalf("sql %q does not contain %q", sqlStr, part)
		}
	}
	if !strings.HasSuffix(sqlStr, "RETURNING id, username, balance, key, last_login") {
		t.Fatalf("sql = %s", sqlStr)
	}
	if len(args) != 2 || args[0] != at || args[1] != "secret" {
		t.Fatalf("args = %v", args)
	}
}

func TestBalanceQueries(t *testing.T) {
	plain, args, err := balanceQuery(7).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if plain != "SELECT balance FROM accounts WHERE id = $1" || len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("sql = %s args = %v", plain, args)
	}

	locked, _, err := balanceQuery(7).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if locked != plain+" FOR UPDATE" {
		t.Fatalf("sql = %s", locked)
	}
}

func TestUpdateBalanceQuery(t *testing.T) {
	sqlStr, args, err := updateBalanceQuery(3, decimal.RequireFromString("12.345")).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if sqlStr != "UPDATE accounts SET balance = $1 WHERE id = $2" {
		t.Fatalf("sql = %s", sqlStr)
	}
	if b := args[0].(decimal.Decimal); b.StringFixed(2) != "12.35" || args[1] != int64(3) {
		t.Fatalf("args = %v", args)
	}
}
