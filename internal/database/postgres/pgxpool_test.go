package postgres

import (
	"context"
	"testing"

	"random-coffee/internal/config"
)

func TestDSN_SkipsEmptyParts(t *testing.T) {
	got := DSN(config.DatabaseConfig{
		DBHost:     " db ",
		DBName:     "phe",
		DBUser:     "postgres",
		DBPassword: "pw",
		DBSSLMode:  "disable",
	})
	want := "host=db user=postgres password=pw dbname=phe sslmode=disable"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected close err: %v", err)
	}
	if p.SQLDB() != nil {
		t.Fatalf("expected nil sql db")
	}
	if err := p.QueryRow(context.Background(), "SELECT 1").Scan(); err == nil {
		t.Fatalf("expected error from nil pool")
	}
}
