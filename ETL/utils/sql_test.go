package utils

import "testing"

func TestRebind(t *testing.T) {
	cases := []struct {
		driver string
		in     string
		want   string
	}{
		{DriverMySQL, "SELECT a FROM t WHERE b = ? AND c = ?", "SELECT a FROM t WHERE b = ? AND c = ?"},
		{DriverPostgres, "SELECT a FROM t WHERE b = ? AND c = ?", "SELECT a FROM t WHERE b = $1 AND c = $2"},
		{DriverPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, c := range cases {
		if got := Rebind(c.driver, c.in); got != c.want {
			t.Fatalf("Rebind(%s) got=%q want=%q", c.driver, got, c.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(3); got != "(?, ?, ?)" {
		t.Fatalf("Placeholders(3) got=%q", got)
	}
	if got := Placeholders(1); got != "(?)" {
		t.Fatalf("Placeholders(1) got=%q", got)
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := QuoteIdent(DriverMySQL, "timestamp"); got != "`timestamp`" {
		t.Fatalf("mysql got=%q", got)
	}
	if got := QuoteIdent("duckdb", "timestamp"); got != `"timestamp"` {
		t.Fatalf("duckdb got=%q", got)
	}
}
