package dialect

import "testing"

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		d    Dialect
		name string
		want string
	}{
		{Postgres, "users", `"users"`},
		{Postgres, `wei"rd`, `"wei""rd"`},
		{SQLite, "users", `"users"`},
		{MySQL, "users", "`users`"},
		{MySQL, "wei`rd", "`wei``rd`"},
	}
	for _, tt := range tests {
		if got := tt.d.QuoteIdentifier(tt.name); got != tt.want {
			t.Errorf("%s.QuoteIdentifier(%q) = %q, want %q", tt.d.Name(), tt.name, got, tt.want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Postgres.Placeholder(1); got != "$1" {
		t.Errorf("Postgres.Placeholder(1) = %q, want $1", got)
	}
	if got := Postgres.Placeholder(12); got != "$12" {
		t.Errorf("Postgres.Placeholder(12) = %q, want $12", got)
	}
	if got := SQLite.Placeholder(5); got != "?" {
		t.Errorf("SQLite.Placeholder(5) = %q, want ?", got)
	}
	if got := MySQL.Placeholder(5); got != "?" {
		t.Errorf("MySQL.Placeholder(5) = %q, want ?", got)
	}
}

func TestBooleanLiteral(t *testing.T) {
	if Postgres.BooleanLiteral(true) != "TRUE" || Postgres.BooleanLiteral(false) != "FALSE" {
		t.Errorf("Postgres boolean literals wrong")
	}
	if MySQL.BooleanLiteral(true) != "TRUE" || MySQL.BooleanLiteral(false) != "FALSE" {
		t.Errorf("MySQL boolean literals wrong")
	}
	if SQLite.BooleanLiteral(true) != "1" || SQLite.BooleanLiteral(false) != "0" {
		t.Errorf("SQLite boolean literals wrong")
	}
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		name   string
		d      Dialect
		limit  string
		offset string
		want   string
	}{
		{"postgres none", Postgres, "", "", ""},
		{"postgres limit only", Postgres, "10", "", "LIMIT 10"},
		{"postgres both", Postgres, "10", "20", "LIMIT 10 OFFSET 20"},
		{"postgres offset only", Postgres, "", "20", "OFFSET 20"},

		{"sqlite none", SQLite, "", "", ""},
		{"sqlite limit only", SQLite, "10", "", "LIMIT 10"},
		{"sqlite both", SQLite, "10", "20", "LIMIT 10 OFFSET 20"},
		{"sqlite offset only", SQLite, "", "20", "LIMIT -1 OFFSET 20"},

		{"mysql none", MySQL, "", "", ""},
		{"mysql limit only", MySQL, "10", "", "LIMIT 10"},
		{"mysql both", MySQL, "10", "20", "LIMIT 10 OFFSET 20"},
		{"mysql offset only", MySQL, "", "20", "LIMIT 18446744073709551615 OFFSET 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.LimitOffset(tt.limit, tt.offset); got != tt.want {
				t.Errorf("LimitOffset(%q, %q) = %q, want %q", tt.limit, tt.offset, got, tt.want)
			}
		})
	}
}

func TestConcat(t *testing.T) {
	parts := []string{"'%'", "$1", "'%'"}
	if got := Postgres.Concat(parts); got != `('%' || $1 || '%')` {
		t.Errorf("Postgres.Concat(%v) = %q", parts, got)
	}
	if got := SQLite.Concat(parts); got != `('%' || $1 || '%')` {
		t.Errorf("SQLite.Concat(%v) = %q", parts, got)
	}
	if got := MySQL.Concat(parts); got != `CONCAT('%', $1, '%')` {
		t.Errorf("MySQL.Concat(%v) = %q", parts, got)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Dialect
		wantOK  bool
	}{
		{"postgres", Postgres, true},
		{"sqlite", SQLite, true},
		{"mysql", MySQL, true},
		{"oracle", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := ByName(tt.name)
		if ok != tt.wantOK {
			t.Errorf("ByName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
