package search

import "testing"

func TestPatterns(t *testing.T) {
	if got := Prefix(" Ca"); got != "Ca%" {
		t.Fatalf("Prefix: got %q", got)
	}
	if got := Prefix("100%_"); got != `100\%\_%` {
		t.Fatalf("Prefix escape: got %q", got)
	}
	if got := Fragment("acme  corp"); got != "%acme%corp%" {
		t.Fatalf("Fragment: got %q", got)
	}
	if got := Fragment("   "); got != "" {
		t.Fatalf("blank Fragment: got %q", got)
	}
}

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, s string
		want       bool
	}{
		{"ca%", "Cash", true},
		{"ca%", "Checking", false},
		{"%acme%corp%", "ACME Widget Corporation", true},
		{"%corp%acme%", "ACME Widget Corporation", false},
		{`100\%%`, "100% juice", true},
		{`100\%%`, "1000 juice", false},
		{"c_sh", "cash", true},
		{"c_sh", "crash", false},
		{"%", "", true},
	}
	for _, tc := range cases {
		if got := Match(tc.pattern, tc.s); got != tc.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.s, got, tc.want)
		}
	}
}
