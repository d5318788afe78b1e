package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Jayson Tatum", "jayson tatum"},
		{"diacritics", "Luka Dončić", "luka doncic"},
		{"jr suffix", "Gary Trent Jr.", "gary trent"},
		{"sr suffix", "Tim Hardaway Sr", "tim hardaway"},
		{"roman suffix", "Trey Murphy III", "trey murphy"},
		{"periods", "P.J. Washington", "pj washington"},
		{"whitespace", "  Jalen  Brunson  ", "jalen brunson"},
		{"suffix only name kept", "Jr", "jr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "Jayson Tatum", "Jayson Tatum", true},
		{"suffix vs none", "Gary Trent Jr.", "Gary Trent", true},
		{"diacritics", "Luka Doncic", "Luka Dončić", true},
		{"initial", "K. Knueppel", "Kyle Knueppel", true},
		{"initial reversed", "Kyle Knueppel", "K Knueppel", true},
		{"wrong initial", "J. Knueppel", "Kyle Knueppel", false},
		{"different last name", "Jayson Tatum", "Jayson Brown", false},
		{"same last name different first", "Jaylen Brown", "Bruce Brown", false},
		{"empty", "", "Jayson Tatum", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.a, tt.b); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchTeam(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		team     string
		want     bool
	}{
		{"exact", "Boston Celtics", "Boston Celtics", true},
		{"fragment in full", "Trail Blazers", "Portland Trail Blazers", true},
		{"full in fragment", "Portland Trail Blazers", "Trail Blazers", true},
		{"case", "boston celtics", "Boston Celtics", true},
		{"different", "Miami Heat", "Boston Celtics", false},
		{"empty fragment", "", "Boston Celtics", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchTeam(tt.fragment, tt.team); got != tt.want {
				t.Errorf("MatchTeam(%q, %q) = %v, want %v", tt.fragment, tt.team, got, tt.want)
			}
		})
	}
}
