package result

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormatTable(t *testing.T) {
	got := Format("id, name\n1, Alice\n2, Bob", "SELECT id, name FROM client")
	want := "### 📊 Résultats de la requête\n\n" +
		"| id | name |\n" +
		"|---|---|\n" +
		"| 1 | Alice |\n" +
		"| 2 | Bob |\n" +
		"\n\n**📈 Total: 2 ligne(s)**"
	if got != want {
		t.Fatalf("Format() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatOverflow(t *testing.T) {
	lines := []string{"n, carre"}
	for i := 1; i <= 60; i++ {
		lines = append(lines, fmt.Sprintf("%d, %d", i, i*i))
	}
	got := Format(strings.Join(lines, "\n"), "SELECT n, carre FROM t")

	if n := strings.Count(got, "\n| "); n != 51 {
		t.Fatalf("table lines = %d, want 51 (header + 50 rows)", n)
	}
	if !strings.Contains(got, "| 50 | 2500 |") || strings.Contains(got, "| 51 | 2601 |") {
		t.Fatal("rows beyond the cap should be hidden")
	}
	if !strings.Contains(got, "*... et 10 autres lignes*") {
		t.Fatalf("overflow note missing:\n%s", got)
	}
	if !strings.HasSuffix(got, "**📈 Total: 60 ligne(s)**") {
		t.Fatalf("footer = %q", got[len(got)-40:])
	}
}

func TestFormatPadsAndTruncates(t *testing.T) {
	got := Format("a, b, c\n1\n1, 2, 3, 4", "SELECT a, b, c FROM t")
	if !strings.Contains(got, "| 1 |  |  |\n") {
		t.Fatalf("short row not padded:\n%s", got)
	}
	if !strings.Contains(got, "| 1 | 2 | 3 |\n") || strings.Contains(got, "| 3 | 4 |") {
		t.Fatalf("long row not truncated:\n%s", got)
	}
}

func TestFormatPassThrough(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "execution error", raw: "Erreur : Table 'shop.x' doesn't exist", want: "Erreur : Table 'shop.x' doesn't exist"},
		{name: "header only", raw: "id, name", want: "id, name"},
		{
			name: "write success",
			raw:  "Requête exécutée avec succès (3 lignes affectées)",
			want: "✅ **Requête exécutée avec succès (3 lignes affectées)**",
		},
		{
			name: "blank header",
			raw:  ", , \n1, 2",
			want: "### 📊 Résultats de la requête\n\n|  |  |  |\n|---|---|---|\n| 1 | 2 |  |\n\n\n**📈 Total: 1 ligne(s)**",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.raw, "q"); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
