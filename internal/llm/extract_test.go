package llm

import "testing"

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "sql tagged fence",
			input:  "Voici la requête :\n```sql\nSELECT * FROM t;\n```",
			want:   "SELECT * FROM t;",
			wantOK: true,
		},
		{
			name:   "uppercase tag",
			input:  "```SQL\nSELECT id FROM users;\n```",
			want:   "SELECT id FROM users;",
			wantOK: true,
		},
		{
			name:   "multi-line tagged fence",
			input:  "```sql\nSELECT *\nFROM t\nWHERE id = 1;\n```",
			want:   "SELECT *\nFROM t\nWHERE id = 1;",
			wantOK: true,
		},
		{
			name:   "untagged select fence",
			input:  "```\nselect name from client;\n```",
			want:   "select name from client;",
			wantOK: true,
		},
		{
			name:   "untagged update fence",
			input:  "```\nUPDATE produit SET prix = 10 WHERE id = 2;\n```",
			want:   "UPDATE produit SET prix = 10 WHERE id = 2;",
			wantOK: true,
		},
		{
			name:   "create only",
			input:  "```sql\nCREATE TABLE t (id INT);\n```",
			wantOK: false,
		},
		{
			name:   "drop line only",
			input:  "DROP TABLE t;",
			wantOK: false,
		},
		{
			name:   "rejected create then bare select line",
			input:  "```sql\nCREATE TABLE t (id INT);\n```\nEnsuite :\n  SELECT * FROM t;  ",
			want:   "SELECT * FROM t;",
			wantOK: true,
		},
		{
			name:   "rejected create then untagged delete fence",
			input:  "```sql\nALTER TABLE t ADD c INT;\n```\n```\nDELETE FROM t WHERE id = 3;\n```",
			want:   "DELETE FROM t WHERE id = 3;",
			wantOK: true,
		},
		{
			name:   "delete without where is inherited",
			input:  "DELETE FROM t;",
			want:   "DELETE FROM t;",
			wantOK: true,
		},
		{
			name:   "verb without trailing whitespace is ignored",
			input:  "SELECT",
			wantOK: false,
		},
		{
			name:   "no sql",
			input:  "Je ne peux pas répondre à cette question.",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSQL(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractSQL() ok = %v, want %v (got %q)", ok, tt.wantOK, got)
			}
			if got != tt.want {
				t.Errorf("ExtractSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsStructureStatement(t *testing.T) {
	for _, q := range []string{"CREATE TABLE t (id int)", "alter table t add c int", "Drop\tTABLE t"} {
		if !IsStructureStatement(q) {
			t.Errorf("IsStructureStatement(%q) = false", q)
		}
	}
	for _, q := range []string{"SELECT 1", "CREATED", "  "} {
		if IsStructureStatement(q) {
			t.Errorf("IsStructureStatement(%q) = true", q)
		}
	}
}
