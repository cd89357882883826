package llm

import (
	"strings"
	"testing"
)

func TestBuildConversationIsDeterministic(t *testing.T) {
	first := BuildConversation("DATABASE: shop", "role", "rules")
	second := BuildConversation("DATABASE: shop", "role", "rules")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("len = %d/%d, want 1", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Fatalf("system messages differ:\n%q\n%q", first[0].Content, second[0].Content)
	}
	if first[0].Role != RoleSystem {
		t.Fatalf("Role = %q", first[0].Role)
	}
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	prompt := BuildSystemPrompt("DATABASE: shop", "   ", "")
	if !strings.HasPrefix(prompt, DefaultRole+"\n") {
		t.Fatalf("prompt does not start with default role:\n%s", prompt)
	}
	if !strings.Contains(prompt, DefaultRules) {
		t.Fatal("default rules missing")
	}
}

func TestBuildSystemPromptOrder(t *testing.T) {
	prompt := BuildSystemPrompt("SCHEMA-TEXT", "  Tu es analyste.  ", "- règle unique")
	markers := []string{
		"Tu es analyste.\n",
		"Tu génères des requêtes SQL basées sur le schéma suivant :",
		"SCHEMA-TEXT",
		"- règle unique",
		`Question: "Montre tous les produits"`,
		"```sql\nSELECT * FROM produit;\n```",
		"NE JAMAIS générer de requêtes CREATE, ALTER, DROP !",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(prompt, m)
		if idx < 0 {
			t.Fatalf("marker %q missing from:\n%s", m, prompt)
		}
		if idx <= last {
			t.Fatalf("marker %q out of order", m)
		}
		last = idx
	}
	if strings.Contains(prompt, DefaultRole) {
		t.Fatal("custom role should replace the default")
	}
	if !strings.HasSuffix(prompt, "DROP !") {
		t.Fatalf("prompt not trimmed: %q", prompt[len(prompt)-10:])
	}
}

func TestWorkedExampleIsExtractable(t *testing.T) {
	prompt := BuildSystemPrompt("", "", "")
	idx := strings.Index(prompt, "Réponse:")
	got, ok := ExtractSQL(prompt[idx:])
	if !ok || got != ExampleAnswer {
		t.Fatalf("ExtractSQL() = %q, %v", got, ok)
	}
}

func TestBuildSystemPromptDefaultText(t *testing.T) {
	want := DefaultRole + "\n" +
		"Tu génères des requêtes SQL basées sur le schéma suivant :\n\n" +
		"DATABASE: shop\n\n" +
		DefaultRules + "\n\n" +
		"Exemple :\n" +
		"Question: \"Montre tous les produits\"\n" +
		"Réponse: \n" +
		"```sql\nSELECT * FROM produit;\n```\n\n" +
		"NE JAMAIS générer de requêtes CREATE, ALTER, DROP !"
	if got := BuildSystemPrompt("DATABASE: shop", "", ""); got != want {
		t.Fatalf("BuildSystemPrompt() =\n%q\nwant\n%q", got, want)
	}
}
