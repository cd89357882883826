package llm

import (
	"fmt"
	"strings"
)

// DefaultRole is the role sentence used when no custom role is supplied.
const DefaultRole = "Tu es un assistant expert en base de données MySQL."

// DefaultRules is the rules block used when no custom rules are supplied.
const DefaultRules = `RÈGLES IMPORTANTES :
- Réponds SEULEMENT avec la requête SQL demandée
- N'ajoute JAMAIS de CREATE TABLE, ALTER TABLE ou autres commandes de structure
- Utilise UNIQUEMENT SELECT, INSERT, UPDATE, DELETE sur les tables existantes
- Encadre toujours ta requête avec ` + "```sql et ```" + `
- Sois précis et concis
- afficher les lignes des tables affectées par la requête
- Si la requête est trop complexe, demande des précisions à l'utilisateur
- Si l'utilisateur demande la structure de la base, affiche-la clairement`

// ExampleQuestion and ExampleAnswer form the worked example embedded in the prompt.
const (
	ExampleQuestion = "Montre tous les produits"
	ExampleAnswer   = "SELECT * FROM produit;"
)

// BuildSystemPrompt assembles the system instruction from the schema text and the
// optional role/rules overrides. Blank overrides fall back to the defaults.
func BuildSystemPrompt(schema, customRole, customRules string) string {
	role := strings.TrimSpace(customRole)
	if role == "" {
		role = DefaultRole
	}
	rules := strings.TrimSpace(customRules)
	if rules == "" {
		rules = DefaultRules
	}

	prompt := fmt.Sprintf(`
%s
Tu génères des requêtes SQL basées sur le schéma suivant :

%s

%s

Exemple :
Question: "%s"
Réponse:`+" \n```sql\n%s\n```"+`

NE JAMAIS générer de requêtes CREATE, ALTER, DROP !
`, role, schema, rules, ExampleQuestion, ExampleAnswer)

	return strings.TrimSpace(prompt)
}

// BuildConversation returns a fresh transcript holding only the system message.
// It is the only way a conversation's first message is produced.
func BuildConversation(schema, customRole, customRules string) Conversation {
	return Conversation{{
		Role:    RoleSystem,
		Content: BuildSystemPrompt(schema, customRole, customRules),
	}}
}
