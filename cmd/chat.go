package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/llm"
	"github.com/JonMunkholm/WebDbAssistant/internal/session"
)

const chatHelp = `Commandes :
  /reset           nouvelle conversation
  /schema          structure de la base
  /exec <sql>      exécuter une requête
  /role <texte>    rôle personnalisé
  /rules <texte>   règles personnalisées
  /auto on|off     exécution automatique
  /model <nom>     changer de modèle
  /quit            quitter`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `chat opens a conversation with the model in the terminal. Plain lines are sent to
the model; lines starting with / are commands. Type /help to list them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newComponents()
		opts := defaultOptions()
		if opts.APIKey == "" {
			key, err := promptAPIKey()
			if err != nil {
				return err
			}
			opts.APIKey = key
		}

		repl := &chat{service: c.service, state: session.NewState(opts), out: os.Stdout}
		pterm.DefaultHeader.Println("WebDbAssistant")
		if cfg.Database.Configured() {
			repl.state, _ = c.service.SelectDatabase(ctx, repl.state, cfg.Database)
			pterm.Success.Printf("Base de données sélectionnée : %s\n", cfg.Database.String())
		} else {
			pterm.Warning.Println("Aucune base de données configurée")
		}
		pterm.Println(chatHelp)

		for {
			var line string
			err := survey.AskOne(&survey.Input{Message: "Vous :"}, &line)
			if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if repl.handle(ctx, line) {
				return nil
			}
		}
	},
}

func promptAPIKey() (string, error) {
	var key string
	prompt := &survey.Password{
		Message: "Clé API Groq :",
		Help:    "Créez une clé sur console.groq.com. Elle n'est conservée que pour cette session.",
	}
	if err := survey.AskOne(prompt, &key); err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

// chat is the REPL state: one session driven by typed lines.
type chat struct {
	service *session.Service
	state   session.State
	out     io.Writer
}

// handle processes one input line and reports whether the REPL should stop.
func (c *chat) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		var history []session.Exchange
		c.state, history = c.service.Send(ctx, c.state, line)
		fmt.Fprintln(c.out, history[len(history)-1].Assistant)
		return false
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch command {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(c.out, chatHelp)
	case "/reset":
		c.state = c.service.Reset(ctx, c.state)
		c.info("Conversation réinitialisée")
	case "/schema":
		fmt.Fprintln(c.out, c.service.Structure(ctx, c.state))
	case "/exec":
		if arg == "" {
			c.warn("Usage : /exec <sql>")
			return false
		}
		fmt.Fprintln(c.out, c.service.Execute(ctx, c.state, arg))
	case "/role":
		c.state = c.service.ApplyPrompt(ctx, c.state, arg, c.state.CustomRules)
		c.info("Rôle appliqué")
	case "/rules":
		c.state = c.service.ApplyPrompt(ctx, c.state, c.state.CustomRole, arg)
		c.info("Règles appliquées")
	case "/auto":
		opts := c.state.Options
		switch arg {
		case "on":
			opts.AutoExecute = true
		case "off":
			opts.AutoExecute = false
		default:
			c.warn("Usage : /auto on|off")
			return false
		}
		c.state = c.service.SetOptions(c.state, opts)
		c.info("Exécution automatique : " + arg)
	case "/model":
		if !llm.IsSupportedModel(arg) {
			c.warn("Modèles disponibles : " + strings.Join(llm.Models, ", "))
			return false
		}
		opts := c.state.Options
		opts.Model = arg
		c.state = c.service.SetOptions(c.state, opts)
		c.info("Modèle : " + arg)
	default:
		c.warn("Commande inconnue : " + command + " (tapez /help)")
	}
	return false
}

func (c *chat) info(msg string) {
	fmt.Fprintln(c.out, pterm.Info.Sprint(msg))
}

func (c *chat) warn(msg string) {
	fmt.Fprintln(c.out, pterm.Warning.Sprint(msg))
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
