// Package main is the terminal interface to the agent kernel: a REPL where
// the model works the workspace tools and the user approves edits and
// commands before they run.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/DJMcClellan1966/AI-Agent/internal/chat"
	"github.com/DJMcClellan1966/AI-Agent/internal/config"
	"github.com/DJMcClellan1966/AI-Agent/internal/kernel"
	"github.com/DJMcClellan1966/AI-Agent/internal/provider"
	"github.com/DJMcClellan1966/AI-Agent/internal/provider/gemini"
	"github.com/DJMcClellan1966/AI-Agent/internal/tool"
)

var previewStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("3")).
	Padding(0, 1)

func main() {
	cmd := &cli.Command{
		Name:  "agent",
		Usage: "chat with a tool-using coding agent in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "workspace root path; file tools use this", Sources: cli.EnvVars("WORKSPACE_ROOT")},
			&cli.BoolFlag{Name: "autonomous", Aliases: []string{"a"}, Usage: "run edit_file and run_terminal without asking for approval"},
			&cli.BoolFlag{Name: "no-search-context", Usage: "disable injecting workspace search context into the agent prompt"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "override the configured model"},
			&cli.StringFlag{Name: "code-index-workspace", Usage: "enable code-index tools against this directory", Sources: cli.EnvVars("CODEINDEX_WORKSPACE")},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable debug logging"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Warn("failed to load config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}
	if m := cmd.String("model"); m != "" {
		cfg.Agent.Model = m
	}

	ec := tool.ExecContext{
		WorkspaceRoot:      strings.TrimSpace(cmd.String("workspace")),
		Autonomous:         cmd.Bool("autonomous"),
		NoSearchContext:    cmd.Bool("no-search-context"),
		CodeIndexWorkspace: cmd.String("code-index-workspace"),
	}
	if ec.WorkspaceRoot != "" {
		info, err := os.Stat(ec.WorkspaceRoot)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("workspace is not a directory: %s", ec.WorkspaceRoot)
		}
		fmt.Fprintf(os.Stderr, "Workspace: %s\n", ec.WorkspaceRoot)
	} else {
		fmt.Fprintln(os.Stderr, "No workspace set (file tools will fail). Set --workspace or WORKSPACE_ROOT.")
	}
	if ec.Autonomous {
		fmt.Fprintln(os.Stderr, "Autonomous mode: edits and commands run without approval.")
	}

	var p provider.Provider
	if gp, err := gemini.NewFromEnv(ctx, cfg.Agent.Model); err != nil {
		log.Warn("no model provider", "error", err)
	} else {
		p = gp
	}

	k := kernel.New(p, tool.NewToolbox(p, cfg, log), cfg, log)
	repl(ctx, k, ec)
	return nil
}

func repl(ctx context.Context, k *kernel.Kernel, ec tool.ExecContext) {
	fmt.Fprintln(os.Stderr, "\nType a message and press Enter. Empty line to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	var messages []chat.Message

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr, "\nBye.")
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}

		messages = append(messages, chat.Message{Role: chat.RoleUser, Content: line})
		out := k.Run(ctx, messages, ec, nil, k.Config.Agent.CLIMaxTurns)
		messages = handleOutcome(ctx, k, ec, scanner, out)
	}
}

// handleOutcome prints replies and walks the approval flow until the loop
// settles on a reply or exhausts its budget.
func handleOutcome(ctx context.Context, k *kernel.Kernel, ec tool.ExecContext, scanner *bufio.Scanner, out kernel.Outcome) []chat.Message {
	for {
		if out.Code != "" {
			fmt.Fprintf(os.Stderr, "\nAgent error (%s): %s\n\n", out.Code, out.Reply)
			return out.Messages
		}
		if out.Pending == nil {
			if out.Reply != "" {
				printReply(out.Reply)
			}
			return out.Messages
		}

		pending := out.Pending
		preview := truncatePreview(pending.Preview, 800)
		fmt.Fprintln(os.Stderr, "\nAgent wants to run: "+pending.Tool)
		fmt.Fprintln(os.Stderr, previewStyle.Render(preview))

		if pending.Err {
			// Nothing runnable; feed the problem back so the model can react.
			messages := append(out.Messages, chat.Message{
				Role:    chat.RoleSystem,
				Content: "[Tool " + pending.Tool + " failed]: " + pending.Preview,
			})
			out = k.Run(ctx, messages, ec, nil, k.Config.Agent.ResumeMaxTurns)
			continue
		}

		fmt.Fprint(os.Stderr, "Approve? [y/N]: ")
		choice := ""
		if scanner.Scan() {
			choice = strings.ToLower(strings.TrimSpace(scanner.Text()))
		}

		if choice == "y" || choice == "yes" {
			out = k.Resume(ctx, out.Messages, ec, pending.Tool, pending.Args, 5)
		} else {
			messages := append(out.Messages, chat.Message{
				Role:    chat.RoleSystem,
				Content: "User declined the tool call.",
			})
			out = k.Run(ctx, messages, ec, nil, k.Config.Agent.ResumeMaxTurns)
		}
	}
}

// truncatePreview caps long diffs at max bytes on a rune boundary.
func truncatePreview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func printReply(reply string) {
	rendered, err := renderMarkdown(reply)
	if err != nil {
		fmt.Printf("\nAgent: %s\n\n", reply)
		return
	}
	fmt.Printf("\nAgent:%s\n", rendered)
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
