// Command claudepipe is a thin command-line front end over the library:
// it runs one-shot prompts, streams messages as they arrive, and checks
// the local CLI installation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/claudepipe/claudepipe/pkg/claudepipe"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/adapters/mcp"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/config"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/messages"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/options"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/retry"
	"github.com/claudepipe/claudepipe/pkg/claudepipe/tokens"
)

type rootFlags struct {
	model          string
	allowedTools   []string
	timeoutSeconds int
	settingsPath   string
	role           string
	resume         string
	verbose        bool
	retries        int
}

func main() {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "claudepipe",
		Short:         "Run prompts through the Claude Code CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.model, "model", "", "model identifier")
	pf.StringSliceVar(&flags.allowedTools, "allowed-tools", nil, "tools the CLI may use")
	pf.IntVar(&flags.timeoutSeconds, "timeout", 0, "query timeout in seconds")
	pf.StringVar(&flags.settingsPath, "settings", "", "settings file (JSON or YAML)")
	pf.StringVar(&flags.role, "role", "", "role preset from the settings file")
	pf.StringVar(&flags.resume, "resume", "", "session identifier to resume")
	pf.BoolVar(&flags.verbose, "verbose", false, "log subprocess diagnostics to stderr")
	pf.IntVar(&flags.retries, "retries", 1, "attempts for transient failures")

	rootCmd.AddCommand(askCommand(flags))
	rootCmd.AddCommand(streamCommand(flags))
	rootCmd.AddCommand(doctorCommand(flags))
	rootCmd.AddCommand(countCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildOptions folds the settings file, the role preset and the command
// line into one options value. Precedence, lowest to highest: settings
// file, role, flags.
func buildOptions(flags *rootFlags) (*options.QueryOptions, error) {
	opts := &options.QueryOptions{Verbose: flags.verbose}

	var settings *config.Settings
	if flags.settingsPath != "" {
		loaded, err := config.Load(flags.settingsPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
		opts = settings.Options()
		opts.Verbose = flags.verbose
	}

	if flags.role != "" {
		if settings == nil {
			return nil, errors.New("--role requires --settings")
		}
		applied, err := settings.ApplyRole(flags.role, opts)
		if err != nil {
			return nil, err
		}
		opts = applied
	}

	if flags.model != "" {
		opts.Model = &flags.model
	}
	if flags.allowedTools != nil {
		opts.AllowedTools = flags.allowedTools
	}
	if flags.timeoutSeconds > 0 {
		opts.Timeout = time.Duration(flags.timeoutSeconds) * time.Second
	}
	if flags.resume != "" {
		opts.Resume = &flags.resume
	}

	return opts, nil
}

func newClient(flags *rootFlags) *claudepipe.Client {
	if !flags.verbose {
		return claudepipe.NewClient()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return claudepipe.NewClient(claudepipe.WithLogger(logger))
}

// askCommand runs a prompt to completion and prints the text view.
func askCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Run a prompt and print the response text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(flags)
			if err != nil {
				return err
			}
			client := newClient(flags)
			prompt := strings.Join(args, " ")

			text, err := retry.Do(cmd.Context(), retry.Config{MaxAttempts: flags.retries},
				func(ctx context.Context) (string, error) {
					return client.QueryText(ctx, prompt, opts)
				})
			if err != nil {
				return err
			}
			fmt.Println(text)

			return nil
		},
	}
}

// streamCommand prints messages as they arrive instead of waiting for
// the process to finish.
func streamCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stream <prompt>",
		Short: "Run a prompt and print messages as they arrive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(flags)
			if err != nil {
				return err
			}
			client := newClient(flags)

			query, err := client.Query(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			defer func() { _ = query.Close() }()

			for {
				msg, err := query.Next(cmd.Context())
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				printMessage(msg)
			}
		},
	}
}

var (
	assistantLabel = color.New(color.FgCyan, color.Bold)
	systemLabel    = color.New(color.FgYellow)
	resultLabel    = color.New(color.FgGreen, color.Bold)
	toolLabel      = color.New(color.FgMagenta)
)

func printMessage(msg messages.Message) {
	switch m := msg.(type) {
	case *messages.AssistantMessage:
		for _, block := range m.Content {
			switch b := block.(type) {
			case messages.TextBlock:
				assistantLabel.Print("assistant ")
				fmt.Println(b.Text)
			case messages.ToolUseBlock:
				toolLabel.Printf("tool      %s\n", b.Name)
			}
		}
	case *messages.SystemMessage:
		systemLabel.Printf("system    %s\n", m.Subtype)
	case *messages.ResultMessage:
		resultLabel.Print("result    ")
		fmt.Println(m.Content)
		if m.Usage != nil {
			fmt.Printf("          %d tokens\n", m.Usage.TotalTokens())
		}
	}
}

// doctorCommand checks the local installation: CLI discovery plus a
// connectivity probe of any configured MCP servers.
func doctorCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check CLI discovery and MCP server connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := buildOptions(flags)
			if err != nil {
				return err
			}

			client := newClient(flags)
			query, err := client.Query(cmd.Context(), "reply with ok", opts)
			if err != nil {
				return fmt.Errorf("start query: %w", err)
			}
			_ = query.Close()
			color.Green("CLI: ok")

			if len(opts.MCPServers) == 0 {
				return nil
			}
			results := mcp.Probe(cmd.Context(), opts.MCPServers, opts.MCPPermissions)
			for _, r := range results {
				switch {
				case r.Err != nil:
					color.Red("MCP %s: %v", r.Server, r.Err)
				case len(r.Missing) > 0:
					color.Yellow("MCP %s: missing tools %s", r.Server, strings.Join(r.Missing, ", "))
				default:
					color.Green("MCP %s: %d tools", r.Server, len(r.Tools))
				}
			}
			if !mcp.Healthy(results) {
				return errors.New("MCP probe failed")
			}

			return nil
		},
	}
}

// countCommand estimates the token footprint of stdin or its arguments.
func countCommand() *cobra.Command {
	var chunkSize int
	cmd := &cobra.Command{
		Use:   "count [text]",
		Short: "Estimate token usage of a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(raw)
			}

			fmt.Printf("%d tokens\n", tokens.Count(text))
			if chunkSize > 0 {
				for i, chunk := range tokens.Chunk(text, chunkSize) {
					fmt.Printf("chunk %d: %d tokens\n", i+1, tokens.Count(chunk))
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&chunkSize, "chunk", 0, "split into chunks of at most this many tokens")

	return cmd
}
