package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yourusername/gitup/internal/app"
	"github.com/yourusername/gitup/internal/config"
	"github.com/yourusername/gitup/internal/git"
	"github.com/yourusername/gitup/internal/graph"
	"github.com/yourusername/gitup/internal/log"
)

var (
	flagCharset    string
	flagLimit      int
	flagPrivileged []string
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:   "gitup [path]",
		Short: "Terminal git commit-graph browser",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	root.Flags().StringVar(&flagCharset, "charset", "", "glyph profile: unicode, ascii, ascii-rich")
	root.Flags().IntVar(&flagLimit, "limit", 0, "max commits to ingest")
	root.Flags().StringSliceVar(&flagPrivileged, "privileged", nil, "branches forced to lane 0")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")

	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagCharset != "" {
		cfg.Graph.Charset = flagCharset
	}
	if flagLimit > 0 {
		cfg.Performance.IngestLimit = flagLimit
	}
	if len(flagPrivileged) > 0 {
		cfg.Graph.PrivilegedBranches = flagPrivileged
	}

	logger := log.New(flagDebug)
	defer logger.Sync()

	model, err := app.New(cfg, repoPath(args), logger)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	_, err = tea.NewProgram(model, opts...).Run()
	return err
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [path]",
		Short: "Print commit DAG statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.OpenRepository(repoPath(args))
			if err != nil {
				return err
			}
			source, err := repo.Source()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dag, err := graph.Build(ctx, source, graph.BuildOptions{IngestLimit: flagLimit})
			if err != nil {
				return err
			}

			s := dag.Stats()
			fmt.Printf("commits: %d\n", s.Total)
			fmt.Printf("edges:   %d\n", s.Edges)
			fmt.Printf("merges:  %d\n", s.Merges)
			fmt.Printf("roots:   %d\n", s.Roots)
			fmt.Printf("leaves:  %d\n", s.Leaves)
			fmt.Printf("orphans: %v\n", s.HasOrphans)
			if dag.Truncated {
				fmt.Println("(ingest interrupted; partial results)")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "max commits to ingest")
	return cmd
}

func repoPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
