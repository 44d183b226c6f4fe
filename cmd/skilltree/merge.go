package main

import (
	"fmt"
	"io"
	"os"

	"skilltree/internal/codec"
	"skilltree/internal/domain"
	"skilltree/internal/loader"
	"skilltree/internal/ui"

	"github.com/spf13/cobra"
)

func mergeCmd() *cobra.Command {
	var format, output, root string
	var include, primary []string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the sources, report problems and export the result",
		Long: "Merge every configured source the same way the server does, print the\n" +
			"problem report and write the merged graph as a single source document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("root") {
				cfg.Sources.Root = root
			}
			if cmd.Flags().Changed("include") {
				cfg.Sources.Include = include
			}
			if cmd.Flags().Changed("primary") {
				cfg.Sources.Primary = primary
			}

			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			src, err := loader.New(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Primary)
			if err != nil {
				return err
			}

			var out io.Writer = io.Discard
			if !quiet {
				out = cmd.OutOrStdout()
			}
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			problems, err := runMerge(src, c, out, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if domain.HasErrors(problems) {
				return fmt.Errorf("merge reported errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, json or toml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the merged document to a file")
	cmd.Flags().StringVar(&root, "root", "", "Source root directory (overrides sources.root)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Source glob patterns (overrides sources.include)")
	cmd.Flags().StringSliceVar(&primary, "primary", nil, "Primary source glob patterns (overrides sources.primary)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the problem report")
	return cmd
}

// runMerge loads and merges src, writes the merged document to out and
// the problem report to report
func runMerge(src *loader.Loader, c codec.Codec, out, report io.Writer) ([]domain.Problem, error) {
	result, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	g, problems := result.Merge()

	ui.Info.Fprintf(report, "Merged %d nodes from %d files\n\n", g.Len(), len(result.Files))
	ui.Problems(report, problems)

	if err := c.Export(codec.FromGraph("merged", g), out); err != nil {
		return problems, fmt.Errorf("export %s: %w", c.Format(), err)
	}
	return problems, nil
}
