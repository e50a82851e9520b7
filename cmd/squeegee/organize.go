package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/squeegee/internal/cli"
	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/engine"
	"github.com/Veraticus/squeegee/internal/materialize"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/Veraticus/squeegee/internal/taxonomy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Link exports into the taxonomy tree",
		Long: `Scan a directory of CSV exports, classify each file along every axis of the
taxonomy, and link it into the matching folders. Reruns are idempotent.`,
	}

	cmd.AddCommand(organizeKindCmd(model.FileKindEstimate, "Organize QuickBooks estimate exports"))
	cmd.AddCommand(organizeKindCmd(model.FileKindSchedule, "Organize daily schedule exports"))
	cmd.AddCommand(rulesCmd())

	return cmd
}

func organizeKindCmd(kind model.FileKind, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrganize(cmd, kind)
		},
	}

	cmd.Flags().String("source", "", "directory holding the exports")
	cmd.Flags().String("root", "", "taxonomy root to create and populate")
	cmd.Flags().String("rules", "", "YAML file overriding the built-in tag rules")
	cmd.Flags().IntSlice("years", nil, "years to scaffold under Time_Based")
	cmd.Flags().Bool("dry-run", false, "classify without touching the filesystem")

	return cmd
}

func runOrganize(cmd *cobra.Command, kind model.FileKind) error {
	cfg, err := config.LoadOrganizeConfig(viper.GetViper(), kind)
	if err != nil {
		return err
	}
	if s, _ := cmd.Flags().GetString("source"); s != "" {
		cfg.SourceDir = config.ExpandPath(s)
	}
	if s, _ := cmd.Flags().GetString("root"); s != "" {
		cfg.Root = config.ExpandPath(s)
	}
	if s, _ := cmd.Flags().GetString("rules"); s != "" {
		cfg.RulesPath = config.ExpandPath(s)
	}
	if years, _ := cmd.Flags().GetIntSlice("years"); len(years) > 0 {
		cfg.Years = years
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	rules, err := taxonomy.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithLogger(slog.Default()),
		engine.WithProgress(os.Stderr),
	}
	var index *materialize.Index
	if dryRun {
		index = materialize.NewIndex()
		opts = append(opts, engine.WithLinker(index))
	}

	organizer, err := engine.New(engine.Config{
		Kind:      kind,
		SourceDir: cfg.SourceDir,
		Root:      cfg.Root,
		Years:     cfg.Years,
		Rules:     rules,
	}, opts...)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Organizing", "Links already created are kept. Rerun to finish.")
	ctx := interrupts.HandleInterrupts(cmd.Context())

	stats, err := organizer.Run(ctx)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}

	out := cmd.OutOrStdout()
	if index != nil {
		for _, b := range index.Buckets() {
			fmt.Fprintf(out, "%s %s\n", cli.FolderIcon, b.Path())
			for _, f := range index.Files(b) {
				fmt.Fprintf(out, "    %s\n", cli.SubtleStyle.Render(f))
			}
		}
	}

	title := fmt.Sprintf("%s organized", kind)
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, cli.RenderSummary(title, []cli.SummaryRow{
		{Label: "Files", Value: stats.Files},
		{Label: "Processed", Value: stats.Processed},
		{Label: "Skipped", Value: stats.Skipped},
		{Label: "Failed", Value: stats.Failed, Warn: true},
		{Label: "Links", Value: stats.Links},
		{Label: "Link errors", Value: stats.LinkErrors, Warn: true},
		{Label: "Unmapped", Value: stats.Unmapped, Warn: true},
		{Label: "Duration", Value: stats.Duration.Round(time.Millisecond)},
	}))

	return err
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the built-in tag rules as YAML",
		Long: `Print the built-in tag rules in the format accepted by --rules, as a
starting point for a custom rule file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := taxonomy.MarshalRules(taxonomy.DefaultRules())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
