package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/oncograph-backend/internal/app"
	"github.com/yungbote/oncograph-backend/internal/catalog"
	"github.com/yungbote/oncograph-backend/internal/modules/oncology/steps"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "oncograph",
		Short:         "Oncology knowledge-graph aggregation and ingestion service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default: ./config.yaml if present)")

	rootCmd.AddCommand(serveCmd(&configFile))
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(importCmd(&configFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())
			return a.Run(ctx)
		},
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [query]",
		Short: "List catalog indications, optionally filtered by a name or alias substring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tICD-10\tALIASES")
			for _, e := range steps.FilterCatalog(cat, query) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.ClassificationCode, strings.Join(e.Aliases, ", "))
			}
			return w.Flush()
		},
	}
}

func importCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <indication name>",
		Short: "Generate and import the research bundle for a catalog indication",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configFile)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			res, err := a.Usecases.AddIndication(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %s (%s)\n", res.IndicationName, res.IndicationID)
			fmt.Fprintf(out, "  mutations:      %d\n", res.Counts.Mutations)
			fmt.Fprintf(out, "  therapies:      %d\n", res.Counts.Therapies)
			fmt.Fprintf(out, "  diagnostics:    %d\n", res.Counts.Diagnostics)
			fmt.Fprintf(out, "  epidemiology:   %d\n", res.Counts.EpidemiologyEntries)
			fmt.Fprintf(out, "  prevalence:     %d\n", res.Counts.PrevalenceEntries)
			fmt.Fprintf(out, "  actionability:  %d\n", res.Counts.ActionabilityEntries)
			return nil
		},
	}
}

func newApp(ctx context.Context, configFile string) (*app.App, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}
