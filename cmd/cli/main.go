// Package main provides the CLI tool for the location-service.
//
// Run with: go run ./cmd/cli generate --place 京都 --tags art,finance
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/app"
	"github.com/fleveque/location-service/internal/config"
	"github.com/fleveque/location-service/internal/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command:
// location-cli generate --place P --tags a,b
// location-cli lookup --place P
// location-cli warm --tags a
// location-cli calls --limit 20
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "location-cli",
		Short:        "Location service CLI tools",
		SilenceUsage: true,
	}

	root.AddCommand(generateCmd(), lookupCmd(), warmCmd(), callsCmd())
	return root
}

// errNotCached makes lookup exit non-zero for an absent record.
var errNotCached = errors.New("location not cached")

func generateCmd() *cobra.Command {
	var place, tags string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Return a location record, generating it when it is not cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
				tagList, err := model.ParseTags(tags)
				if err != nil {
					return err
				}
				record, err := a.Locations.GetLocationData(ctx, place, tagList)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), record)
			})
		},
	}

	cmd.Flags().StringVar(&place, "place", "", "Place name (city, region or landmark)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated interest tags")
	_ = cmd.MarkFlagRequired("place")
	return cmd
}

func lookupCmd() *cobra.Command {
	var place, tags string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print a cached location record without generating",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
				tagList, err := model.ParseTags(tags)
				if err != nil {
					return err
				}
				record, ok := a.Locations.GetCachedLocationData(ctx, place, tagList)
				if !ok {
					return fmt.Errorf("%s: %w", place, errNotCached)
				}
				return printJSON(cmd.OutOrStdout(), record)
			})
		},
	}

	cmd.Flags().StringVar(&place, "place", "", "Place name")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated interest tags")
	_ = cmd.MarkFlagRequired("place")
	return cmd
}

func warmCmd() *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Generate every featured place that is not cached yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App, cfg *config.Config, _ *zap.Logger) error {
				tagList, err := model.ParseTags(tags)
				if err != nil {
					return err
				}
				places := cfg.FeaturedPlaces
				if len(args) > 0 {
					places = args
				}
				stats := a.Locations.Warm(ctx, places, tagList)
				if stats.Failed > 0 {
					return fmt.Errorf("%d of %d places failed", stats.Failed, stats.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated interest tags")
	return cmd
}

func callsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List recent generation backend calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App, _ *config.Config, _ *zap.Logger) error {
				calls, err := a.Calls.ListRecent(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, c := range calls {
					status := "ok"
					if !c.Success {
						status = "failed"
					}
					var ms int64
					if c.DurationMs != nil {
						ms = *c.DurationMs
					}
					fmt.Fprintf(out, "%s\t%s/%s\t%s\t%s\t%dms\n",
						c.CreatedAt.Format("2006-01-02 15:04:05"), c.Provider, c.Model, c.Place, status, ms)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of calls to list")
	return cmd
}

// withApp loads config, builds the app with a development logger and runs fn
// under a context cancelled by Ctrl+C.
func withApp(fn func(ctx context.Context, a *app.App, cfg *config.Config, logger *zap.Logger) error) error {
	cfg, err := config.Load(os.Getenv("LOCATION_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a, cfg, logger)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
