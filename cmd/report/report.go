// Package main is the reporting command of social-book. It prints account and file statistics as JSON.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/JaineelPandya/social-book/internal"
	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/JaineelPandya/social-book/internal/managers"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var recentLimit int

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Print statistics about users and uploaded files",
	Long: `Print statistics about users and uploaded files as JSON.

Examples:
  report
  report users
  report files
  report recent --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, reports managers.ReportMgr) (interface{}, error) {
			return fullReport(ctx, reports)
		})
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Summarise the registered accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, reports managers.ReportMgr) (interface{}, error) {
			return reports.UsersSummary(ctx)
		})
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Summarise the active uploaded files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, reports managers.ReportMgr) (interface{}, error) {
			return reports.FilesSummary(ctx)
		})
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), func(ctx context.Context, reports managers.ReportMgr) (interface{}, error) {
			items, err := reports.RecentUploads(ctx, recentLimit)
			if err != nil {
				return nil, err
			}
			return utils.CreateFileDtos(items), nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&recentLimit, "limit", 10, "number of recent uploads to include")
	rootCmd.AddCommand(usersCmd, filesCmd, recentCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run builds its own pool for the duration of one report and writes the result to stdout.
func run(ctx context.Context, report func(context.Context, managers.ReportMgr) (interface{}, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	utils.SetLogLevel(cfg.LogLevel)
	// Logs go to stderr so that stdout only carries the report
	log.SetOutput(os.Stderr)

	pool, err := internal.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	result, err := report(ctx, managers.NewReportManager(pool))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func fullReport(ctx context.Context, reports managers.ReportMgr) (*schemas.ReportDTO, error) {
	users, err := reports.UsersSummary(ctx)
	if err != nil {
		return nil, err
	}
	files, err := reports.FilesSummary(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := reports.RecentUploads(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &schemas.ReportDTO{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Users:         *users,
		Files:         *files,
		RecentUploads: utils.CreateFileDtos(recent),
	}, nil
}
