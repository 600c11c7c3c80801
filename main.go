package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github-issues-notice/config"
	"github-issues-notice/handlers"
	"github-issues-notice/models"
	"github-issues-notice/services"
)

func main() {
	var settingsFile string

	root := &cobra.Command{
		Use:           "github-issues-notice",
		Short:         "Notify GitHub issues and pull requests by label to Slack",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&settingsFile, "config", "c", "", "settings file path (YAML)")

	root.AddCommand(
		newServeCmd(&settingsFile),
		newRunCmd(&settingsFile),
		newImportRowsCmd(&settingsFile),
	)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newServeCmd(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the hourly scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Load(*settingsFile)
			if err != nil {
				return err
			}

			// 設定シートを読む場合は DB を使わず、/rows も公開しない
			var store *services.RowStore
			var rows handlers.RowRepository
			if s.Sheet.Path == "" {
				if store, err = services.OpenRowStore(s.Database.Path); err != nil {
					return err
				}
				rows = store
			} else {
				log.Printf("sheet file %s is configured. /rows is disabled", s.Sheet.Path)
			}
			notice, err := buildNotice(cmd.Context(), s, store)
			if err != nil {
				return err
			}

			scheduler, err := services.NewScheduler(s.Notice.Schedule, notice.Location, func(ctx context.Context) {
				if _, err := notice.Run(ctx, time.Now()); err != nil {
					log.Printf("scheduled run error: %v", err)
				}
			})
			if err != nil {
				return err
			}
			scheduler.Start()
			defer scheduler.Stop()

			r := handlers.NewRouter(notice, rows, time.Now)
			return r.Run(s.Notice.Addr)
		},
	}
}

func newRunCmd(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the notification once for the current time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Load(*settingsFile)
			if err != nil {
				return err
			}

			var store *services.RowStore
			if s.Sheet.Path == "" {
				if store, err = services.OpenRowStore(s.Database.Path); err != nil {
					return err
				}
			}
			notice, err := buildNotice(cmd.Context(), s, store)
			if err != nil {
				return err
			}

			result, runErr := notice.Run(cmd.Context(), time.Now())
			if result != nil {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return runErr
		},
	}
}

func newImportRowsCmd(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-rows <file.yaml>",
		Short: "Replace the stored schedule rows with the rows of a sheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(*settingsFile)
			if err != nil {
				return err
			}

			raw, err := (&services.SheetFile{Path: args[0]}).Rows(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]models.ScheduleRow, 0, len(raw))
			for i, r := range raw {
				row, err := services.ScheduleRowFromRaw(i, r)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

			store, err := services.OpenRowStore(s.Database.Path)
			if err != nil {
				return err
			}
			if err := store.Replace(cmd.Context(), rows); err != nil {
				return err
			}

			log.Printf("imported %d schedule rows from %s", len(rows), args[0])
			return nil
		},
	}
}

// buildNotice は設定から通知ジョブを組み立てる
// 設定シートのパスがあれば DB ではなくシートを読む
func buildNotice(ctx context.Context, s *config.Settings, store *services.RowStore) (*services.Notice, error) {
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	holidays, err := services.NewHolidayCalendar(s.Notice.Holidays, loc)
	if err != nil {
		return nil, err
	}
	tracker, err := services.NewGitHubTracker(ctx, s.GitHub.Token, s.GitHub.APIEndpoint)
	if err != nil {
		return nil, err
	}
	if s.Slack.Token == "" {
		log.Printf("%s is not set", config.EnvSlackToken)
	}

	var rows services.RowSource = store
	if s.Sheet.Path != "" {
		rows = &services.SheetFile{Path: s.Sheet.Path}
	}

	return &services.Notice{
		Rows:     rows,
		Tracker:  tracker,
		Chat:     services.NewSlackChat(s.Slack.Token),
		Holidays: holidays,
		Settings: messageSettings(s),
		Location: loc,
	}, nil
}

func messageSettings(s *config.Settings) services.MessageSettings {
	return services.MessageSettings{
		Username:       s.Slack.Username,
		IconEmoji:      s.Slack.IconEmoji,
		TextSuffix:     s.Slack.TextSuffix,
		TextEmpty:      s.Slack.TextEmpty,
		TextDefault:    s.Slack.TextDefault,
		ProactiveLabel: s.Notice.ProactiveLabel,
	}
}
