package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/observability"
)

var (
	eventsSince string
	eventsType  string
	eventsTask  string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the task event log",
	Long: `Show events from the JSONL event log, newest last. Filter with
--since (e.g. 24h, 7d), --type (e.g. task.created), or --task.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized (observability may be disabled)")
		}

		filter := observability.EventFilter{
			Type:   eventsType,
			TaskID: eventsTask,
		}
		if eventsSince != "" {
			d, err := parseWindow(eventsSince)
			if err != nil {
				return err
			}
			since := time.Now().UTC().Add(-d)
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-22s %-12s %s\n",
				e.Time.Format("2006-01-02 15:04:05"), e.Type, e.TaskID, e.Message)
		}
		return nil
	},
}

// parseWindow accepts Go durations plus a day suffix (e.g. 7d).
func parseWindow(s string) (time.Duration, error) {
	if n := len(s); n > 1 && s[n-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s[:n-1], "%d", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --since window %q (use e.g. 24h or 7d)", s)
	}
	return d, nil
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "Time window (e.g. 24h, 7d)")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "Filter by event type")
	eventsCmd.Flags().StringVar(&eventsTask, "task", "", "Filter by task ID")
	rootCmd.AddCommand(eventsCmd)
}
