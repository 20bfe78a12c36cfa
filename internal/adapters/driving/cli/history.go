package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded conversions",
	Long: `Every conversion, successful or not, is recorded with its input digest,
outputs and outcome while history.enabled is true.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a recorded conversion",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded conversions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records (0 = all)")
	historyListCmd.Flags().StringVarP(&historyFormat, "format", "f", formatText, "output format: text, json or yaml")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", formatText, "output format: text, json or yaml")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// recordView is the structured form of a conversion record.
type recordView struct {
	ID          string    `json:"id" yaml:"id"`
	Input       string    `json:"input" yaml:"input"`
	InputDigest string    `json:"input_digest,omitempty" yaml:"input_digest,omitempty"`
	Status      string    `json:"status" yaml:"status"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	Outputs     []string  `json:"outputs" yaml:"outputs"`
	Strokes     int       `json:"strokes" yaml:"strokes"`
	Points      int       `json:"points" yaml:"points"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	DurationMS  int64     `json:"duration_ms" yaml:"duration_ms"`
}

func newRecordView(r *domain.ConversionRecord) recordView {
	return recordView{
		ID:          r.ID,
		Input:       r.Input,
		InputDigest: r.InputDigest,
		Status:      string(r.Status),
		Error:       r.Error,
		Outputs:     r.Outputs.All(),
		Strokes:     r.StrokeCount,
		Points:      r.PointCount,
		StartedAt:   r.StartedAt,
		DurationMS:  r.Duration().Milliseconds(),
	}
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := checkFormat(historyFormat); err != nil {
		return err
	}

	records, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyFormat != formatText {
		views := make([]recordView, 0, len(records))
		for i := range records {
			views = append(views, newRecordView(&records[i]))
		}
		return writeStructured(cmd, historyFormat, views)
	}

	if len(records) == 0 {
		cmd.Println("No conversions recorded.")
		return nil
	}

	p := newPrinter(cmd)
	p.title("Recent conversions")
	for i := range records {
		r := &records[i]
		status := "ok  "
		if r.Status == domain.ConversionFailed {
			status = "FAIL"
		}
		cmd.Printf("  %s  %s  %s  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), status, r.Input)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := checkFormat(historyFormat); err != nil {
		return err
	}

	record, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	if historyFormat != formatText {
		return writeStructured(cmd, historyFormat, newRecordView(record))
	}

	p := newPrinter(cmd)
	p.title(record.ID)
	p.field("Input:   ", "%s", record.Input)
	if record.InputDigest != "" {
		p.field("Digest:  ", "%s", record.InputDigest)
	}
	p.field("Status:  ", "%s", record.Status)
	if record.Error != "" {
		p.field("Error:   ", "%s", record.Error)
	}
	p.field("Strokes: ", "%d (%d points)", record.StrokeCount, record.PointCount)
	p.field("Started: ", "%s", record.StartedAt.Local().Format(time.RFC3339))
	p.field("Took:    ", "%s", record.Duration().Round(time.Millisecond))
	for _, out := range record.Outputs.All() {
		p.field("Output:  ", "%s", out)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	n, err := historyService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	cmd.Printf("Removed %d record(s).\n", n)
	return nil
}
