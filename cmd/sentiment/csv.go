package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/validation"
)

func newCSVCmd(opts *options) *cobra.Command {
	var export string
	var limit int

	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Analyze every review of a CSV file with a review column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			head := data
			if len(head) > validation.SniffSize {
				head = head[:validation.SniffSize]
			}
			if err := validation.Upload(filepath.Base(path), int64(len(data)), head); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			analyzer, err := opts.analyzer()
			if err != nil {
				return err
			}

			batch, err := analyzer.AnalyzeCSV(ctx, filepath.Base(path), f)
			if err != nil {
				return err
			}

			printBatch(cmd.OutOrStdout(), batch, limit)

			if export != "" {
				if err := writeExport(export, batch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", batch.TotalReviews, export)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the analyzed rows to this CSV file")
	cmd.Flags().IntVar(&limit, "limit", 50, "rows to print (0 prints none)")
	return cmd
}

func printBatch(w io.Writer, batch *models.BatchResult, limit int) {
	fmt.Fprintf(w, "total: %d  positive: %.1f%%  negative: %.1f%%  neutral: %.1f%%\n",
		batch.TotalReviews, batch.PositivePct, batch.NegativePct, batch.NeutralPct)

	if limit <= 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Review", "Sentiment", "Confidence"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, row := range batch.Preview(limit) {
		table.Append([]string{
			strconv.Itoa(i + 1),
			shorten(row.OriginalReview, 60),
			string(row.Sentiment),
			fmt.Sprintf("%.1f%%", row.ConfidencePercent()),
		})
	}
	table.Render()

	if batch.TotalReviews > limit {
		fmt.Fprintf(w, "showing %d of %d rows\n", limit, batch.TotalReviews)
	}
}

func writeExport(path string, batch *models.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := services.ExportCSV(f, batch.AnalyzedData); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func shorten(s string, n int) string {
	if n < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
