package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rahul4469/review-sentiment/internal/validation"
)

func newReviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "review <text>",
		Short: "Analyze a single review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			review, err := validation.Review(strings.Join(args, " "))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			analyzer, err := opts.analyzer()
			if err != nil {
				return err
			}

			result, err := analyzer.AnalyzeReview(ctx, review)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %.1f%%\n", result.Sentiment, result.ConfidencePercent())
			if result.Language != "" {
				fmt.Fprintf(out, "language: %s\n", result.Language)
			}
			return nil
		},
	}
}
