package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rahul4469/review-sentiment/internal/logging"
	"github.com/rahul4469/review-sentiment/internal/services"
)

// options are the persistent flags shared by every command.
type options struct {
	remote    string
	timeout   time.Duration
	threshold float64
	workers   int
	maxRows   int
	logLevel  string
}

func (o *options) analyzer() (services.Analyzer, error) {
	if o.remote != "" {
		return services.NewRemoteAnalyzer(o.remote, o.timeout), nil
	}
	va, err := services.NewVaderAnalyzer(o.threshold, services.BatchOptions{
		Workers: o.workers,
		MaxRows: o.maxRows,
	})
	if err != nil {
		return nil, err
	}
	return va, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sentiment",
		Short:         "Classify customer reviews as positive, negative or neutral",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitLogger(opts.logLevel, false)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.remote, "remote", "", "base URL of an analysis service; empty analyzes locally")
	flags.DurationVar(&opts.timeout, "timeout", services.DefaultRemoteTimeout, "timeout of one analysis")
	flags.Float64Var(&opts.threshold, "neutral-threshold", services.DefaultNeutralThreshold, "confidence under which a review is NEUTRAL")
	flags.IntVar(&opts.workers, "workers", 0, "concurrent rows for CSV analysis (0 = number of CPUs)")
	flags.IntVar(&opts.maxRows, "max-rows", services.DefaultMaxRows, "largest accepted CSV")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(newReviewCmd(opts), newCSVCmd(opts))
	return root
}

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
