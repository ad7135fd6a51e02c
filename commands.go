package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aneshas/parkfee/tariff"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sampleMinutes are the stay lengths printed by the sample command
var sampleMinutes = []int{0, 10, 17, 30, 50, 60, 70, 90, 120, 150, 180, 900}

var now = time.Now

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		cfg       config
		workers   int
		unitPrice string
	)

	root := &cobra.Command{
		Use:          "parkfee",
		Short:        "Parking fee calculator with a per day cap",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error

			cfg, err = loadConfig(logger)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			if cmd.Flags().Changed("unit-price") {
				cfg.UnitPrice, err = decimal.NewFromString(unitPrice)
				if err != nil {
					return errors.Wrap(err, "invalid unit price")
				}
			}

			return cfg.validate()
		},
	}

	root.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "stays billed concurrently (default number of CPUs)")
	root.PersistentFlags().StringVar(&unitPrice, "unit-price", "1", "price of one fee unit")

	root.AddCommand(
		calcCmd(&cfg, logger),
		quoteCmd(&cfg),
		sampleCmd(),
	)

	return root
}

func calcCmd(cfg *config, logger *zap.Logger) *cobra.Command {
	var segments bool

	cmd := &cobra.Command{
		Use:   "calc [stays.csv [fees.csv]]",
		Short: "Bill vehicle,entry,exit records from a CSV file or stdin",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := io.Reader(cmd.InOrStdin())
			if len(args) > 0 {
				in, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer in.Close()

				src = in
			}

			if len(args) < 2 {
				return newPipeline(*cfg, segments, logger).run(src, cmd.OutOrStdout())
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}

			err = newPipeline(*cfg, segments, logger).run(src, out)

			return closeFees(out, err)
		},
	}

	cmd.Flags().BoolVarP(&segments, "segments", "s", false, "write one row per day before each stay total")

	return cmd
}

// closeFees closes the fees file. A close error is returned unless the
// run already failed.
func closeFees(out io.Closer, err error) error {
	cerr := out.Close()
	if err != nil {
		return err
	}

	return errors.Wrap(cerr, "could not close fees")
}

func quoteCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:     "quote ENTRY EXIT",
		Short:   "Bill a single stay",
		Example: `  parkfee quote "2002-05-01 23:48:00" "2002-05-03 00:11:59"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stay, err := billStay([]string{"", args[0], args[1]})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, seg := range stay.Segments {
				fmt.Fprintf(out, "%s  (%d min)\n", seg, seg.Minutes())
			}

			units := tariff.Total(stay.Segments)
			fmt.Fprintf(out, "total: %d units (%s)\n", units, amount(units, cfg.UnitPrice))

			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print the current time and the fee table for sample stay lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			t := now()
			fmt.Fprintf(out, "date is %s, time is %s weekday is %s\n",
				t.Format("2006:01:02"),
				t.Format(timeLayout),
				t.Weekday(),
			)

			for _, m := range sampleMinutes {
				fmt.Fprintf(out, "%d : %d\n", m, tariff.Fee(m))
			}

			return nil
		},
	}
}
