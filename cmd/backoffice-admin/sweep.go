package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/chapelhq/backoffice-go/internal/service"
)

const defaultSweepTimeout = 5 * time.Minute

type sweepOptions struct {
	DryRun  bool
	Yes     bool
	Timeout time.Duration
}

type sweepConfirmOptions struct {
	dryRun bool
	yes    bool
}

func (s sweepConfirmOptions) IsDryRun() bool    { return s.dryRun }
func (s sweepConfirmOptions) IsYes() bool       { return s.yes }
func (s sweepConfirmOptions) GetTarget() string { return "" }
func (s sweepConfirmOptions) GetWarning() string {
	return "WARNING: this will block every end-user account whose email matches an approved admin."
}

func runSweepExclusivity(cmdCtx *commandContext, args []string) error {
	opts, err := parseSweepFlags(args)
	if err != nil {
		return err
	}

	confirmOpts := sweepConfirmOptions{
		dryRun: opts.DryRun,
		yes:    opts.Yes,
	}
	if confirmErr := confirmAction(confirmOpts, "sweep admin/member exclusivity"); confirmErr != nil {
		return confirmErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		svc := service.NewExclusivityService(service.ExclusivityServiceOptions{
			EndUsers:         data.NewEndUserRepo(db),
			Directory:        data.NewAdminIdentityRepo(db, data.AdminRepoConfig{Logger: cmdCtx.Logger}),
			Logger:           cmdCtx.Logger,
			SweepConcurrency: cmdCtx.Config.Reconciler.SweepConcurrency,
		})

		report, sweepErr := svc.Sweep(ctx, opts.DryRun)
		if sweepErr != nil {
			return fmt.Errorf("sweep exclusivity: %w", sweepErr)
		}

		return printSweepReport(report)
	})
}

func parseSweepFlags(args []string) (sweepOptions, error) {
	fs := flag.NewFlagSet("sweep-exclusivity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := sweepOptions{
		Timeout: defaultSweepTimeout,
	}

	fs.BoolVar(
		&opts.DryRun,
		"dry-run",
		false,
		"Report collisions without blocking any end-user accounts",
	)
	fs.BoolVar(
		&opts.Yes,
		"yes",
		false,
		"Skip confirmation prompt",
	)
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Maximum duration to wait for the sweep to complete")

	if err := fs.Parse(args); err != nil {
		return sweepOptions{}, err
	}

	if opts.Timeout <= 0 {
		return sweepOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func printSweepReport(report *model.SweepReport) error {
	if report == nil {
		return errors.New("sweep report is missing")
	}

	if err := writeln(os.Stdout, "\nExclusivity sweep report"); err != nil {
		return fmt.Errorf("write sweep report header: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value int
	}{
		{"Admin emails scanned", report.Scanned},
		{"Collisions found", report.Collisions},
		{"Already blocked", report.AlreadyBlocked},
		{"Newly blocked", report.NewlyBlocked},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%d\n", row.label, row.value); err != nil {
			return fmt.Errorf("write sweep report row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush sweep report table: %w", err)
	}

	if report.DryRun {
		if err := writeln(os.Stdout, "Dry run: no end-user accounts were modified."); err != nil {
			return fmt.Errorf("write sweep report dry-run note: %w", err)
		}
	}
	return nil
}
