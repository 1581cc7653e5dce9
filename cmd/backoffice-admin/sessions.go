package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chapelhq/backoffice-go/internal/bootstrap"
	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/service"
)

type purgeSessionsOptions struct {
	SubjectID string
	Yes       bool
	Timeout   time.Duration
}

type purgeSessionsConfirmOptions struct {
	yes    bool
	target string
}

func (p purgeSessionsConfirmOptions) IsDryRun() bool    { return false }
func (p purgeSessionsConfirmOptions) IsYes() bool       { return p.yes }
func (p purgeSessionsConfirmOptions) GetTarget() string { return p.target }
func (p purgeSessionsConfirmOptions) GetWarning() string {
	return "WARNING: this will log the subject out everywhere and revoke their refresh tokens."
}

func runPurgeSessions(cmdCtx *commandContext, args []string) (err error) {
	opts, err := parsePurgeSessionsFlags(args)
	if err != nil {
		return err
	}

	confirmOpts := purgeSessionsConfirmOptions{
		yes:    opts.Yes,
		target: fmt.Sprintf("subject %q", opts.SubjectID),
	}
	if confirmErr := confirmAction(confirmOpts, "purge live sessions and revoke refresh tokens"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, redisClient, err := connectInfra(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeInfra(db, redisClient); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if redisClient == nil {
		return errors.New("purge-sessions needs the live session store; configure REDIS_URI (or sentinel/cluster settings)")
	}

	tracker := data.NewAdminSessionRepo(db)
	stack, err := bootstrap.BuildAuthStack(bootstrap.AuthConfig{
		Auth:        cmdCtx.Config.Auth,
		Session:     cmdCtx.Config.Session,
		RedisClient: redisClient,
		Tracker:     tracker,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("build auth stack: %w", err)
	}

	purger := service.NewSessionPurgeService(service.SessionPurgeServiceOptions{
		Tracker:  tracker,
		Sessions: stack.Sessions,
		Provider: stack.Provider,
		Logger:   cmdCtx.Logger,
	})
	defer purger.Close()

	result := purger.PurgeSubject(ctx, opts.SubjectID)
	return printPurgeResult(opts.SubjectID, result)
}

func parsePurgeSessionsFlags(args []string) (purgeSessionsOptions, error) {
	fs := flag.NewFlagSet("purge-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := purgeSessionsOptions{
		Timeout: defaultCommandTimeout,
	}

	fs.StringVar(&opts.SubjectID, "subject-id", "", "Provider subject ID whose sessions should be destroyed (required)")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for store and provider operations")

	if err := fs.Parse(args); err != nil {
		return purgeSessionsOptions{}, err
	}

	opts.SubjectID = strings.TrimSpace(opts.SubjectID)
	if opts.SubjectID == "" {
		return purgeSessionsOptions{}, errors.New("--subject-id is required")
	}
	if opts.Timeout <= 0 {
		return purgeSessionsOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func printPurgeResult(subjectID string, result service.PurgeResult) error {
	if err := writef(os.Stdout, "Purged subject %q\n", subjectID); err != nil {
		return fmt.Errorf("print purge result: %w", err)
	}
	if err := writef(os.Stdout, "  Live sessions deleted: %d\n", result.SessionsDeleted); err != nil {
		return fmt.Errorf("print purge result: %w", err)
	}
	if err := writef(os.Stdout, "  Refresh tokens revoked: %d\n", result.TokensRevoked); err != nil {
		return fmt.Errorf("print purge result: %w", err)
	}
	if err := writef(os.Stdout, "  Login rows closed: %d\n", result.TrackerClosed); err != nil {
		return fmt.Errorf("print purge result: %w", err)
	}
	return nil
}
