package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

const (
	defaultListAdminsLimit = 50
)

type seedSuperAdminOptions struct {
	SubjectID string
	Email     string
	FullName  string
	Timeout   time.Duration
}

type listAdminsOptions struct {
	Status  string
	Role    string
	Search  string
	Limit   int
	Offset  int
	Timeout time.Duration
}

func runSeedSuperAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseSeedSuperAdminFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewAdminIdentityRepo(db, data.AdminRepoConfig{Logger: cmdCtx.Logger})

		identity, seedErr := repo.SeedSuperAdmin(ctx, opts.SubjectID, opts.Email, opts.FullName)
		if seedErr != nil {
			return fmt.Errorf("seed super admin: %w", seedErr)
		}

		return printSeededAdmin(identity)
	})
}

func printSeededAdmin(identity *model.AdminIdentity) error {
	if identity == nil {
		return errors.New("seeded identity is missing")
	}
	if err := writef(
		os.Stdout,
		"Seeded super admin %s (%s)\n",
		identity.SubjectID,
		identity.Email,
	); err != nil {
		return fmt.Errorf("print seeded admin: %w", err)
	}
	if err := writef(os.Stdout, "  Role: %s | Status: %s\n", identity.Role, identity.Status); err != nil {
		return fmt.Errorf("print seeded admin: %w", err)
	}
	approvedBy := "-"
	if identity.ApprovedBy != nil && *identity.ApprovedBy != "" {
		approvedBy = *identity.ApprovedBy
	}
	approvedAt := "-"
	if identity.ApprovedAt != nil {
		approvedAt = formatTimestamp(*identity.ApprovedAt)
	}
	if err := writef(os.Stdout, "  Approved by %s at %s\n", approvedBy, approvedAt); err != nil {
		return fmt.Errorf("print seeded admin: %w", err)
	}
	return nil
}

func parseSeedSuperAdminFlags(args []string) (seedSuperAdminOptions, error) {
	fs := flag.NewFlagSet("seed-super-admin", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := seedSuperAdminOptions{
		Timeout: defaultCommandTimeout,
	}

	fs.StringVar(&opts.SubjectID, "subject-id", "", "Provider subject ID of the admin (required)")
	fs.StringVar(&opts.Email, "email", "", "Admin email address (required)")
	fs.StringVar(&opts.FullName, "full-name", "", "Display name stored on the identity")
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for database operations")

	if err := fs.Parse(args); err != nil {
		return seedSuperAdminOptions{}, err
	}

	opts.SubjectID = strings.TrimSpace(opts.SubjectID)
	opts.Email = strings.TrimSpace(opts.Email)
	opts.FullName = strings.TrimSpace(opts.FullName)

	if opts.SubjectID == "" {
		return seedSuperAdminOptions{}, errors.New("--subject-id is required")
	}
	if opts.Email == "" || !strings.Contains(opts.Email, "@") {
		return seedSuperAdminOptions{}, errors.New("--email must be a valid address")
	}
	if opts.Timeout <= 0 {
		return seedSuperAdminOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func runListAdmins(cmdCtx *commandContext, args []string) error {
	opts, listOpts, err := parseListAdminsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewAdminIdentityRepo(db, data.AdminRepoConfig{Logger: cmdCtx.Logger})

		identities, listErr := repo.List(ctx, listOpts)
		if listErr != nil {
			return fmt.Errorf("list admins: %w", listErr)
		}

		total := -1
		if listOpts.Status == nil && listOpts.Role == nil && listOpts.Search == nil {
			if total, listErr = repo.CountTotal(ctx); listErr != nil {
				return fmt.Errorf("count admins: %w", listErr)
			}
		}

		return printAdminRows(identities, &opts, total)
	})
}

func parseListAdminsFlags(args []string) (listAdminsOptions, model.AdminListOptions, error) {
	fs := flag.NewFlagSet("list-admins", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := listAdminsOptions{
		Limit:   defaultListAdminsLimit,
		Timeout: defaultCommandTimeout,
	}

	fs.StringVar(&opts.Status, "status", "", "Filter by status (pending_approval|approved|suspended)")
	fs.StringVar(&opts.Role, "role", "", "Filter by role (super_admin|admin_ops)")
	fs.StringVar(&opts.Search, "search", "", "Match against email or full name")
	fs.IntVar(&opts.Limit, "limit", opts.Limit, "Maximum rows to return (0 for no limit)")
	fs.IntVar(&opts.Offset, "offset", 0, "Rows to skip before returning results")
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for database operations")

	if err := fs.Parse(args); err != nil {
		return listAdminsOptions{}, model.AdminListOptions{}, err
	}

	if opts.Limit < 0 {
		return listAdminsOptions{}, model.AdminListOptions{}, errors.New("--limit must be zero or positive")
	}
	if opts.Offset < 0 {
		return listAdminsOptions{}, model.AdminListOptions{}, errors.New("--offset must be zero or positive")
	}
	if opts.Timeout <= 0 {
		return listAdminsOptions{}, model.AdminListOptions{}, errors.New("--timeout must be greater than zero")
	}

	listOpts := model.AdminListOptions{
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	if strings.TrimSpace(opts.Status) != "" {
		status, err := model.ParseAdminStatus(opts.Status)
		if err != nil {
			return listAdminsOptions{}, model.AdminListOptions{}, err
		}
		listOpts.Status = &status
	}
	if strings.TrimSpace(opts.Role) != "" {
		role, err := model.ParseAdminRole(opts.Role)
		if err != nil {
			return listAdminsOptions{}, model.AdminListOptions{}, err
		}
		listOpts.Role = &role
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		listOpts.Search = &search
	}

	return opts, listOpts, nil
}

func printAdminRows(identities []*model.AdminIdentity, opts *listAdminsOptions, total int) error {
	if opts == nil {
		return errors.New("list options are required")
	}
	if err := writef(os.Stdout, "\nAdmin directory"); err != nil {
		return fmt.Errorf("write admin list header: %w", err)
	}
	if err := writeAdminHeaderInfo(opts); err != nil {
		return err
	}
	if err := writeln(os.Stdout); err != nil {
		return fmt.Errorf("write admin list header newline: %w", err)
	}

	if len(identities) == 0 {
		if err := writeln(os.Stdout, "  (no admins found)"); err != nil {
			return fmt.Errorf("write admin list empty message: %w", err)
		}
		return nil
	}

	if err := renderAdminTable(identities); err != nil {
		return err
	}

	if total >= 0 {
		if err := writef(os.Stdout, "Total admins: %d\n", total); err != nil {
			return fmt.Errorf("write admin list total: %w", err)
		}
	}
	if opts.Limit > 0 && len(identities) == opts.Limit {
		if err := writeln(os.Stdout, "More rows may be available; adjust --offset or --limit to view additional data."); err != nil {
			return fmt.Errorf("write admin list more-rows message: %w", err)
		}
	}
	return nil
}

func writeAdminHeaderInfo(opts *listAdminsOptions) error {
	filters := make([]string, 0, 3)
	if strings.TrimSpace(opts.Status) != "" {
		filters = append(filters, "status="+strings.TrimSpace(opts.Status))
	}
	if strings.TrimSpace(opts.Role) != "" {
		filters = append(filters, "role="+strings.TrimSpace(opts.Role))
	}
	if strings.TrimSpace(opts.Search) != "" {
		filters = append(filters, "search="+strings.TrimSpace(opts.Search))
	}
	if len(filters) > 0 {
		if err := writef(os.Stdout, " (%s)", strings.Join(filters, ", ")); err != nil {
			return fmt.Errorf("write admin list filters: %w", err)
		}
	}

	switch {
	case opts.Limit > 0:
		if err := writef(os.Stdout, " (limit %d, offset %d)", opts.Limit, opts.Offset); err != nil {
			return fmt.Errorf("write admin list limit: %w", err)
		}
	case opts.Offset > 0:
		if err := writef(os.Stdout, " (offset %d)", opts.Offset); err != nil {
			return fmt.Errorf("write admin list offset: %w", err)
		}
	}
	return nil
}

func renderAdminTable(identities []*model.AdminIdentity) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SUBJECT ID\tEMAIL\tNAME\tROLE\tSTATUS\tVERIFIED\tCREATED (UTC)"); err != nil {
		return fmt.Errorf("write admin header row: %w", err)
	}

	for _, identity := range identities {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			identity.SubjectID,
			identity.Email,
			identity.FullName,
			identity.Role,
			identity.Status,
			identity.EmailVerified,
			formatTimestamp(identity.CreatedAt),
		); err != nil {
			return fmt.Errorf("write admin row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush admin table: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
