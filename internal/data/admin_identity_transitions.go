package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data/pgxutil"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

// Approve moves the target to the approved status with the given role and
// stamps the approving actor. Re-approving with an identical role is a no-op
// error; approving away an approved super admin's role is quorum-guarded.
func (r *AdminIdentityRepo) Approve(
	ctx context.Context,
	targetID string,
	role model.AdminRole,
	actorSubjectID string,
) (*core.TransitionResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid admin role %q", role)
	}
	if strings.TrimSpace(actorSubjectID) == "" {
		return nil, errors.New("actor subject_id is required")
	}

	return r.transition(ctx, targetID, func(old *model.AdminIdentity) (transitionPlan, error) {
		if old.Status == model.StatusApproved && old.Role == role {
			return transitionPlan{}, ErrNoopTransition
		}
		if !old.EmailVerified {
			return transitionPlan{}, ErrEmailNotVerified
		}
		return transitionPlan{
			removesSuperAdmin: old.IsApprovedSuperAdmin() && role != model.RoleSuperAdmin,
			updateSet:         "role = $2, status = 'approved', approved_at = $3, approved_by = $4, updated_at = NOW()",
			updateArgs:        []any{role, r.timeProvider.Now().UTC(), actorSubjectID},
		}, nil
	})
}

// Suspend moves the target to the suspended status. Suspending the last
// approved super admin is rejected inside the same transaction.
func (r *AdminIdentityRepo) Suspend(ctx context.Context, targetID string) (*core.TransitionResult, error) {
	return r.transition(ctx, targetID, func(old *model.AdminIdentity) (transitionPlan, error) {
		if old.Status == model.StatusSuspended {
			return transitionPlan{}, ErrNoopTransition
		}
		return transitionPlan{
			removesSuperAdmin: old.IsApprovedSuperAdmin(),
			updateSet:         "status = 'suspended', updated_at = NOW()",
		}, nil
	})
}

// ChangeRole updates the target's role without touching its status.
// Demoting the last approved super admin is rejected.
func (r *AdminIdentityRepo) ChangeRole(
	ctx context.Context,
	targetID string,
	role model.AdminRole,
) (*core.TransitionResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid admin role %q", role)
	}

	return r.transition(ctx, targetID, func(old *model.AdminIdentity) (transitionPlan, error) {
		if old.Role == role {
			return transitionPlan{}, ErrNoopTransition
		}
		return transitionPlan{
			removesSuperAdmin: old.IsApprovedSuperAdmin() && role != model.RoleSuperAdmin,
			updateSet:         "role = $2, updated_at = NOW()",
			updateArgs:        []any{role},
		}, nil
	})
}

// Delete removes the target identity row and returns its final image.
// Deleting the last approved super admin is rejected, including when the
// actor is deleting themself.
func (r *AdminIdentityRepo) Delete(ctx context.Context, targetID string) (*model.AdminIdentity, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, errors.New("target subject_id is required")
	}

	var old *model.AdminIdentity
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			quorum, err := lockApprovedSuperAdmins(ctx, tx)
			if err != nil {
				return err
			}

			old, err = lockIdentityForUpdate(ctx, tx, targetID)
			if err != nil {
				return err
			}

			if old.IsApprovedSuperAdmin() && quorumSurvivors(quorum, targetID) == 0 {
				return ErrLastSuperAdmin
			}

			result, err := tx.Exec(ctx, `DELETE FROM admin_identities WHERE subject_id = $1`, targetID)
			if err != nil {
				return err
			}
			if result.RowsAffected() == 0 {
				return ErrAdminNotFound
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return old, nil
}

// transitionPlan describes the write a transition wants to make once the
// target row is locked and inspected.
type transitionPlan struct {
	removesSuperAdmin bool
	updateSet         string // SET clause; $1 is the target subject id
	updateArgs        []any  // Arguments for $2...
}

// transition runs one role/status change inside a single transaction.
// Lock order is fixed for every transition: first the approved super-admin
// rows (sorted, so concurrent transitions serialize instead of deadlocking),
// then the target row. The quorum count is taken from the locked set, so two
// concurrent demotions cannot both observe a surviving super admin.
func (r *AdminIdentityRepo) transition(
	ctx context.Context,
	targetID string,
	plan func(old *model.AdminIdentity) (transitionPlan, error),
) (*core.TransitionResult, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, errors.New("target subject_id is required")
	}

	var result core.TransitionResult
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			quorum, err := lockApprovedSuperAdmins(ctx, tx)
			if err != nil {
				return err
			}

			old, err := lockIdentityForUpdate(ctx, tx, targetID)
			if err != nil {
				return err
			}
			result.Old = old

			p, err := plan(old)
			if err != nil {
				return err
			}

			if p.removesSuperAdmin && quorumSurvivors(quorum, targetID) == 0 {
				return ErrLastSuperAdmin
			}

			query := `UPDATE admin_identities SET ` + p.updateSet +
				` WHERE subject_id = $1 RETURNING ` + adminIdentityColumns
			args := append([]any{targetID}, p.updateArgs...)

			rows, err := tx.Query(ctx, query, args...)
			if err != nil {
				return err
			}
			defer rows.Close()

			updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
			if err != nil {
				return err
			}
			result.New = &updated
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &result, nil
}

// lockApprovedSuperAdmins takes row locks on every currently approved
// super-admin row and returns their subject ids. The ORDER BY makes lock
// acquisition order deterministic across concurrent transactions.
func lockApprovedSuperAdmins(ctx context.Context, tx pgx.Tx) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT subject_id FROM admin_identities
		WHERE role = 'super_admin' AND status = 'approved'
		ORDER BY subject_id
		FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("lock super admin rows: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// lockIdentityForUpdate locks and returns the target row.
func lockIdentityForUpdate(ctx context.Context, tx pgx.Tx, subjectID string) (*model.AdminIdentity, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+adminIdentityColumns+` FROM admin_identities WHERE subject_id = $1 FOR UPDATE`,
		subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	identity, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminIdentity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// quorumSurvivors counts locked super-admin rows other than the target.
func quorumSurvivors(lockedSubjects []string, targetID string) int {
	survivors := 0
	for _, id := range lockedSubjects {
		if id != targetID {
			survivors++
		}
	}
	return survivors
}
