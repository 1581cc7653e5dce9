package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/chapelhq/backoffice-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowlistRepo_Upsert_Get_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAllowlistRepo(db)

		entry, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{
			Email: "  Pastor@Chapel.Example ",
			Note:  "weekly bulletin editor",
		}, "auth0|admin-1")
		require.NoError(t, err)
		assert.Equal(t, "pastor@chapel.example", entry.Email)
		assert.Equal(t, "weekly bulletin editor", entry.Note)
		assert.Equal(t, "auth0|admin-1", entry.AddedBy)
		assert.NotZero(t, entry.CreatedAt)

		// upserting the same email updates note and attribution in place
		updated, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{
			Email: "pastor@chapel.example",
			Note:  "now also approves hymns",
		}, "auth0|admin-2")
		require.NoError(t, err)
		assert.Equal(t, entry.Email, updated.Email)
		assert.Equal(t, "now also approves hymns", updated.Note)
		assert.Equal(t, "auth0|admin-2", updated.AddedBy)

		got, err := repo.GetByEmail(ctx, "pastor@chapel.example")
		require.NoError(t, err)
		assert.Equal(t, updated.Note, got.Note)

		_, err = repo.GetByEmail(ctx, "stranger@chapel.example")
		require.ErrorIs(t, err, ErrAllowlistNotFound)

		// delete returns the removed entry
		deleted, err := repo.Delete(ctx, "pastor@chapel.example")
		require.NoError(t, err)
		assert.Equal(t, "now also approves hymns", deleted.Note)

		_, err = repo.Delete(ctx, "pastor@chapel.example")
		require.ErrorIs(t, err, ErrAllowlistNotFound)
	})
}

func TestAllowlistRepo_MatchEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAllowlistRepo(db)

		_, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{Email: "@chapel.example"}, "auth0|admin-1")
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, &model.UpsertAllowlistRequest{
			Email: "deacon@chapel.example",
			Note:  "exact entry",
		}, "auth0|admin-1")
		require.NoError(t, err)

		// exact entry wins over the domain rule
		m, err := repo.MatchEmail(ctx, "Deacon@Chapel.Example")
		require.NoError(t, err)
		assert.Equal(t, "deacon@chapel.example", m.Email)
		assert.False(t, m.IsDomainRule())

		// anyone else at the domain falls through to the domain rule
		m2, err := repo.MatchEmail(ctx, "organist@chapel.example")
		require.NoError(t, err)
		assert.Equal(t, "@chapel.example", m2.Email)
		assert.True(t, m2.IsDomainRule())

		// other domains do not match
		_, err = repo.MatchEmail(ctx, "organist@other.example")
		require.ErrorIs(t, err, ErrAllowlistNotFound)
	})
}

func TestAllowlistRepo_List(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAllowlistRepo(db)

		for _, email := range []string{"a@chapel.example", "b@chapel.example", "@vestry.example"} {
			_, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{Email: email}, "auth0|admin-1")
			require.NoError(t, err)
		}
		_, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{
			Email: "c@chapel.example",
			Note:  "choir director",
		}, "auth0|admin-1")
		require.NoError(t, err)

		all, err := repo.List(ctx, model.AllowlistListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		// ordered by email; domain rules sort first because of the @ prefix
		assert.Equal(t, "@vestry.example", all[0].Email)

		search := "choir"
		byNote, err := repo.List(ctx, model.AllowlistListOptions{Search: &search})
		require.NoError(t, err)
		require.Len(t, byNote, 1)
		assert.Equal(t, "c@chapel.example", byNote[0].Email)

		page, err := repo.List(ctx, model.AllowlistListOptions{Limit: 2, Offset: 3})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

func TestAllowlistRepo_Upsert_ValidationErrors(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAllowlistRepo(db)

		_, err := repo.Upsert(ctx, &model.UpsertAllowlistRequest{Email: " "}, "auth0|admin-1")
		require.Error(t, err)

		_, err = repo.Upsert(ctx, &model.UpsertAllowlistRequest{Email: "no-at-sign"}, "auth0|admin-1")
		require.Error(t, err)

		_, err = repo.Upsert(ctx, nil, "auth0|admin-1")
		require.Error(t, err)

		_, err = repo.Upsert(ctx, &model.UpsertAllowlistRequest{Email: "x@chapel.example"}, "")
		require.Error(t, err)
	})
}
