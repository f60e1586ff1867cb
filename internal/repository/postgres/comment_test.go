package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanuelmandefro3/amr-blog/internal/domain"
	"github.com/amanuelmandefro3/amr-blog/pkg/database"
	apperrors "github.com/amanuelmandefro3/amr-blog/pkg/errors"
)

func newCommentTestFixture(t *testing.T) (*CommentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCommentRepository(mock)
	return repo, mock
}

func commentCols() []string {
	return []string{"id", "blog_id", "author_id", "content", "created_at", "updated_at"}
}

func TestCommentRepository_Create_BlogGone(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	c := &domain.Comment{
		ID:       "comment-1",
		BlogID:   "blog-missing",
		AuthorID: "user-1",
		Content:  "First!",
	}
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(c.ID, c.BlogID, c.AuthorID, c.Content, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New(`insert or update on table "comments" violates foreign key constraint (SQLSTATE 23503)`))

	err := repo.Create(context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByBlog_NewestFirst(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(commentCols()).
		AddRow("comment-2", "blog-1", "user-2", "Newer", now, now).
		AddRow("comment-1", "blog-1", "user-1", "Older", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM comments(.+)ORDER BY created_at DESC").
		WithArgs("blog-1").
		WillReturnRows(rows)

	comments, err := repo.ListByBlog(context.Background(), "blog-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "comment-2", comments[0].ID)
	assert.True(t, comments[0].CreatedAt.After(comments[1].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM comments").
		WithArgs("comment-missing").
		WillReturnRows(pgxmock.NewRows(commentCols()))

	got, err := repo.GetByID(context.Background(), "comment-missing")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Update_Success(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	c := &domain.Comment{ID: "comment-1", Content: "Edited"}
	mock.ExpectExec("UPDATE comments SET content =").
		WithArgs(c.Content, pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), c)
	require.NoError(t, err)
	assert.False(t, c.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Update_CommentGone(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	c := &domain.Comment{ID: "comment-missing", Content: "Edited"}
	mock.ExpectExec("UPDATE comments SET content =").
		WithArgs(c.Content, pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Delete_Success(t *testing.T) {
	repo, mock := newCommentTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM comments").
		WithArgs("comment-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "comment-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
