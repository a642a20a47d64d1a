package managers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaineelPandya/social-book/internal/managers/mocks"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var uploadTime = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// capture is a pgxmock argument that records the value it was called with.
type capture struct {
	value *interface{}
}

func (c capture) Match(v interface{}) bool {
	*c.value = v
	return true
}

func setupContentManager(t *testing.T, blobs BlobStore) (*ContentManager, pgxmock.PgxPoolIface) {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	contentMgr := NewContentManager(pool, blobs)
	contentMgr.now = func() time.Time { return uploadTime }
	return contentMgr, pool
}

func TestCreateItemRecordsStoredSize(t *testing.T) {
	blobs := NewDiskBlobStore(t.TempDir())
	contentMgr, pool := setupContentManager(t, blobs)
	owner := uuid.New()
	content := []byte("%PDF-1.7 analytical engine notes")

	var blobKey interface{}
	args := anyArgs(11)
	args[1] = owner
	args[4] = capture{&blobKey}
	args[8] = "public"
	args[9] = int64(len(content))
	args[10] = uploadTime

	stored := newTestItem(owner, schemas.VisibilityPublic)
	stored.FileSize = int64(len(content))
	pool.ExpectQuery("INSERT INTO uploaded_files").WithArgs(args...).WillReturnRows(contentRows(stored))

	created, err := contentMgr.CreateItem(context.Background(), owner, NewContentItem{
		Title:        "The Analytical Engine",
		OriginalName: "Engine.PDF",
		CostCents:    1250,
		Visibility:   schemas.VisibilityPublic,
	}, bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), created.FileSize)
	assert.Equal(t, schemas.VisibilityPublic, created.Visibility)
	require.NoError(t, pool.ExpectationsWereMet())

	key, ok := blobKey.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(key, "uploads/2026/03/14/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	reader, err := blobs.Get(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestCreateItemRemovesBlobOnInsertFailure(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	contentMgr, pool := setupContentManager(t, blobs)

	isUploadKey := mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "uploads/2026/03/14/") })
	blobs.On("Put", mock.Anything, isUploadKey).Return(int64(5), nil)
	blobs.On("Delete", mock.Anything, isUploadKey).Return(nil)
	pool.ExpectQuery("INSERT INTO uploaded_files").WithArgs(anyArgs(11)...).WillReturnError(errors.New("disk full"))

	_, err := contentMgr.CreateItem(context.Background(), uuid.New(), NewContentItem{Title: "Notes", OriginalName: "notes.txt"},
		strings.NewReader("hello"))
	require.Error(t, err)

	blobs.AssertCalled(t, "Delete", mock.Anything, isUploadKey)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCreateItemBlobFailure(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	contentMgr, pool := setupContentManager(t, blobs)
	blobs.On("Put", mock.Anything, mock.Anything).Return(int64(0), errors.New("bucket unavailable"))

	_, err := contentMgr.CreateItem(context.Background(), uuid.New(), NewContentItem{Title: "Notes", OriginalName: "notes.txt"},
		strings.NewReader("hello"))
	require.Error(t, err)

	// No row without a blob
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestGetItem(t *testing.T) {
	contentMgr, pool := setupContentManager(t, &mocks.MockBlobStore{})
	item := newTestItem(uuid.New(), schemas.VisibilityFollowers)

	pool.ExpectQuery("FROM uploaded_files WHERE file_id").WithArgs(item.ID).WillReturnRows(contentRows(item))
	found, err := contentMgr.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, schemas.VisibilityFollowers, found.Visibility)
	assert.Equal(t, item.OwnerID, found.OwnerID)

	pool.ExpectQuery("FROM uploaded_files WHERE file_id").WithArgs(item.ID).WillReturnRows(contentRows())
	_, err = contentMgr.GetItem(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListVisible(t *testing.T) {
	contentMgr, pool := setupContentManager(t, &mocks.MockBlobStore{})
	owner := uuid.New()
	item := newTestItem(owner, schemas.VisibilityPublic)

	pool.ExpectQuery("SELECT COUNT").WithArgs(owner, "public").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	pool.ExpectQuery("ORDER BY created_at DESC OFFSET \\$3 LIMIT \\$4").WithArgs(owner, "public", 0, 10).
		WillReturnRows(contentRows(item))

	items, total, err := contentMgr.ListVisible(context.Background(), owner, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListOwned(t *testing.T) {
	contentMgr, pool := setupContentManager(t, &mocks.MockBlobStore{})
	owner := uuid.New()

	pool.ExpectQuery("SELECT COUNT").WithArgs(owner).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	pool.ExpectQuery("ORDER BY created_at DESC OFFSET \\$2 LIMIT \\$3").WithArgs(owner, 0, 10).
		WillReturnRows(contentRows(newTestItem(owner, schemas.VisibilityPrivate), newTestItem(owner, schemas.VisibilityPublic)))

	items, total, err := contentMgr.ListOwned(context.Background(), owner, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestDeleteItem(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	contentMgr, pool := setupContentManager(t, blobs)
	item := newTestItem(uuid.New(), schemas.VisibilityPrivate)

	blobs.On("Delete", mock.Anything, item.BlobKey).Return(nil)
	pool.ExpectBegin()
	pool.ExpectQuery("DELETE FROM uploaded_files").WithArgs(item.ID).
		WillReturnRows(pgxmock.NewRows([]string{"blob_key"}).AddRow(item.BlobKey))
	pool.ExpectCommit()

	require.NoError(t, contentMgr.DeleteItem(context.Background(), item.ID))
	blobs.AssertCalled(t, "Delete", mock.Anything, item.BlobKey)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestDeleteItemKeepsRowWhenBlobDeleteFails(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	contentMgr, pool := setupContentManager(t, blobs)
	item := newTestItem(uuid.New(), schemas.VisibilityPrivate)

	blobs.On("Delete", mock.Anything, item.BlobKey).Return(errors.New("bucket unavailable"))
	pool.ExpectBegin()
	pool.ExpectQuery("DELETE FROM uploaded_files").WithArgs(item.ID).
		WillReturnRows(pgxmock.NewRows([]string{"blob_key"}).AddRow(item.BlobKey))
	pool.ExpectRollback()

	assert.Error(t, contentMgr.DeleteItem(context.Background(), item.ID))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestDeleteUnknownItem(t *testing.T) {
	blobs := &mocks.MockBlobStore{}
	contentMgr, pool := setupContentManager(t, blobs)
	fileId := uuid.New()

	pool.ExpectBegin()
	pool.ExpectQuery("DELETE FROM uploaded_files").WithArgs(fileId).
		WillReturnRows(pgxmock.NewRows([]string{"blob_key"}))
	pool.ExpectRollback()

	assert.ErrorIs(t, contentMgr.DeleteItem(context.Background(), fileId), ErrNotFound)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestOpenItemCountsDownload(t *testing.T) {
	blobs := NewDiskBlobStore(t.TempDir())
	contentMgr, pool := setupContentManager(t, blobs)
	item := newTestItem(uuid.New(), schemas.VisibilityPublic)

	_, err := blobs.Put(context.Background(), item.BlobKey, strings.NewReader("engine"))
	require.NoError(t, err)

	pool.ExpectExec("SET download_count").WithArgs(item.ID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	reader, err := contentMgr.OpenItem(context.Background(), item)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "engine", string(data))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestOpenItemMissingBlob(t *testing.T) {
	root := t.TempDir()
	contentMgr, pool := setupContentManager(t, NewDiskBlobStore(root))
	item := newTestItem(uuid.New(), schemas.VisibilityPublic)

	_, err := contentMgr.OpenItem(context.Background(), item)
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(filepath.Join(root, "uploads"))
	assert.True(t, os.IsNotExist(statErr))
	assert.NoError(t, pool.ExpectationsWereMet())
}

var enrollmentColumnNames = []string{"enrollment_id", "file_id", "user_id", "name", "price", "created_at", "updated_at"}

func TestGetEnrollmentCreatesEmptyRecord(t *testing.T) {
	contentMgr, pool := setupContentManager(t, NewDiskBlobStore(t.TempDir()))
	item := newTestItem(uuid.New(), schemas.VisibilityPrivate)
	enrollmentId := uuid.New()

	pool.ExpectQuery("INSERT INTO enrollments .* ON CONFLICT \\(file_id, user_id\\) DO UPDATE SET payload = enrollments.payload").
		WithArgs(pgxmock.AnyArg(), item.ID, item.OwnerID, uploadTime).
		WillReturnRows(pgxmock.NewRows(enrollmentColumnNames).
			AddRow(enrollmentId, item.ID, item.OwnerID, "", "", uploadTime, uploadTime))

	enrollment, err := contentMgr.GetEnrollment(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, enrollmentId, enrollment.ID)
	assert.Equal(t, item.ID, enrollment.FileID)
	assert.Empty(t, enrollment.Name)
	assert.Empty(t, enrollment.Price)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestSaveEnrollmentMergesFields(t *testing.T) {
	contentMgr, pool := setupContentManager(t, NewDiskBlobStore(t.TempDir()))
	item := newTestItem(uuid.New(), schemas.VisibilityPrivate)

	pool.ExpectQuery("INSERT INTO enrollments .* payload = enrollments.payload \\|\\| EXCLUDED.payload").
		WithArgs(pgxmock.AnyArg(), item.ID, item.OwnerID, "", "19.99", uploadTime).
		WillReturnRows(pgxmock.NewRows(enrollmentColumnNames).
			AddRow(uuid.New(), item.ID, item.OwnerID, "Spring edition", "19.99", uploadTime, uploadTime))

	enrollment, err := contentMgr.SaveEnrollment(context.Background(), item, EnrollmentUpdate{Price: "19.99"})
	require.NoError(t, err)
	assert.Equal(t, "Spring edition", enrollment.Name)
	assert.Equal(t, "19.99", enrollment.Price)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestSaveEnrollmentDatabaseError(t *testing.T) {
	contentMgr, pool := setupContentManager(t, NewDiskBlobStore(t.TempDir()))
	item := newTestItem(uuid.New(), schemas.VisibilityPrivate)

	pool.ExpectQuery("INSERT INTO enrollments").WithArgs(anyArgs(6)...).WillReturnError(errors.New("connection reset"))

	_, err := contentMgr.SaveEnrollment(context.Background(), item, EnrollmentUpdate{Name: "Spring edition"})
	require.Error(t, err)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestDashboard(t *testing.T) {
	contentMgr, pool := setupContentManager(t, NewDiskBlobStore(t.TempDir()))
	userId := uuid.New()

	pool.ExpectQuery("FROM uploaded_files WHERE user_id = \\$1 AND is_active\\), \\(SELECT COUNT\\(\\*\\) FROM enrollments").
		WithArgs(userId).
		WillReturnRows(pgxmock.NewRows([]string{"active_files", "enrollments"}).AddRow(3, 2))

	dashboard, err := contentMgr.Dashboard(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.ActiveFiles)
	assert.Equal(t, 2, dashboard.Enrollments)
	require.NoError(t, pool.ExpectationsWereMet())
}
