package managers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/JaineelPandya/social-book/internal/metrics"
	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/JaineelPandya/social-book/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contentColumns = "file_id, user_id, title, description, blob_key, original_name, year_published, cost_cents, " +
	"visibility, is_active, file_size, download_count, created_at, updated_at"

// NewContentItem holds the metadata of an upload.
type NewContentItem struct {
	Title         string
	Description   *string
	OriginalName  string
	YearPublished *int
	CostCents     int64
	Visibility    schemas.Visibility
}

// ContentUpdate holds the changes of an owner's update. Nil fields are left unchanged.
type ContentUpdate struct {
	Title         *string
	Description   *string
	YearPublished *int
	CostCents     *int64
	Visibility    *schemas.Visibility
	IsActive      *bool
}

const enrollmentColumns = "enrollment_id, file_id, user_id, COALESCE(payload->>'name', ''), " +
	"COALESCE(payload->>'price', ''), created_at, updated_at"

// EnrollmentUpdate holds the enrollment fields to store. Empty fields keep the stored value.
type EnrollmentUpdate struct {
	Name  string
	Price string
}

// ContentMgr manages uploaded files: their metadata rows and their blobs.
type ContentMgr interface {
	CreateItem(ctx context.Context, ownerId uuid.UUID, item NewContentItem, content io.Reader) (*schemas.ContentItem, error)
	GetItem(ctx context.Context, fileId uuid.UUID) (*schemas.ContentItem, error)
	ListOwned(ctx context.Context, ownerId uuid.UUID, offset, limit int) ([]*schemas.ContentItem, int, error)
	ListVisible(ctx context.Context, ownerId uuid.UUID, offset, limit int) ([]*schemas.ContentItem, int, error)
	UpdateItem(ctx context.Context, fileId uuid.UUID, update ContentUpdate) (*schemas.ContentItem, error)
	DeleteItem(ctx context.Context, fileId uuid.UUID) error
	OpenItem(ctx context.Context, item *schemas.ContentItem) (io.ReadCloser, error)
	GetEnrollment(ctx context.Context, item *schemas.ContentItem) (*schemas.Enrollment, error)
	SaveEnrollment(ctx context.Context, item *schemas.ContentItem, update EnrollmentUpdate) (*schemas.Enrollment, error)
	Dashboard(ctx context.Context, userId uuid.UUID) (*schemas.DashboardDTO, error)
}

// ContentManager stores metadata in uploaded_files and the bytes in a BlobStore.
type ContentManager struct {
	pool  interfaces.PgxPoolIface
	blobs BlobStore
	now   func() time.Time
}

func NewContentManager(pool interfaces.PgxPoolIface, blobs BlobStore) *ContentManager {
	return &ContentManager{pool: pool, blobs: blobs, now: time.Now}
}

// CreateItem writes the blob first and records the number of bytes actually stored as the file size.
// If the row cannot be inserted, the blob is removed again.
func (cm *ContentManager) CreateItem(ctx context.Context, ownerId uuid.UUID, item NewContentItem, content io.Reader) (*schemas.ContentItem, error) {
	now := cm.now().UTC()
	fileId := uuid.New()
	blobKey := fmt.Sprintf("uploads/%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), fileId,
		strings.ToLower(filepath.Ext(item.OriginalName)))

	size, err := cm.blobs.Put(ctx, blobKey, content)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	visibility := item.Visibility
	if visibility == "" {
		visibility = schemas.VisibilityPrivate
	}

	queryString := "INSERT INTO uploaded_files (file_id, user_id, title, description, blob_key, original_name, " +
		"year_published, cost_cents, visibility, is_active, file_size, download_count, created_at, updated_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10, 0, $11, $11) RETURNING " + contentColumns
	created, err := scanContentItem(cm.pool.QueryRow(ctx, queryString, fileId, ownerId, item.Title, item.Description,
		blobKey, item.OriginalName, item.YearPublished, item.CostCents, string(visibility), size, now))
	if err != nil {
		if deleteErr := cm.blobs.Delete(ctx, blobKey); deleteErr != nil {
			utils.LogMessageWithFieldsAndError(ctx, "error", "Could not remove orphaned blob "+blobKey, deleteErr)
		}
		return nil, err
	}

	metrics.UploadedBytesTotal.Add(float64(size))
	utils.LogMessageWithFields(ctx, "info", "Stored file "+fileId.String())
	return created, nil
}

// GetItem returns the item regardless of its visibility, or ErrNotFound.
func (cm *ContentManager) GetItem(ctx context.Context, fileId uuid.UUID) (*schemas.ContentItem, error) {
	queryString := "SELECT " + contentColumns + " FROM uploaded_files WHERE file_id = $1"
	return scanContentItem(cm.pool.QueryRow(ctx, queryString, fileId))
}

// ListOwned returns the active items of the owner, newest first.
func (cm *ContentManager) ListOwned(ctx context.Context, ownerId uuid.UUID, offset, limit int) ([]*schemas.ContentItem, int, error) {
	return cm.list(ctx, "WHERE user_id = $1 AND is_active", []interface{}{ownerId}, offset, limit)
}

// ListVisible returns the active, public items of the owner as seen by other users, newest first.
func (cm *ContentManager) ListVisible(ctx context.Context, ownerId uuid.UUID, offset, limit int) ([]*schemas.ContentItem, int, error) {
	return cm.list(ctx, "WHERE user_id = $1 AND is_active AND visibility = $2",
		[]interface{}{ownerId, string(schemas.VisibilityPublic)}, offset, limit)
}

func (cm *ContentManager) list(ctx context.Context, whereClause string, args []interface{}, offset, limit int) ([]*schemas.ContentItem, int, error) {
	var total int
	countQuery := "SELECT COUNT(*) FROM uploaded_files " + whereClause
	if err := cm.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	queryString := fmt.Sprintf("SELECT %s FROM uploaded_files %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d",
		contentColumns, whereClause, len(args)+1, len(args)+2)
	rows, err := cm.pool.Query(ctx, queryString, append(args, offset, limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]*schemas.ContentItem, 0)
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// UpdateItem applies the non-nil fields of the update.
func (cm *ContentManager) UpdateItem(ctx context.Context, fileId uuid.UUID, update ContentUpdate) (*schemas.ContentItem, error) {
	var visibility *string
	if update.Visibility != nil {
		value := string(*update.Visibility)
		visibility = &value
	}

	queryString := "UPDATE uploaded_files SET title = COALESCE($2, title), description = COALESCE($3, description), " +
		"year_published = COALESCE($4, year_published), cost_cents = COALESCE($5, cost_cents), " +
		"visibility = COALESCE($6, visibility), is_active = COALESCE($7, is_active), updated_at = $8 " +
		"WHERE file_id = $1 RETURNING " + contentColumns
	return scanContentItem(cm.pool.QueryRow(ctx, queryString, fileId, update.Title, update.Description,
		update.YearPublished, update.CostCents, visibility, update.IsActive, cm.now().UTC()))
}

// DeleteItem removes the row and the blob. The row is only deleted if the blob could be removed.
func (cm *ContentManager) DeleteItem(ctx context.Context, fileId uuid.UUID) error {
	return utils.WithTransaction(ctx, cm.pool, func(tx pgx.Tx) error {
		var blobKey string
		queryString := "DELETE FROM uploaded_files WHERE file_id = $1 RETURNING blob_key"
		if err := tx.QueryRow(ctx, queryString, fileId).Scan(&blobKey); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if err := cm.blobs.Delete(ctx, blobKey); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
		utils.LogMessageWithFields(ctx, "info", "Deleted file "+fileId.String())
		return nil
	})
}

// OpenItem opens the blob of the item for reading and counts the download.
func (cm *ContentManager) OpenItem(ctx context.Context, item *schemas.ContentItem) (io.ReadCloser, error) {
	content, err := cm.blobs.Get(ctx, item.BlobKey)
	if err != nil {
		return nil, err
	}

	queryString := "UPDATE uploaded_files SET download_count = download_count + 1 WHERE file_id = $1"
	if _, err := cm.pool.Exec(ctx, queryString, item.ID); err != nil {
		_ = content.Close()
		return nil, err
	}

	metrics.DownloadsTotal.Inc()
	return content, nil
}

// GetEnrollment returns the enrollment of the item's owner, creating an empty one on first access.
func (cm *ContentManager) GetEnrollment(ctx context.Context, item *schemas.ContentItem) (*schemas.Enrollment, error) {
	queryString := "INSERT INTO enrollments (enrollment_id, file_id, user_id, payload, created_at, updated_at) " +
		"VALUES ($1, $2, $3, '{}', $4, $4) ON CONFLICT (file_id, user_id) DO UPDATE SET payload = enrollments.payload " +
		"RETURNING " + enrollmentColumns
	return scanEnrollment(cm.pool.QueryRow(ctx, queryString, uuid.New(), item.ID, item.OwnerID, cm.now().UTC()))
}

// SaveEnrollment merges the non-empty fields of the update into the enrollment of the item's owner.
func (cm *ContentManager) SaveEnrollment(ctx context.Context, item *schemas.ContentItem, update EnrollmentUpdate) (*schemas.Enrollment, error) {
	queryString := "INSERT INTO enrollments (enrollment_id, file_id, user_id, payload, created_at, updated_at) " +
		"VALUES ($1, $2, $3, jsonb_strip_nulls(jsonb_build_object('name', NULLIF($4, ''), 'price', NULLIF($5, ''))), $6, $6) " +
		"ON CONFLICT (file_id, user_id) DO UPDATE SET payload = enrollments.payload || EXCLUDED.payload, " +
		"updated_at = EXCLUDED.updated_at RETURNING " + enrollmentColumns
	enrollment, err := scanEnrollment(cm.pool.QueryRow(ctx, queryString, uuid.New(), item.ID, item.OwnerID,
		update.Name, update.Price, cm.now().UTC()))
	if err != nil {
		return nil, err
	}

	utils.LogMessageWithFields(ctx, "info", "Saved enrollment data of file "+item.ID.String())
	return enrollment, nil
}

// Dashboard counts the active files and the enrollments of the user.
func (cm *ContentManager) Dashboard(ctx context.Context, userId uuid.UUID) (*schemas.DashboardDTO, error) {
	dashboard := &schemas.DashboardDTO{}
	queryString := "SELECT (SELECT COUNT(*) FROM uploaded_files WHERE user_id = $1 AND is_active), " +
		"(SELECT COUNT(*) FROM enrollments WHERE user_id = $1)"
	if err := cm.pool.QueryRow(ctx, queryString, userId).Scan(&dashboard.ActiveFiles, &dashboard.Enrollments); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func scanEnrollment(row pgx.Row) (*schemas.Enrollment, error) {
	enrollment := &schemas.Enrollment{}
	err := row.Scan(&enrollment.ID, &enrollment.FileID, &enrollment.UserID, &enrollment.Name, &enrollment.Price,
		&enrollment.CreatedAt, &enrollment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan enrollment: %w", err)
	}
	return enrollment, nil
}

func scanContentItem(row pgx.Row) (*schemas.ContentItem, error) {
	item := &schemas.ContentItem{}
	var visibility string
	err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.BlobKey, &item.OriginalName,
		&item.YearPublished, &item.CostCents, &visibility, &item.IsActive, &item.FileSize, &item.DownloadCount,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}
	item.Visibility = schemas.Visibility(visibility)
	return item, nil
}
