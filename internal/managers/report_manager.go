package managers

import (
	"context"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/JaineelPandya/social-book/internal/schemas"
)

// ReportMgr runs the read-only aggregate queries of the reporting command.
type ReportMgr interface {
	UsersSummary(ctx context.Context) (*schemas.UsersReportDTO, error)
	FilesSummary(ctx context.Context) (*schemas.FilesReportDTO, error)
	RecentUploads(ctx context.Context, limit int) ([]*schemas.ContentItem, error)
}

type ReportManager struct {
	pool interfaces.PgxPoolIface
}

func NewReportManager(pool interfaces.PgxPoolIface) *ReportManager {
	return &ReportManager{pool: pool}
}

func (rm *ReportManager) UsersSummary(ctx context.Context) (*schemas.UsersReportDTO, error) {
	report := &schemas.UsersReportDTO{}
	queryString := "SELECT COUNT(*), COUNT(*) FILTER (WHERE email_verified), COUNT(*) FILTER (WHERE is_active), " +
		"COUNT(*) FILTER (WHERE public_visibility AND is_active) FROM users"
	if err := rm.pool.QueryRow(ctx, queryString).Scan(&report.Total, &report.Verified, &report.Active, &report.Public); err != nil {
		return nil, err
	}
	return report, nil
}

// FilesSummary only counts active files.
func (rm *ReportManager) FilesSummary(ctx context.Context) (*schemas.FilesReportDTO, error) {
	report := &schemas.FilesReportDTO{ByVisibility: map[string]int{}}

	queryString := "SELECT visibility, COUNT(*), COALESCE(SUM(file_size), 0), COALESCE(SUM(download_count), 0) " +
		"FROM uploaded_files WHERE is_active GROUP BY visibility ORDER BY visibility"
	rows, err := rm.pool.Query(ctx, queryString)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var visibility string
		var count int
		var bytes, downloads int64
		if err := rows.Scan(&visibility, &count, &bytes, &downloads); err != nil {
			return nil, err
		}
		report.ByVisibility[visibility] = count
		report.ActiveFiles += count
		report.TotalBytes += bytes
		report.TotalDownloads += downloads
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

func (rm *ReportManager) RecentUploads(ctx context.Context, limit int) ([]*schemas.ContentItem, error) {
	queryString := "SELECT " + contentColumns + " FROM uploaded_files WHERE is_active ORDER BY created_at DESC LIMIT $1"
	rows, err := rm.pool.Query(ctx, queryString, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*schemas.ContentItem, 0)
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
