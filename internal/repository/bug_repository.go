package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// BugFilter captures bug listing parameters. ProjectIDs narrows the result
// to a membership scope; an empty non-nil slice matches nothing.
type BugFilter struct {
	ProjectID  *string
	ProjectIDs []string
	AssignedTo *string
	Statuses   []domain.BugStatus
	Types      []domain.BugType
	Limit      int
	Offset     int
}

// BugRepository encapsulates bug persistence.
type BugRepository interface {
	Create(ctx context.Context, bug *domain.Bug) error
	Update(ctx context.Context, bug *domain.Bug) error
	GetByID(ctx context.Context, id string) (*domain.Bug, error)
	ListWithFilter(ctx context.Context, filter BugFilter) ([]domain.Bug, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

type bugRepository struct {
	pool *pgxpool.Pool
}

// NewBugRepository instantiates repository.
func NewBugRepository(pool *pgxpool.Pool) BugRepository {
	return &bugRepository{pool: pool}
}

const bugColumns = `id, title, type, status, description, deadline, project_id, created_by, assigned_to,
        screenshot_data, screenshot_mime, screenshot_size, created_at, updated_at`

func (r *bugRepository) Create(ctx context.Context, bug *domain.Bug) error {
	const query = `
        INSERT INTO bugs (title, type, status, description, deadline, project_id, created_by, assigned_to, screenshot_data, screenshot_mime, screenshot_size)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	screenshotData, screenshotMime, screenshotSize := blobColumns(bug.Screenshot)
	return r.pool.QueryRow(ctx, query,
		bug.Title,
		bug.Type,
		bug.Status,
		bug.Description,
		bug.Deadline,
		bug.ProjectID,
		bug.CreatedBy,
		bug.AssignedTo,
		screenshotData,
		screenshotMime,
		screenshotSize,
	).Scan(&bug.ID, &bug.CreatedAt, &bug.UpdatedAt)
}

func (r *bugRepository) Update(ctx context.Context, bug *domain.Bug) error {
	const query = `
        UPDATE bugs SET title=$1, type=$2, status=$3, description=$4, deadline=$5, assigned_to=$6,
            screenshot_data=$7, screenshot_mime=$8, screenshot_size=$9, updated_at=NOW()
        WHERE id=$10`

	screenshotData, screenshotMime, screenshotSize := blobColumns(bug.Screenshot)
	cmd, err := r.pool.Exec(ctx, query,
		bug.Title,
		bug.Type,
		bug.Status,
		bug.Description,
		bug.Deadline,
		bug.AssignedTo,
		screenshotData,
		screenshotMime,
		screenshotSize,
		bug.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bugRepository) GetByID(ctx context.Context, id string) (*domain.Bug, error) {
	query := `SELECT ` + bugColumns + ` FROM bugs WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanBugRow(row)
}

func (r *bugRepository) ListWithFilter(ctx context.Context, filter BugFilter) ([]domain.Bug, error) {
	base := `SELECT ` + bugColumns + ` FROM bugs`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("project_id=$%d", len(args)))
	}
	if filter.ProjectIDs != nil {
		if len(filter.ProjectIDs) == 0 {
			return []domain.Bug{}, nil
		}
		args = append(args, filter.ProjectIDs)
		clauses = append(clauses, fmt.Sprintf("project_id = ANY($%d)", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, bugType := range filter.Types {
			args = append(args, bugType)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBugs(rows)
}

func (r *bugRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bugs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bugRepository) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bugs WHERE project_id=$1`, projectID)
	return err
}

func scanBugRow(row pgx.Row) (*domain.Bug, error) {
	var bug domain.Bug
	var screenshotData []byte
	var screenshotMime *string
	var screenshotSize *int64
	if err := row.Scan(
		&bug.ID,
		&bug.Title,
		&bug.Type,
		&bug.Status,
		&bug.Description,
		&bug.Deadline,
		&bug.ProjectID,
		&bug.CreatedBy,
		&bug.AssignedTo,
		&screenshotData,
		&screenshotMime,
		&screenshotSize,
		&bug.CreatedAt,
		&bug.UpdatedAt,
	); err != nil {
		return nil, err
	}
	bug.Screenshot = blobFromColumns(screenshotData, screenshotMime, screenshotSize)
	return &bug, nil
}

func scanBugs(rows pgx.Rows) ([]domain.Bug, error) {
	var result []domain.Bug
	for rows.Next() {
		bug, err := scanBugRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *bug)
	}
	return result, rows.Err()
}
