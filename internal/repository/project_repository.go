package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]domain.Project, error)
	ListByMember(ctx context.Context, role domain.Role, userID string) ([]domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, name, description, created_by, qa_assigned, developers_assigned,
        picture_data, picture_mime, picture_size, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (name, description, created_by, qa_assigned, developers_assigned, picture_data, picture_mime, picture_size)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	pictureData, pictureMime, pictureSize := blobColumns(project.Picture)
	return r.pool.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.CreatedBy,
		project.QAAssigned,
		project.DevelopersAssigned,
		pictureData,
		pictureMime,
		pictureSize,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, description=$2, qa_assigned=$3, developers_assigned=$4,
            picture_data=$5, picture_mime=$6, picture_size=$7, updated_at=NOW()
        WHERE id=$8`

	pictureData, pictureMime, pictureSize := blobColumns(project.Picture)
	cmd, err := r.pool.Exec(ctx, query,
		project.Name,
		project.Description,
		project.QAAssigned,
		project.DevelopersAssigned,
		pictureData,
		pictureMime,
		pictureSize,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanProjectRow(row)
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM projects ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		projectColumns, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) ListByMember(ctx context.Context, role domain.Role, userID string) ([]domain.Project, error) {
	column := "developers_assigned"
	if role == domain.RoleQA {
		column = "qa_assigned"
	}
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE $1 = ANY(%s) ORDER BY created_at DESC`,
		projectColumns, column)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProjectRow(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	var pictureData []byte
	var pictureMime *string
	var pictureSize *int64
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedBy,
		&project.QAAssigned,
		&project.DevelopersAssigned,
		&pictureData,
		&pictureMime,
		&pictureSize,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	project.Picture = blobFromColumns(pictureData, pictureMime, pictureSize)
	return &project, nil
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		project, err := scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}
