package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// ICourseStructureRepository is the course structure persistence contract
type ICourseStructureRepository interface {
	Create(ctx context.Context, s *models.CourseStructure) error
	GetByID(ctx context.Context, id string) (*models.CourseStructure, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.CourseStructure, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, courseID string, items []models.StructureOrder) error
}

var structureColumns = []string{
	"id", "course_id", "title", "lectures", "duration", `"order"`,
	"video_url", "pdf_url", "created_at", "updated_at",
}

// CourseStructureRepository handles course structure database operations
type CourseStructureRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseStructureRepository creates a new CourseStructureRepository
func NewCourseStructureRepository(db *db.PostgresDB) *CourseStructureRepository {
	return &CourseStructureRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStructure(row pgx.Row) (*models.CourseStructure, error) {
	s := &models.CourseStructure{}
	err := row.Scan(&s.ID, &s.CourseID, &s.Title, &s.Lectures, &s.Duration, &s.Order,
		&s.VideoURL, &s.PDFURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new structure
func (r *CourseStructureRepository) Create(ctx context.Context, s *models.CourseStructure) error {
	if _, err := uuid.Parse(s.CourseID); err != nil {
		return apperrors.ErrCourseNotFound
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	sql, args, err := r.sb.Insert("course_structures").
		Columns("id", "course_id", "title", "lectures", "duration", `"order"`, "video_url", "pdf_url").
		Values(s.ID, s.CourseID, s.Title, s.Lectures, s.Duration, s.Order, s.VideoURL, s.PDFURL).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create structure query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", s.CourseID).Msg("Error executing create structure query")
		return fmt.Errorf("error creating course structure: %w", err)
	}
	return nil
}

// GetByID retrieves a structure with its parent course summary
func (r *CourseStructureRepository) GetByID(ctx context.Context, id string) (*models.CourseStructure, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrCourseStructureNotFound
	}
	sql, args, err := r.sb.Select(
		"s.id", "s.course_id", "s.title", "s.lectures", "s.duration", `s."order"`,
		"s.video_url", "s.pdf_url", "s.created_at", "s.updated_at",
		"c.id", "c.title", "c.instructor",
	).
		From("course_structures s").
		Join("courses c ON c.id = s.course_id").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get structure query: %w", err)
	}

	s := &models.CourseStructure{Course: &models.CourseSummary{}}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.CourseID, &s.Title, &s.Lectures, &s.Duration, &s.Order,
		&s.VideoURL, &s.PDFURL, &s.CreatedAt, &s.UpdatedAt,
		&s.Course.ID, &s.Course.Title, &s.Course.Instructor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseStructureNotFound
		}
		logger.Error().Err(err).Str("structureID", id).Msg("Error scanning structure row")
		return nil, fmt.Errorf("error getting course structure: %w", err)
	}
	return s, nil
}

// ListByCourse returns the structures of a course in ascending order
func (r *CourseStructureRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.CourseStructure, error) {
	structures := []*models.CourseStructure{}
	if _, err := uuid.Parse(courseID); err != nil {
		return structures, nil
	}
	sql, args, err := r.sb.Select(structureColumns...).
		From("course_structures").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy(`"order" ASC`, "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list structures query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying course structures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course structure row: %w", err)
		}
		structures = append(structures, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course structure rows: %w", err)
	}
	return structures, nil
}

// Update applies column changes to a structure
func (r *CourseStructureRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrCourseStructureNotFound
	}
	sql, args, err := r.sb.Update("course_structures").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update structure query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return fmt.Errorf("%w: lectures and order must be positive", apperrors.ErrValidationFailed)
		}
		logger.Error().Err(err).Str("structureID", id).Msg("Error executing update structure query")
		return fmt.Errorf("error updating course structure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseStructureNotFound
	}
	return nil
}

// Delete removes a structure
func (r *CourseStructureRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrCourseStructureNotFound
	}
	sql, args, err := r.sb.Delete("course_structures").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete structure query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course structure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseStructureNotFound
	}
	return nil
}

// reorderStatement updates one structure's position, scoped to its course
func (r *CourseStructureRepository) reorderStatement(courseID string, item models.StructureOrder) (string, []interface{}, error) {
	return r.sb.Update("course_structures").
		Set(`"order"`, item.Order).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": item.ID, "course_id": courseID}).
		ToSql()
}

// Reorder applies all position changes atomically. Any id outside the course
// aborts the whole batch.
func (r *CourseStructureRepository) Reorder(ctx context.Context, courseID string, items []models.StructureOrder) error {
	for _, item := range items {
		if _, err := uuid.Parse(item.ID); err != nil {
			return apperrors.ErrStructureNotInCourse
		}
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, item := range items {
			sql, args, err := r.reorderStatement(courseID, item)
			if err != nil {
				return fmt.Errorf("failed to build reorder query: %w", err)
			}
			tag, err := tx.Exec(ctx, sql, args...)
			if err != nil {
				logger.Error().Err(err).Str("courseID", courseID).Str("structureID", item.ID).Msg("Error reordering structure")
				return fmt.Errorf("error reordering course structure: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.ErrStructureNotInCourse
			}
		}
		return nil
	})
}
