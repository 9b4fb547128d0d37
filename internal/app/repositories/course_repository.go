package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// CourseFilter narrows course listings. Extended switches search to the
// wider field set of the search endpoint and enables sorting.
type CourseFilter struct {
	Page        int
	Limit       int
	Search      string
	Extended    bool
	Category    string
	Level       string
	Instructor  string
	CreatedByID string
	SortBy      string
	SortOrder   string
}

// Sort keys accepted by the search endpoint, mapped to columns
var courseSortColumns = map[string]string{
	"title":      "c.title",
	"instructor": "c.instructor",
	"category":   "c.category",
	"level":      "c.level",
	"createdAt":  "c.created_at",
	"duration":   "c.duration",
}

const (
	DefaultCourseSort      = "createdAt"
	DefaultCourseSortOrder = "desc"
)

// ResolveCourseSort returns the effective sort key and direction
func ResolveCourseSort(sortBy, sortOrder string) (string, string) {
	if _, ok := courseSortColumns[sortBy]; !ok {
		sortBy = DefaultCourseSort
	}
	if strings.ToLower(sortOrder) == "asc" {
		sortOrder = "asc"
	} else {
		sortOrder = DefaultCourseSortOrder
	}
	return sortBy, sortOrder
}

// ICourseRepository is the course persistence contract
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	GetOwnerID(ctx context.Context, id string) (string, error)
}

var courseColumns = []string{
	"c.id", "c.title", "c.description", "c.image", "c.instructor", "c.category",
	"c.level", "c.duration", "c.created_by_id", "c.created_at", "c.updated_at",
	"u.id", "u.name", "u.email",
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{CreatedBy: &models.UserSummary{}, Structures: []*models.CourseStructure{}}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Image, &c.Instructor, &c.Category,
		&c.Level, &c.Duration, &c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
		&c.CreatedBy.ID, &c.CreatedBy.Name, &c.CreatedBy.Email)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).
		From("courses c").
		Join("users u ON u.id = c.created_by_id")
}

// courseWhere builds the filter predicate shared by the count and page queries
func courseWhere(filter CourseFilter) squirrel.And {
	where := squirrel.And{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := helpers.ContainsPattern(s)
		or := squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.description": pattern},
			squirrel.ILike{"c.instructor": pattern},
		}
		if filter.Extended {
			or = append(or, squirrel.ILike{"c.category": pattern}, squirrel.ILike{"c.level": pattern})
		}
		where = append(where, or)
	}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"c.category": filter.Category})
	}
	if filter.Level != "" {
		where = append(where, squirrel.Eq{"c.level": filter.Level})
	}
	if s := strings.TrimSpace(filter.Instructor); s != "" {
		where = append(where, squirrel.ILike{"c.instructor": helpers.ContainsPattern(s)})
	}
	if filter.CreatedByID != "" {
		where = append(where, squirrel.Eq{"c.created_by_id": filter.CreatedByID})
	}
	return where
}

func courseOrderBy(filter CourseFilter) string {
	if !filter.Extended {
		return "c.created_at DESC"
	}
	sortBy, sortOrder := ResolveCourseSort(filter.SortBy, filter.SortOrder)
	return courseSortColumns[sortBy] + " " + strings.ToUpper(sortOrder)
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	sql, args, err := r.sb.Insert("courses").
		Columns("id", "title", "description", "image", "instructor", "category", "level", "duration", "created_by_id").
		Values(course.ID, course.Title, course.Description, course.Image, course.Instructor,
			course.Category, course.Level, course.Duration, course.CreatedByID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course with its creator and ordered structures
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrCourseNotFound
	}
	sql, args, err := r.selectCourses().Where(squirrel.Eq{"c.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	if err := r.attachStructures(ctx, []*models.Course{course}); err != nil {
		return nil, err
	}
	return course, nil
}

// List returns one page of courses and the total match count
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error) {
	where := courseWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("courses c").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	sql, args, err := r.selectCourses().
		Where(where).
		OrderBy(courseOrderBy(filter), "c.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, 0, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	if err := r.attachStructures(ctx, courses); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// attachStructures loads the structures of all given courses in one query
func (r *CourseRepository) attachStructures(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	byID := make(map[string]*models.Course, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	sql, args, err := r.sb.Select(structureColumns...).
		From("course_structures").
		Where(squirrel.Eq{"course_id": ids}).
		OrderBy("course_id", `"order" ASC`, "created_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build course structures query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error querying course structures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return fmt.Errorf("error scanning course structure row: %w", err)
		}
		if c, ok := byID[s.CourseID]; ok {
			c.Structures = append(c.Structures, s)
		}
	}
	return rows.Err()
}

// Update applies column changes to a course
func (r *CourseRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrCourseNotFound
	}
	sql, args, err := r.sb.Update("courses").
		SetMap(changes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", id).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course and its structures in one transaction
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrCourseNotFound
	}
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		structSQL, structArgs, err := r.sb.Delete("course_structures").Where(squirrel.Eq{"course_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete structures query: %w", err)
		}
		if _, err := tx.Exec(ctx, structSQL, structArgs...); err != nil {
			return fmt.Errorf("error deleting course structures: %w", err)
		}

		sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete course query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting course: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
}

// Exists reports whether the course exists
func (r *CourseRepository) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	sql, args, err := r.sb.Select("1").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build course exists query: %w", err)
	}

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking course: %w", err)
	}
	return exists, nil
}

// GetOwnerID returns the id of the user that created the course
func (r *CourseRepository) GetOwnerID(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.ErrCourseNotFound
	}
	sql, args, err := r.sb.Select("created_by_id").From("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build course owner query: %w", err)
	}

	var ownerID string
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrCourseNotFound
		}
		return "", fmt.Errorf("error fetching course owner: %w", err)
	}
	return ownerID, nil
}
