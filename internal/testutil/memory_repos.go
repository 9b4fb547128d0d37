// Package testutil provides in-memory repositories and fixtures so services,
// middleware and the router can be exercised without PostgreSQL.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// Store is the shared state behind the in-memory repositories
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	users      map[string]*models.User
	courses    map[string]*models.Course
	structures map[string]*models.CourseStructure
}

// NewStore creates an empty store stamped by the given clock
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:        now,
		users:      map[string]*models.User{},
		courses:    map[string]*models.Course{},
		structures: map[string]*models.CourseStructure{},
	}
}

// Repositories returns repository implementations backed by the store
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:            &UserRepo{s},
		CourseRepository:          &CourseRepo{s},
		CourseStructureRepository: &StructureRepo{s},
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, page, limit int) []T {
	start, end := helpers.CalculateSliceIndices(page, limit, len(items))
	return items[start:end]
}

func applyChanges(target map[string]*string, changes map[string]interface{}, column string) {
	v, ok := changes[column]
	if !ok {
		return
	}
	if v == nil {
		*target[column] = ""
		return
	}
	*target[column] = v.(string)
}

// UserRepo implements repositories.IUserRepository in memory
type UserRepo struct{ s *Store }

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == strings.ToLower(email) {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepo) List(_ context.Context, filter repositories.UserFilter) ([]*models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.User
	for _, u := range r.s.users {
		if filter.Search != "" && !containsFold(u.Name, filter.Search) && !containsFold(u.Email, filter.Search) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, copyUser(u))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *UserRepo) Update(_ context.Context, id string, changes map[string]interface{}) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if email, ok := changes["email"].(string); ok {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == strings.ToLower(email) {
				return nil, apperrors.ErrEmailAlreadyExists
			}
		}
	}

	updated := copyUser(u)
	if v, ok := changes["name"].(string); ok {
		updated.Name = v
	}
	if v, ok := changes["email"].(string); ok {
		updated.Email = v
	}
	if v, ok := changes["avatar"]; ok {
		if v == nil {
			updated.Avatar = nil
		} else {
			a := v.(string)
			updated.Avatar = &a
		}
	}
	if v, ok := changes["role"]; ok {
		updated.Role = models.Role(v.(string))
	}
	updated.Email = strings.ToLower(updated.Email)
	updated.UpdatedAt = r.s.now()
	r.s.users[id] = updated
	return copyUser(updated), nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = passwordHash
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	for _, c := range r.s.courses {
		if c.CreatedByID == id {
			return apperrors.ErrUserHasCourses
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) HasCourses(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.courses {
		if c.CreatedByID == id {
			return true, nil
		}
	}
	return false, nil
}

// CourseRepo implements repositories.ICourseRepository in memory
type CourseRepo struct{ s *Store }

// hydrate copies a course with its creator and ordered structures. Caller holds the lock.
func (r *CourseRepo) hydrate(c *models.Course) *models.Course {
	out := *c
	if u, ok := r.s.users[c.CreatedByID]; ok {
		out.CreatedBy = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	out.Structures = (&StructureRepo{r.s}).listLocked(c.ID)
	return &out
}

func (r *CourseRepo) Create(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[course.CreatedByID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	course.CreatedAt = r.s.now()
	course.UpdatedAt = course.CreatedAt
	stored := *course
	stored.CreatedBy, stored.Structures = nil, nil
	r.s.courses[course.ID] = &stored
	return nil
}

func (r *CourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return r.hydrate(c), nil
}

func courseSortKey(c *models.Course, sortBy string) string {
	switch sortBy {
	case "title":
		return c.Title
	case "instructor":
		return c.Instructor
	case "category":
		return c.Category
	case "level":
		return c.Level
	case "duration":
		return c.Duration
	default:
		return c.CreatedAt.Format(time.RFC3339Nano)
	}
}

func (r *CourseRepo) matches(c *models.Course, f repositories.CourseFilter) bool {
	if f.Search != "" {
		hit := containsFold(c.Title, f.Search) || containsFold(c.Description, f.Search) || containsFold(c.Instructor, f.Search)
		if f.Extended {
			hit = hit || containsFold(c.Category, f.Search) || containsFold(c.Level, f.Search)
		}
		if !hit {
			return false
		}
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Instructor != "" && !containsFold(c.Instructor, f.Instructor) {
		return false
	}
	if f.CreatedByID != "" && c.CreatedByID != f.CreatedByID {
		return false
	}
	return true
}

func (r *CourseRepo) List(_ context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.Course
	for _, c := range r.s.courses {
		if r.matches(c, filter) {
			out = append(out, r.hydrate(c))
		}
	}

	sortBy, sortOrder := repositories.DefaultCourseSort, repositories.DefaultCourseSortOrder
	if filter.Extended {
		sortBy, sortOrder = repositories.ResolveCourseSort(filter.SortBy, filter.SortOrder)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := courseSortKey(out[i], sortBy), courseSortKey(out[j], sortBy)
		if sortOrder == "asc" {
			return a < b
		}
		return a > b
	})
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *CourseRepo) Update(_ context.Context, id string, changes map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	fields := map[string]*string{
		"title": &c.Title, "description": &c.Description, "image": &c.Image, "instructor": &c.Instructor,
		"category": &c.Category, "level": &c.Level, "duration": &c.Duration,
	}
	for column := range fields {
		applyChanges(fields, changes, column)
	}
	c.UpdatedAt = r.s.now()
	return nil
}

func (r *CourseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for sid, st := range r.s.structures {
		if st.CourseID == id {
			delete(r.s.structures, sid)
		}
	}
	delete(r.s.courses, id)
	return nil
}

func (r *CourseRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.courses[id]
	return ok, nil
}

func (r *CourseRepo) GetOwnerID(_ context.Context, id string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.courses[id]
	if !ok {
		return "", apperrors.ErrCourseNotFound
	}
	return c.CreatedByID, nil
}

// StructureRepo implements repositories.ICourseStructureRepository in memory
type StructureRepo struct{ s *Store }

func copyStructure(st *models.CourseStructure) *models.CourseStructure {
	c := *st
	c.Course = nil
	return &c
}

func (r *StructureRepo) listLocked(courseID string) []*models.CourseStructure {
	out := []*models.CourseStructure{}
	for _, st := range r.s.structures {
		if st.CourseID == courseID {
			out = append(out, copyStructure(st))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *StructureRepo) Create(_ context.Context, st *models.CourseStructure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.courses[st.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	st.CreatedAt = r.s.now()
	st.UpdatedAt = st.CreatedAt
	r.s.structures[st.ID] = copyStructure(st)
	return nil
}

func (r *StructureRepo) GetByID(_ context.Context, id string) (*models.CourseStructure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.structures[id]
	if !ok {
		return nil, apperrors.ErrCourseStructureNotFound
	}
	out := copyStructure(st)
	if c, ok := r.s.courses[st.CourseID]; ok {
		out.Course = &models.CourseSummary{ID: c.ID, Title: c.Title, Instructor: c.Instructor}
	}
	return out, nil
}

func (r *StructureRepo) ListByCourse(_ context.Context, courseID string) ([]*models.CourseStructure, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listLocked(courseID), nil
}

func optionalString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func (r *StructureRepo) Update(_ context.Context, id string, changes map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.structures[id]
	if !ok {
		return apperrors.ErrCourseStructureNotFound
	}
	for column, v := range changes {
		switch column {
		case "title":
			st.Title = v.(string)
		case "duration":
			st.Duration = v.(string)
		case "lectures":
			st.Lectures = v.(int)
		case `"order"`:
			st.Order = v.(int)
		case "video_url":
			st.VideoURL = optionalString(v)
		case "pdf_url":
			st.PDFURL = optionalString(v)
		}
	}
	st.UpdatedAt = r.s.now()
	return nil
}

func (r *StructureRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.structures[id]; !ok {
		return apperrors.ErrCourseStructureNotFound
	}
	delete(r.s.structures, id)
	return nil
}

// Reorder validates every id before applying any change, matching the
// all-or-nothing transaction of the SQL repository.
func (r *StructureRepo) Reorder(_ context.Context, courseID string, items []models.StructureOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range items {
		st, ok := r.s.structures[item.ID]
		if !ok || st.CourseID != courseID {
			return apperrors.ErrStructureNotInCourse
		}
	}
	now := r.s.now()
	for _, item := range items {
		r.s.structures[item.ID].Order = item.Order
		r.s.structures[item.ID].UpdatedAt = now
	}
	return nil
}
