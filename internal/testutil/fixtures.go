package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

// TestSecret signs tokens issued by NewJWTService
const TestSecret = "test-secret"

// FixedTime is the default instant used by Clock
var FixedTime = time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC)

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock at FixedTime
func NewClock() *Clock {
	return &Clock{now: FixedTime}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewJWTService returns a token service signing with TestSecret on the given clock
func NewJWTService(clock *Clock) *auth.JWTService {
	svc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   TestSecret,
		TokenExp:    time.Hour,
		TokenIssuer: "coursehub-test",
	})
	if clock != nil {
		svc.WithClock(clock.Now)
	}
	return svc
}

var (
	hashMu    sync.Mutex
	hashCache = map[string]string{}
)

// MustHash hashes a password once per test binary
func MustHash(t testing.TB, plain string) string {
	t.Helper()
	hashMu.Lock()
	defer hashMu.Unlock()
	if h, ok := hashCache[plain]; ok {
		return h
	}
	h, err := auth.HashPassword(plain)
	require.NoError(t, err)
	hashCache[plain] = h
	return h
}

// CreateUser stores a user with the given role and password
func CreateUser(t testing.TB, s *Store, name, email, password string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Email:    email,
		Password: MustHash(t, password),
		Name:     name,
		Role:     role,
	}
	require.NoError(t, (&UserRepo{s}).Create(context.Background(), u))
	return u
}

// CreateCourse stores a course owned by ownerID
func CreateCourse(t testing.TB, s *Store, ownerID, title string) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:       title,
		Description: "A course about " + title,
		Image:       "https://example.com/course.png",
		Instructor:  "Jane Instructor",
		Category:    "Programming",
		Level:       "Beginner",
		Duration:    "10h",
		CreatedByID: ownerID,
	}
	require.NoError(t, (&CourseRepo{s}).Create(context.Background(), c))
	return c
}

// CreateStructure stores a structure at the given position
func CreateStructure(t testing.TB, s *Store, courseID, title string, order int) *models.CourseStructure {
	t.Helper()
	st := &models.CourseStructure{
		CourseID: courseID,
		Title:    title,
		Lectures: 3,
		Duration: "30m",
		Order:    order,
	}
	require.NoError(t, (&StructureRepo{s}).Create(context.Background(), st))
	return st
}

// Token issues a bearer token for the user
func Token(t testing.TB, svc *auth.JWTService, u *models.User) string {
	t.Helper()
	token, _, err := svc.GenerateToken(u.ID, u.Email, string(u.Role))
	require.NoError(t, err)
	return token
}
