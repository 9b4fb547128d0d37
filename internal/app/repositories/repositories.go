package repositories

import (
	"github.com/yigit/coursehub/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository            IUserRepository
	CourseRepository          ICourseRepository
	CourseStructureRepository ICourseStructureRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:            NewUserRepository(db),
		CourseRepository:          NewCourseRepository(db),
		CourseStructureRepository: NewCourseStructureRepository(db),
	}
}
