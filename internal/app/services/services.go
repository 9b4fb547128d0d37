package services

// Services defined in this package:
// - AuthService: login, admin registration, current user and logout
// - UserService: admin user management and self profile
// - CourseService: course catalog listing, search and admin CRUD
// - CourseStructureService: course lessons with ownership checks and reordering
