package auth

// Permission is the access level required by an operation
type Permission string

const (
	PermissionPublic        Permission = "public"
	PermissionAuthenticated Permission = "authenticated"
	PermissionAdmin         Permission = "admin"
	// PermissionSelfOrAdmin passes for admins and for the user named by the
	// operation's owner path parameter.
	PermissionSelfOrAdmin Permission = "self_or_admin"
)

// Operation names one API endpoint
type Operation string

const (
	OpAuthLogin    Operation = "auth.login"
	OpAuthRegister Operation = "auth.register"
	OpAuthMe       Operation = "auth.me"
	OpAuthLogout   Operation = "auth.logout"

	OpCoursesList      Operation = "courses.list"
	OpCoursesSearch    Operation = "courses.search"
	OpCoursesByCreator Operation = "courses.byCreator"
	OpCoursesGet       Operation = "courses.get"
	OpCoursesCreate    Operation = "courses.create"
	OpCoursesUpdate    Operation = "courses.update"
	OpCoursesDelete    Operation = "courses.delete"

	OpStructuresByCourse Operation = "courseStructures.byCourse"
	OpStructuresGet      Operation = "courseStructures.get"
	OpStructuresCreate   Operation = "courseStructures.create"
	OpStructuresReorder  Operation = "courseStructures.reorder"
	OpStructuresUpdate   Operation = "courseStructures.update"
	OpStructuresDelete   Operation = "courseStructures.delete"

	OpUsersList           Operation = "users.list"
	OpUsersCreate         Operation = "users.create"
	OpUsersProfile        Operation = "users.profile"
	OpUsersUpdateProfile  Operation = "users.updateProfile"
	OpUsersGet            Operation = "users.get"
	OpUsersUpdate         Operation = "users.update"
	OpUsersUpdatePassword Operation = "users.updatePassword"
	OpUsersDelete         Operation = "users.delete"

	OpHealth Operation = "health"
)

// Policy is the access rule of one operation. OwnerParam names the path
// parameter compared against the caller id for PermissionSelfOrAdmin.
type Policy struct {
	Permission Permission
	OwnerParam string
}

// OperationPermissions is the single source of access rules for the router.
// Course structure writes additionally check course ownership in the service.
var OperationPermissions = map[Operation]Policy{
	OpAuthLogin:    {Permission: PermissionPublic},
	OpAuthRegister: {Permission: PermissionAdmin},
	OpAuthMe:       {Permission: PermissionAuthenticated},
	OpAuthLogout:   {Permission: PermissionAuthenticated},

	OpCoursesList:      {Permission: PermissionAuthenticated},
	OpCoursesSearch:    {Permission: PermissionAuthenticated},
	OpCoursesByCreator: {Permission: PermissionSelfOrAdmin, OwnerParam: "userId"},
	OpCoursesGet:       {Permission: PermissionAuthenticated},
	OpCoursesCreate:    {Permission: PermissionAdmin},
	OpCoursesUpdate:    {Permission: PermissionAdmin},
	OpCoursesDelete:    {Permission: PermissionAdmin},

	OpStructuresByCourse: {Permission: PermissionPublic},
	OpStructuresGet:      {Permission: PermissionPublic},
	OpStructuresCreate:   {Permission: PermissionAuthenticated},
	OpStructuresReorder:  {Permission: PermissionAuthenticated},
	OpStructuresUpdate:   {Permission: PermissionAuthenticated},
	OpStructuresDelete:   {Permission: PermissionAuthenticated},

	OpUsersList:           {Permission: PermissionAdmin},
	OpUsersCreate:         {Permission: PermissionAdmin},
	OpUsersProfile:        {Permission: PermissionAuthenticated},
	OpUsersUpdateProfile:  {Permission: PermissionAuthenticated},
	OpUsersGet:            {Permission: PermissionAdmin},
	OpUsersUpdate:         {Permission: PermissionAdmin},
	OpUsersUpdatePassword: {Permission: PermissionAdmin},
	OpUsersDelete:         {Permission: PermissionAdmin},

	OpHealth: {Permission: PermissionPublic},
}

// PolicyFor returns the policy of op. Unknown operations require an admin.
func PolicyFor(op Operation) Policy {
	if p, ok := OperationPermissions[op]; ok {
		return p
	}
	return Policy{Permission: PermissionAdmin}
}

// RequiresIdentity reports whether the permission needs an authenticated caller
func (p Permission) RequiresIdentity() bool {
	return p != PermissionPublic
}
