package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationPermissions(t *testing.T) {
	tests := []struct {
		op   Operation
		want Permission
	}{
		{OpAuthLogin, PermissionPublic},
		{OpAuthRegister, PermissionAdmin},
		{OpCoursesList, PermissionAuthenticated},
		{OpCoursesCreate, PermissionAdmin},
		{OpCoursesByCreator, PermissionSelfOrAdmin},
		{OpStructuresByCourse, PermissionPublic},
		{OpStructuresReorder, PermissionAuthenticated},
		{OpUsersProfile, PermissionAuthenticated},
		{OpUsersDelete, PermissionAdmin},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFor(tt.op).Permission)
		})
	}
}

func TestSelfOrAdminPoliciesNameOwnerParam(t *testing.T) {
	for op, p := range OperationPermissions {
		if p.Permission == PermissionSelfOrAdmin {
			assert.NotEmpty(t, p.OwnerParam, op)
		}
	}
}

func TestUnknownOperationRequiresAdmin(t *testing.T) {
	assert.Equal(t, PermissionAdmin, PolicyFor("reports.export").Permission)
	assert.False(t, PermissionPublic.RequiresIdentity())
	assert.True(t, PermissionSelfOrAdmin.RequiresIdentity())
}
