package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(Files(), migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())

		body, err := fs.ReadFile(Files(), migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}

	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_courses.sql",
		"00003_create_course_structures.sql",
	}, names)
}

func TestStructuresCascadeWithCourse(t *testing.T) {
	body, err := fs.ReadFile(Files(), migrationsDir+"/00003_create_course_structures.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "REFERENCES courses (id) ON DELETE CASCADE"))
}
