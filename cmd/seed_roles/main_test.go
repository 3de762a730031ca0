package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSeed_ContieneTodoElCatalogo(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeSeed(&b))
	sql := b.String()

	assert.Contains(t, sql, "(1, 'superadmin', 'Super Administrador', 100),")
	assert.Contains(t, sql, "(3, 'location_administrator', 'Administrador de Sede', 80),")
	assert.Contains(t, sql, "(8, 'bartender', 'Bartender', 10)\nON CONFLICT")
}

// La migración versionada debe coincidir con lo que genera el comando.
func TestWriteSeed_MigracionAlDia(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(file), "..", "..", "internal", "infrastructure", "postgres", "migrations", "002_seed_roles.sql")
	committed, err := os.ReadFile(path)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSeed(&b))
	assert.Equal(t, b.String(), string(committed), "ejecutar go run ./cmd/seed_roles")
}
