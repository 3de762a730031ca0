// seed_roles genera el script SQL que siembra el catálogo de roles a partir de
// rbac.DefaultRoles, para que la jerarquía viva en un solo lugar.
//
// Uso: go run ./cmd/seed_roles [ruta/salida.sql]
// Por defecto escribe: internal/infrastructure/postgres/migrations/002_seed_roles.sql
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
)

func main() {
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_roles.sql")
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeed(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d roles\n", outPath, len(rbac.DefaultRoles()))
}

func writeSeed(w io.Writer) error {
	roles := rbac.DefaultRoles()
	var b strings.Builder
	b.WriteString("-- Catálogo de roles (jerarquía por rank, mayor = más senior)\n")
	b.WriteString("-- Generado por cmd/seed_roles desde rbac.DefaultRoles; no editar a mano.\n\n")
	b.WriteString("INSERT INTO roles (id, name, display_name, rank) VALUES\n")
	for i, r := range roles {
		sep := ","
		if i == len(roles)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  (%d, '%s', '%s', %d)%s\n", r.ID, escapeSQL(r.Name), escapeSQL(r.DisplayName), r.Rank, sep)
	}
	b.WriteString("ON CONFLICT (id) DO UPDATE\n")
	b.WriteString("SET name = EXCLUDED.name, display_name = EXCLUDED.display_name, rank = EXCLUDED.rank;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
