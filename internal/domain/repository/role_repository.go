package repository

import (
	"context"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// RoleRepository lectura del catálogo de roles (sembrado por migración, inmutable en runtime).
type RoleRepository interface {
	List(ctx context.Context) ([]entity.Role, error)
}
