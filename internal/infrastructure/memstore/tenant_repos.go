package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var (
	_ repository.RestaurantRepository = (*RestaurantRepo)(nil)
	_ repository.LocationRepository   = (*LocationRepo)(nil)
	_ repository.RoleRepository       = (*RoleRepo)(nil)
)

// RestaurantRepo restaurantes en memoria.
type RestaurantRepo struct{ sc scope }

// NewRestaurantRepository repositorio fuera de transacción.
func NewRestaurantRepository(s *Store) *RestaurantRepo { return &RestaurantRepo{scope{store: s}} }

func (r *RestaurantRepo) Create(_ context.Context, restaurant *entity.Restaurant) error {
	if err := r.sc.check("restaurants.Create"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		for _, x := range st.restaurants {
			if strings.EqualFold(x.Subdomain, restaurant.Subdomain) {
				return fmt.Errorf("%w: subdominio '%s'", domain.ErrDuplicate, restaurant.Subdomain)
			}
		}
		st.restaurants[restaurant.ID] = *restaurant
		return nil
	})
}

func (r *RestaurantRepo) GetByID(_ context.Context, id string) (*entity.Restaurant, error) {
	var out *entity.Restaurant
	err := r.sc.read(func(st *state) error {
		if x, ok := st.restaurants[id]; ok {
			out = &x
		}
		return nil
	})
	return out, err
}

func (r *RestaurantRepo) GetBySubdomain(_ context.Context, subdomain string) (*entity.Restaurant, error) {
	var out *entity.Restaurant
	err := r.sc.read(func(st *state) error {
		for _, x := range st.restaurants {
			if strings.EqualFold(x.Subdomain, subdomain) {
				out = &x
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *RestaurantRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	x, err := r.GetBySubdomain(ctx, subdomain)
	return x != nil, err
}

func (r *RestaurantRepo) Update(_ context.Context, restaurant *entity.Restaurant) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.restaurants[restaurant.ID]; !ok {
			return domain.ErrNotFound
		}
		st.restaurants[restaurant.ID] = *restaurant
		return nil
	})
}

// LocationRepo sedes en memoria.
type LocationRepo struct{ sc scope }

// NewLocationRepository repositorio fuera de transacción.
func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{scope{store: s}} }

func (r *LocationRepo) Create(_ context.Context, location *entity.Location) error {
	if err := r.sc.check("locations.Create"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		if slugTaken(st, location.RestaurantID, location.Slug, location.ID) {
			return fmt.Errorf("%w: slug de sede '%s'", domain.ErrDuplicate, location.Slug)
		}
		st.locations[location.ID] = *location
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.sc.read(func(st *state) error {
		if x, ok := st.locations[id]; ok && x.RestaurantID == restaurantID {
			out = &x
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) ListByRestaurant(_ context.Context, restaurantID string, activeOnly bool) ([]entity.Location, error) {
	out := make([]entity.Location, 0)
	err := r.sc.read(func(st *state) error {
		for _, x := range st.locations {
			if x.RestaurantID == restaurantID && (x.IsActive || !activeOnly) {
				out = append(out, x)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *LocationRepo) CountActive(ctx context.Context, restaurantID string) (int, error) {
	list, err := r.ListByRestaurant(ctx, restaurantID, true)
	return len(list), err
}

func (r *LocationRepo) SlugExists(_ context.Context, restaurantID, slug string) (bool, error) {
	var taken bool
	err := r.sc.read(func(st *state) error {
		taken = slugTaken(st, restaurantID, slug, "")
		return nil
	})
	return taken, err
}

func (r *LocationRepo) Update(_ context.Context, location *entity.Location) error {
	if err := r.sc.check("locations.Update"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		cur, ok := st.locations[location.ID]
		if !ok || cur.RestaurantID != location.RestaurantID {
			return domain.ErrNotFound
		}
		if slugTaken(st, location.RestaurantID, location.Slug, location.ID) {
			return fmt.Errorf("%w: slug de sede '%s'", domain.ErrDuplicate, location.Slug)
		}
		st.locations[location.ID] = *location
		return nil
	})
}

func slugTaken(st *state, restaurantID, slug, exceptID string) bool {
	for _, x := range st.locations {
		if x.RestaurantID == restaurantID && x.Slug == slug && x.ID != exceptID {
			return true
		}
	}
	return false
}

// RoleRepo catálogo de roles en memoria.
type RoleRepo struct{ sc scope }

// NewRoleRepository repositorio del catálogo.
func NewRoleRepository(s *Store) *RoleRepo { return &RoleRepo{scope{store: s}} }

func (r *RoleRepo) List(_ context.Context) ([]entity.Role, error) {
	if err := r.sc.check("roles.List"); err != nil {
		return nil, err
	}
	var out []entity.Role
	err := r.sc.read(func(st *state) error {
		out = append(out, st.roles...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out, err
}
