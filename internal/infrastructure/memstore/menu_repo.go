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

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo categorías e ítems del menú en memoria.
type MenuRepo struct{ sc scope }

// NewMenuRepository repositorio fuera de transacción.
func NewMenuRepository(s *Store) *MenuRepo { return &MenuRepo{scope{store: s}} }

func (r *MenuRepo) CreateCategory(_ context.Context, c *entity.MenuCategory) error {
	return r.sc.write(func(st *state) error {
		if categoryNameTaken(st, c) {
			return fmt.Errorf("%w: categoría '%s'", domain.ErrDuplicate, c.Name)
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *MenuRepo) GetCategory(_ context.Context, restaurantID, id string) (*entity.MenuCategory, error) {
	var out *entity.MenuCategory
	err := r.sc.read(func(st *state) error {
		if c, ok := st.categories[id]; ok && c.RestaurantID == restaurantID {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *MenuRepo) ListCategories(_ context.Context, restaurantID string, activeOnly bool) ([]*entity.MenuCategory, error) {
	var list []entity.MenuCategory
	err := r.sc.read(func(st *state) error {
		for _, c := range st.categories {
			if c.RestaurantID == restaurantID && (c.IsActive || !activeOnly) {
				list = append(list, c)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].Name < list[j].Name
	})
	out := make([]*entity.MenuCategory, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, err
}

func (r *MenuRepo) UpdateCategory(_ context.Context, c *entity.MenuCategory) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.categories[c.ID]
		if !ok || cur.RestaurantID != c.RestaurantID {
			return domain.ErrNotFound
		}
		if categoryNameTaken(st, c) {
			return fmt.Errorf("%w: categoría '%s'", domain.ErrDuplicate, c.Name)
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *MenuRepo) DeleteCategory(_ context.Context, restaurantID, id string) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.categories[id]
		if !ok || cur.RestaurantID != restaurantID {
			return domain.ErrNotFound
		}
		for _, it := range st.items {
			if it.CategoryID == id {
				return fmt.Errorf("%w: la categoría tiene ítems", domain.ErrConflict)
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func (r *MenuRepo) CreateItem(_ context.Context, it *entity.MenuItem) error {
	return r.sc.write(func(st *state) error {
		if _, ok := st.categories[it.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r *MenuRepo) GetItem(_ context.Context, restaurantID, id string) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.sc.read(func(st *state) error {
		if it, ok := st.items[id]; ok && it.RestaurantID == restaurantID {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *MenuRepo) ListItems(_ context.Context, restaurantID, categoryID string) ([]*entity.MenuItem, error) {
	var list []entity.MenuItem
	err := r.sc.read(func(st *state) error {
		for _, it := range st.items {
			if it.RestaurantID == restaurantID && (categoryID == "" || it.CategoryID == categoryID) {
				list = append(list, it)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})
	out := make([]*entity.MenuItem, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, err
}

func (r *MenuRepo) UpdateItem(_ context.Context, it *entity.MenuItem) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.items[it.ID]
		if !ok || cur.RestaurantID != it.RestaurantID {
			return domain.ErrNotFound
		}
		if _, ok := st.categories[it.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r *MenuRepo) DeleteItem(_ context.Context, restaurantID, id string) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.items[id]
		if !ok || cur.RestaurantID != restaurantID {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

func categoryNameTaken(st *state, c *entity.MenuCategory) bool {
	for _, x := range st.categories {
		if x.RestaurantID == c.RestaurantID && x.ID != c.ID && strings.EqualFold(x.Name, c.Name) {
			return true
		}
	}
	return false
}
