package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
)

var (
	_ repository.UserRepository            = (*UserRepo)(nil)
	_ repository.RoleAssignmentRepository  = (*RoleAssignmentRepo)(nil)
	_ repository.AssignmentAuditRepository = (*AuditRepo)(nil)
)

// UserRepo usuarios en memoria. El email es único en todo el sistema.
type UserRepo struct{ sc scope }

// NewUserRepository repositorio fuera de transacción.
func NewUserRepository(s *Store) *UserRepo { return &UserRepo{scope{store: s}} }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	if err := r.sc.check("users.Create"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		if emailTaken(st, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		u := *user
		u.Email = strings.ToLower(u.Email)
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, restaurantID, id string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		if u, ok := st.users[id]; ok && u.RestaurantID == restaurantID {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == strings.ToLower(email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	if err := r.sc.check("users.Update"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		cur, ok := st.users[user.ID]
		if !ok || cur.RestaurantID != user.RestaurantID {
			return domain.ErrUserNotFound
		}
		if emailTaken(st, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		u := *user
		u.Email = strings.ToLower(u.Email)
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, restaurantID string, f repository.UserFilter) ([]*entity.User, int, error) {
	var matched []entity.User
	err := r.sc.read(func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, u := range st.users {
			if u.RestaurantID != restaurantID {
				continue
			}
			if f.Status != "" && u.Status != f.Status {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(u.Email, search) {
				continue
			}
			if (f.RoleID != 0 || f.LocationID != "") && !hasAssignment(st, u, f.RoleID, f.LocationID) {
				continue
			}
			matched = append(matched, u)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	out := make([]*entity.User, 0)
	for i := f.Offset; i < len(matched) && len(out) < limit; i++ {
		u := matched[i]
		out = append(out, &u)
	}
	return out, len(matched), nil
}

func (r *UserRepo) Delete(_ context.Context, restaurantID, id string) error {
	if err := r.sc.check("users.Delete"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.RestaurantID != restaurantID {
			return domain.ErrUserNotFound
		}
		for _, a := range st.assignments {
			if a.UserID == id {
				return fmt.Errorf("%w: el usuario aún tiene asignaciones", domain.ErrConflict)
			}
		}
		delete(st.users, id)
		return nil
	})
}

func emailTaken(st *state, email, exceptID string) bool {
	email = strings.ToLower(email)
	for _, u := range st.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func hasAssignment(st *state, u entity.User, roleID int, locationID string) bool {
	for _, a := range st.assignments {
		if a.UserID != u.ID || a.RestaurantID != u.RestaurantID {
			continue
		}
		if (roleID == 0 || a.RoleID == roleID) && (locationID == "" || a.LocationID == locationID) {
			return true
		}
	}
	return false
}

// RoleAssignmentRepo asignaciones en memoria, con las mismas restricciones únicas que la tabla.
type RoleAssignmentRepo struct{ sc scope }

// NewRoleAssignmentRepository repositorio fuera de transacción.
func NewRoleAssignmentRepository(s *Store) *RoleAssignmentRepo {
	return &RoleAssignmentRepo{scope{store: s}}
}

func (r *RoleAssignmentRepo) InsertBatch(_ context.Context, rows []entity.RoleAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.sc.check("assignments.InsertBatch"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		next := append([]entity.RoleAssignment(nil), st.assignments...)
		for i := range rows {
			a := &rows[i]
			if a.ID == "" {
				a.ID = uuid.New().String()
			}
			for _, x := range next {
				if x.UserID != a.UserID {
					continue
				}
				if x.RoleID == a.RoleID && x.LocationID == a.LocationID {
					return fmt.Errorf("%w: asignación rol-ubicación repetida", domain.ErrDuplicate)
				}
				if x.IsPrimary && a.IsPrimary {
					return &domain.MultiplePrimaryRolesError{Count: 2}
				}
			}
			next = append(next, *a)
		}
		st.assignments = next
		return nil
	})
}

func (r *RoleAssignmentRepo) DeleteByUser(_ context.Context, restaurantID, userID string) ([]entity.RoleAssignment, error) {
	if err := r.sc.check("assignments.DeleteByUser"); err != nil {
		return nil, err
	}
	return r.remove(func(a entity.RoleAssignment) bool {
		return a.RestaurantID == restaurantID && a.UserID == userID
	})
}

func (r *RoleAssignmentRepo) DeleteByLocation(_ context.Context, restaurantID, locationID string) ([]entity.RoleAssignment, error) {
	if err := r.sc.check("assignments.DeleteByLocation"); err != nil {
		return nil, err
	}
	return r.remove(func(a entity.RoleAssignment) bool {
		return a.RestaurantID == restaurantID && a.LocationID == locationID
	})
}

func (r *RoleAssignmentRepo) remove(match func(entity.RoleAssignment) bool) ([]entity.RoleAssignment, error) {
	var removed []entity.RoleAssignment
	err := r.sc.write(func(st *state) error {
		kept := st.assignments[:0:0]
		for _, a := range st.assignments {
			if match(a) {
				removed = append(removed, a)
				continue
			}
			kept = append(kept, a)
		}
		st.assignments = kept
		return nil
	})
	return removed, err
}

func (r *RoleAssignmentRepo) ListByUser(ctx context.Context, restaurantID, userID string) ([]entity.AssignmentView, error) {
	byUser, err := r.ListByUsers(ctx, restaurantID, []string{userID})
	if err != nil {
		return nil, err
	}
	if views, ok := byUser[userID]; ok {
		return views, nil
	}
	return []entity.AssignmentView{}, nil
}

// ListByUsers las sedes inactivas salen con LocationID vacío, como en PostgreSQL.
func (r *RoleAssignmentRepo) ListByUsers(_ context.Context, restaurantID string, userIDs []string) (map[string][]entity.AssignmentView, error) {
	out := make(map[string][]entity.AssignmentView, len(userIDs))
	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	err := r.sc.read(func(st *state) error {
		roles := make(map[int]entity.Role, len(st.roles))
		for _, role := range st.roles {
			roles[role.ID] = role
		}
		for _, a := range st.assignments {
			if a.RestaurantID != restaurantID || !wanted[a.UserID] {
				continue
			}
			role := roles[a.RoleID]
			v := entity.AssignmentView{
				RoleID:          role.ID,
				RoleName:        role.Name,
				RoleDisplayName: role.DisplayName,
				RoleRank:        role.Rank,
				IsPrimary:       a.IsPrimary,
			}
			if l, ok := st.locations[a.LocationID]; ok && l.IsActive && l.RestaurantID == a.RestaurantID {
				v.LocationID = l.ID
				v.LocationName = l.Name
			}
			out[a.UserID] = append(out[a.UserID], v)
		}
		return nil
	})
	for _, views := range out {
		sort.SliceStable(views, func(i, j int) bool {
			if views[i].RoleDisplayName != views[j].RoleDisplayName {
				return views[i].RoleDisplayName < views[j].RoleDisplayName
			}
			return views[i].LocationName < views[j].LocationName
		})
	}
	return out, err
}

func (r *RoleAssignmentRepo) ActiveRoleIDs(_ context.Context, restaurantID, userID string) ([]int, error) {
	seen := make(map[int]bool)
	var ids []int
	err := r.sc.read(func(st *state) error {
		for _, a := range st.assignments {
			if a.RestaurantID == restaurantID && a.UserID == userID && a.IsActive && !seen[a.RoleID] {
				seen[a.RoleID] = true
				ids = append(ids, a.RoleID)
			}
		}
		return nil
	})
	sort.Ints(ids)
	return ids, err
}

func (r *RoleAssignmentRepo) SetActiveByUser(_ context.Context, restaurantID, userID string, active bool) error {
	if err := r.sc.check("assignments.SetActiveByUser"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		for i := range st.assignments {
			if st.assignments[i].RestaurantID == restaurantID && st.assignments[i].UserID == userID {
				st.assignments[i].IsActive = active
			}
		}
		return nil
	})
}

func (r *RoleAssignmentRepo) PromotePrimary(_ context.Context, restaurantID string, userIDs []string) error {
	if err := r.sc.check("assignments.PromotePrimary"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		for _, uid := range userIDs {
			pick := -1
			for i, a := range st.assignments {
				if a.UserID != uid {
					continue
				}
				if a.IsPrimary {
					pick = -1
					break
				}
				if a.RestaurantID != restaurantID {
					continue
				}
				if pick < 0 || older(a, st.assignments[pick]) {
					pick = i
				}
			}
			if pick >= 0 {
				st.assignments[pick].IsPrimary = true
			}
		}
		return nil
	})
}

func older(a, b entity.RoleAssignment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// AuditRepo historial de asignaciones en memoria.
type AuditRepo struct{ sc scope }

// NewAssignmentAuditRepository repositorio fuera de transacción.
func NewAssignmentAuditRepository(s *Store) *AuditRepo { return &AuditRepo{scope{store: s}} }

func (r *AuditRepo) InsertBatch(_ context.Context, entries []entity.AssignmentAudit) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.sc.check("audit.InsertBatch"); err != nil {
		return err
	}
	return r.sc.write(func(st *state) error {
		for _, e := range entries {
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			st.audit = append(st.audit, e)
		}
		return nil
	})
}

func (r *AuditRepo) ListByUser(_ context.Context, restaurantID, userID string, limit int) ([]entity.AssignmentAudit, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []entity.AssignmentAudit
	err := r.sc.read(func(st *state) error {
		for _, e := range st.audit {
			if e.RestaurantID == restaurantID && e.UserID == userID {
				out = append(out, e)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}
