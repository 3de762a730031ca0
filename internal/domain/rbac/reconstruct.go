package rbac

import (
	"sort"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// RoleLocations par reconstruido: un rol con todas sus ubicaciones.
type RoleLocations struct {
	RoleID            int
	RoleName          string
	RoleDisplayName   string
	RoleRank          int
	LocationIDs       []string
	LocationNames     []string
	IsPrimary         bool
	PrimaryLocationID string
}

// Reconstruct agrupa filas normalizadas por rol para que la edición reciba la misma
// forma que acepta ExpandPairs. Orden: nombre visible del rol y luego nombre de
// ubicación. Un rol sin ubicaciones conserva su entrada con lista vacía.
func Reconstruct(rows []entity.AssignmentView) []RoleLocations {
	sorted := make([]entity.AssignmentView, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.RoleDisplayName != b.RoleDisplayName {
			return a.RoleDisplayName < b.RoleDisplayName
		}
		if a.RoleID != b.RoleID {
			return a.RoleID < b.RoleID
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return a.LocationID < b.LocationID
	})

	out := make([]RoleLocations, 0)
	index := make(map[int]int)
	for _, row := range sorted {
		pos, ok := index[row.RoleID]
		if !ok {
			out = append(out, RoleLocations{
				RoleID:          row.RoleID,
				RoleName:        row.RoleName,
				RoleDisplayName: row.RoleDisplayName,
				RoleRank:        row.RoleRank,
				LocationIDs:     []string{},
				LocationNames:   []string{},
			})
			pos = len(out) - 1
			index[row.RoleID] = pos
		}
		group := &out[pos]
		if row.LocationID == "" {
			continue
		}
		group.LocationIDs = append(group.LocationIDs, row.LocationID)
		group.LocationNames = append(group.LocationNames, row.LocationName)
		if row.IsPrimary {
			group.IsPrimary = true
			group.PrimaryLocationID = row.LocationID
		}
	}
	return out
}

// ToPairs convierte la reconstrucción en la entrada de ExpandPairs. La ubicación
// principal se mueve al frente para que la re-expansión conserve la fila principal.
func ToPairs(groups []RoleLocations) []RolePair {
	pairs := make([]RolePair, 0, len(groups))
	for _, g := range groups {
		ids := make([]string, 0, len(g.LocationIDs))
		if g.PrimaryLocationID != "" {
			ids = append(ids, g.PrimaryLocationID)
		}
		for _, id := range g.LocationIDs {
			if id != g.PrimaryLocationID {
				ids = append(ids, id)
			}
		}
		pairs = append(pairs, RolePair{RoleID: g.RoleID, LocationIDs: ids, IsPrimary: g.IsPrimary})
	}
	return pairs
}

// Primary devuelve el rol y la ubicación principal, si existen.
func Primary(groups []RoleLocations) (RoleLocations, bool) {
	for _, g := range groups {
		if g.IsPrimary {
			return g, true
		}
	}
	return RoleLocations{}, false
}

// RoleIDs ids de rol presentes en la reconstrucción.
func RoleIDs(groups []RoleLocations) []int {
	ids := make([]int, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.RoleID)
	}
	return ids
}
