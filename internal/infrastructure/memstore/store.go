// Package memstore implementa los puertos de repositorio en memoria. Se usa en los tests
// de casos de uso y en modo desarrollo sin base de datos (STORE_DRIVER=memory).
//
// Las transacciones trabajan sobre una copia del estado que solo se publica si el
// callback no devuelve error, igual que un Rollback de PostgreSQL.
package memstore

import (
	"errors"
	"sync"

	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// ErrInjected error por defecto de FailOn.
var ErrInjected = errors.New("memstore: fallo inyectado")

type state struct {
	restaurants map[string]entity.Restaurant
	locations   map[string]entity.Location
	roles       []entity.Role
	users       map[string]entity.User
	assignments []entity.RoleAssignment
	audit       []entity.AssignmentAudit
	categories  map[string]entity.MenuCategory
	items       map[string]entity.MenuItem
}

func newState() *state {
	return &state{
		restaurants: make(map[string]entity.Restaurant),
		locations:   make(map[string]entity.Location),
		users:       make(map[string]entity.User),
		categories:  make(map[string]entity.MenuCategory),
		items:       make(map[string]entity.MenuItem),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.restaurants {
		c.restaurants[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	c.roles = append([]entity.Role(nil), s.roles...)
	c.assignments = append([]entity.RoleAssignment(nil), s.assignments...)
	c.audit = append([]entity.AssignmentAudit(nil), s.audit...)
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex // serializa transacciones y escrituras directas
	st       *state
	failures map[string]error
}

// New crea un store vacío con el catálogo de roles indicado.
func New(roles []entity.Role) *Store {
	st := newState()
	st.roles = append(st.roles, roles...)
	return &Store{st: st, failures: make(map[string]error)}
}

// FailOn hace que la operación op (ej. "assignments.InsertBatch") devuelva err.
// err nil usa ErrInjected.
func (s *Store) FailOn(op string, err error) {
	if err == nil {
		err = ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures quita todos los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]error)
}

func (s *Store) failure(op string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures[op]
}

// Assignments copia de todas las filas de asignación (para aserciones en tests).
func (s *Store) Assignments() []entity.RoleAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.RoleAssignment(nil), s.st.assignments...)
}

// AuditEntries copia del historial de asignaciones.
func (s *Store) AuditEntries() []entity.AssignmentAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AssignmentAudit(nil), s.st.audit...)
}

// scope acceso al estado: directo (con lock) o atado a una transacción en curso.
type scope struct {
	store *Store
	tx    *state
}

func (sc scope) read(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.mu.RLock()
	defer sc.store.mu.RUnlock()
	return fn(sc.store.st)
}

// write fuera de una tx espera a que termine la tx en curso: el commit reemplaza el estado
// completo y borraría lo escrito mientras tanto.
func (sc scope) write(fn func(st *state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.store.txMu.Lock()
	defer sc.store.txMu.Unlock()
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	return fn(sc.store.st)
}

func (sc scope) check(op string) error {
	return sc.store.failure(op)
}
