// Package memory implementa los repositorios del dominio en memoria. Se usa en pruebas y
// como DB_DRIVER=memory para demos sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

type state struct {
	items     map[string]*entity.StockItem
	movements []*entity.StockMovement
	recipes   map[string]*entity.Recipe
	orders    []*entity.Order
	scanLogs  []*entity.ScanLog
	skuLinks  map[string]*entity.SkuLink
	operators []entity.Operator
	settings  *entity.ScanSettings
}

func newState() *state {
	return &state{
		items:    make(map[string]*entity.StockItem),
		recipes:  make(map[string]*entity.Recipe),
		skuLinks: make(map[string]*entity.SkuLink),
	}
}

// clone copia todo lo que los repositorios mutan en sitio. Movimientos, recetas, vínculos y
// configuración se reemplazan completos al escribir, así que basta con copiar los punteros.
func (st *state) clone() *state {
	c := &state{
		items:     make(map[string]*entity.StockItem, len(st.items)),
		movements: append([]*entity.StockMovement(nil), st.movements...),
		recipes:   make(map[string]*entity.Recipe, len(st.recipes)),
		orders:    make([]*entity.Order, len(st.orders)),
		scanLogs:  make([]*entity.ScanLog, len(st.scanLogs)),
		skuLinks:  make(map[string]*entity.SkuLink, len(st.skuLinks)),
		operators: append([]entity.Operator(nil), st.operators...),
		settings:  st.settings,
	}
	for k, v := range st.items {
		item := *v
		c.items[k] = &item
	}
	for k, v := range st.recipes {
		c.recipes[k] = v
	}
	for i, o := range st.orders {
		order := *o
		c.orders[i] = &order
	}
	for i, l := range st.scanLogs {
		log := *l
		c.scanLogs[i] = &log
	}
	for k, v := range st.skuLinks {
		c.skuLinks[k] = v
	}
	return c
}

// Store almacén en memoria. Un mutex global serializa las transacciones; cada una trabaja
// sobre una copia del estado que solo se publica si fn termina sin error.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Repositories devuelve repositorios no transaccionales (cada llamada toma el mutex).
// No deben usarse dentro de Run: se bloquearían.
func (s *Store) Repositories() repository.Repositories {
	return bind(handle{store: s})
}

// Run ejecuta fn con repositorios atados a una copia del estado.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(bind(handle{store: s, tx: work})); err != nil {
		return err
	}
	s.state = work
	return nil
}

type handle struct {
	store *Store
	tx    *state
}

func (h handle) with(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.state)
}

func bind(h handle) repository.Repositories {
	return repository.Repositories{
		Items:     &stockItemRepo{h},
		Movements: &stockMovementRepo{h},
		Recipes:   &recipeRepo{h},
		Orders:    &orderRepo{h},
		ScanLogs:  &scanLogRepo{h},
		SkuLinks:  &skuLinkRepo{h},
		Operators: &operatorRepo{h},
		Settings:  &settingsRepo{h},
	}
}

// page devuelve los límites [from, to) de una página sobre n elementos.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	to := n
	if limit > 0 && offset+limit < n {
		to = offset + limit
	}
	return offset, to
}
