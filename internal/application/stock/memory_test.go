package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un almacén compartido, repos que leen/escriben copias y un
// TxRunner que hace snapshot/restore para simular rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items       map[string]*entity.StockItem
	movements   map[string]*entity.StockMovement
	allocations map[string]*entity.StockAllocation
	projects    map[string]*entity.Project
}

func newMemStore() *memStore {
	return &memStore{
		items:       make(map[string]*entity.StockItem),
		movements:   make(map[string]*entity.StockMovement),
		allocations: make(map[string]*entity.StockAllocation),
		projects:    make(map[string]*entity.Project),
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.movements {
		cp := *v
		c.movements[k] = &cp
	}
	for k, v := range s.allocations {
		cp := *v
		c.allocations[k] = &cp
	}
	for k, v := range s.projects {
		cp := *v
		c.projects[k] = &cp
	}
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.movements = snap.movements
	s.allocations = snap.allocations
	s.projects = snap.projects
}

// ── StockItemRepository ───────────────────────────────────────────────────────

type memItemRepo struct{ store *memStore }

var _ repository.StockItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(item *entity.StockItem) error {
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) CreateBatch(items []*entity.StockItem) error {
	for _, item := range items {
		if err := r.Create(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.StockItem, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *memItemRepo) GetByCode(itemCode string) (*entity.StockItem, error) {
	for _, item := range r.store.items {
		if item.ItemCode == itemCode {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) List(filter repository.ItemFilter, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, item := range r.store.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.ProjectID != "" && item.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return paginate(out, limit, offset), nil
}

func (r *memItemRepo) ListLowStock() ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, item := range r.store.items {
		if item.IsLowStock() {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out, nil
}

func (r *memItemRepo) Update(item *entity.StockItem) error {
	cp := *item
	r.store.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) UpdateStockLevels(item *entity.StockItem) error {
	return r.Update(item)
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.store.items, id)
	return nil
}

// ── StockMovementRepository ───────────────────────────────────────────────────

type memMovementRepo struct{ store *memStore }

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	r.store.movements[movement.ID] = &cp
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	m, ok := r.store.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
			continue
		}
		if filter.ReferenceID != "" && m.ReferenceID != filter.ReferenceID {
			continue
		}
		if filter.ProjectID != "" && m.FromProjectID != filter.ProjectID && m.ToProjectID != filter.ProjectID {
			continue
		}
		if filter.PerformedBy != "" && m.PerformedBy != filter.PerformedBy {
			continue
		}
		if filter.From != nil && m.MovementDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.MovementDate.After(*filter.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovementDate.After(out[j].MovementDate) })
	return paginate(out, limit, offset), nil
}

func (r *memMovementRepo) CountByItem(itemID string) (int64, error) {
	var n int64
	for _, m := range r.store.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// ── StockAllocationRepository ─────────────────────────────────────────────────

type memAllocationRepo struct{ store *memStore }

var _ repository.StockAllocationRepository = (*memAllocationRepo)(nil)

func (r *memAllocationRepo) Create(allocation *entity.StockAllocation) error {
	cp := *allocation
	r.store.allocations[allocation.ID] = &cp
	return nil
}

func (r *memAllocationRepo) GetByID(id string) (*entity.StockAllocation, error) {
	a, ok := r.store.allocations[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAllocationRepo) GetActiveByItemAndProject(itemID, projectID string) (*entity.StockAllocation, error) {
	for _, a := range r.store.allocations {
		if a.StockItemID == itemID && a.ProjectID == projectID && a.IsActive() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAllocationRepo) Update(allocation *entity.StockAllocation) error {
	cp := *allocation
	r.store.allocations[allocation.ID] = &cp
	return nil
}

func (r *memAllocationRepo) ListActive(projectID string) ([]*entity.StockAllocation, error) {
	var out []*entity.StockAllocation
	for _, a := range r.store.allocations {
		if !a.IsActive() {
			continue
		}
		if projectID != "" && a.ProjectID != projectID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── ProjectRepository ─────────────────────────────────────────────────────────

type memProjectRepo struct{ store *memStore }

var _ repository.ProjectRepository = (*memProjectRepo)(nil)

func (r *memProjectRepo) GetByID(id string) (*entity.Project, error) {
	p, ok := r.store.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// memTxRunner simula la transacción con snapshot/restore: si fn falla, el
// almacén vuelve al estado previo, igual que un rollback real.
type memTxRunner struct{ store *memStore }

func (tx *memTxRunner) Run(_ context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	allocations repository.StockAllocationRepository,
) error) error {
	snap := tx.store.snapshot()
	err := fn(
		&memItemRepo{store: tx.store},
		&memMovementRepo{store: tx.store},
		&memAllocationRepo{store: tx.store},
	)
	if err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

// ── LowStockCache ─────────────────────────────────────────────────────────────

// memLowStockCache contabiliza cada operación para verificar el read-through y
// la invalidación tras commit.
type memLowStockCache struct {
	items         []*entity.StockItem
	hit           bool
	sets          int
	invalidations int
}

var _ appstock.LowStockCache = (*memLowStockCache)(nil)

func (c *memLowStockCache) Get(context.Context) ([]*entity.StockItem, bool) {
	return c.items, c.hit
}

func (c *memLowStockCache) Set(_ context.Context, items []*entity.StockItem) {
	c.items = items
	c.hit = true
	c.sets++
}

func (c *memLowStockCache) Invalidate(context.Context) {
	c.items = nil
	c.hit = false
	c.invalidations++
}

// ── Builders ──────────────────────────────────────────────────────────────────

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testItem(id, code string, current, allocated string) *entity.StockItem {
	now := time.Now()
	return &entity.StockItem{
		ID:             id,
		ItemCode:       code,
		Name:           "Cable de fibra 24F",
		Category:       entity.CategoryFibreCable,
		UnitOfMeasure:  entity.UnitMeters,
		CurrentStock:   dec(current),
		AllocatedStock: dec(allocated),
		ReorderLevel:   dec("10"),
		MinimumStock:   dec("5"),
		StandardCost:   dec("2.50"),
		Status:         entity.ItemStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func testProject(id, code, name string) *entity.Project {
	return &entity.Project{ID: id, ProjectCode: code, Name: name}
}

var testActor = appstock.Actor{ID: "user-1", Name: "Técnico de Pruebas"}
