package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pizzastore/pizzastore/application/port/outbound"
	"github.com/pizzastore/pizzastore/domain/entity"
)

// Catalog stores categories and products together so that product inserts
// can check the category reference and category deletes can check usage.
type Catalog struct {
	mu           sync.RWMutex
	categories   map[int64]entity.Category
	products     map[int64]entity.Product
	nextCategory int64
	nextProduct  int64
}

func NewCatalog() *Catalog {
	return &Catalog{
		categories: make(map[int64]entity.Category),
		products:   make(map[int64]entity.Product),
	}
}

// Categories returns the catalog as an outbound.CategoryRepository.
func (c *Catalog) Categories() *CategoryRepository {
	return &CategoryRepository{c}
}

// Products returns the catalog as an outbound.ProductRepository.
func (c *Catalog) Products() *ProductRepository {
	return &ProductRepository{c}
}

type CategoryRepository struct {
	c *Catalog
}

func (r *CategoryRepository) List(_ context.Context, page outbound.Page) ([]*entity.Category, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	all := make([]*entity.Category, 0, len(r.c.categories))
	for _, cat := range r.c.categories {
		cat := cat
		all = append(all, &cat)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (r *CategoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	for _, existing := range r.c.categories {
		if existing.Name == category.Name {
			return outbound.ErrCategoryAlreadyExists
		}
	}
	r.c.nextCategory++
	category.ID = r.c.nextCategory
	r.c.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, ok := r.c.categories[id]; !ok {
		return outbound.ErrCategoryNotFound
	}
	for _, p := range r.c.products {
		if p.CategoryID == id {
			return outbound.ErrCategoryInUse
		}
	}
	delete(r.c.categories, id)
	return nil
}

type ProductRepository struct {
	c *Catalog
}

func (r *ProductRepository) List(_ context.Context, filter outbound.ProductFilter, page outbound.Page) ([]*entity.Product, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	all := make([]*entity.Product, 0, len(r.c.products))
	for _, p := range r.c.products {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), nil
}

func (r *ProductRepository) Create(_ context.Context, product *entity.Product) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, ok := r.c.categories[product.CategoryID]; !ok {
		return outbound.ErrProductConflict
	}
	for _, existing := range r.c.products {
		if existing.Name == product.Name {
			return outbound.ErrProductConflict
		}
	}
	r.c.nextProduct++
	product.ID = r.c.nextProduct
	r.c.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if _, ok := r.c.products[id]; !ok {
		return outbound.ErrProductNotFound
	}
	delete(r.c.products, id)
	return nil
}

func paginate[T any](items []T, page outbound.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
