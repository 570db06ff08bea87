package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/princinho/catalogsite/cache"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"

	// DefaultFeaturedCount is how many products the home page shows.
	DefaultFeaturedCount = 6

	// DefaultFetchTimeout bounds a shared CMS read when no client timeout
	// is configured.
	DefaultFetchTimeout = 30 * time.Second
)

var productFields = []string{"*", "category.*", "images.directus_files_id.*"}

// Catalog reads active products and categories. Read failures never reach
// callers: they degrade to an empty list or not-found and are logged.
type Catalog struct {
	client         *Client
	products       *Collection
	categories     *Collection
	store          cache.Store
	group          singleflight.Group
	productsSort   string
	categoriesSort string
	fetchTimeout   time.Duration
}

// FetchTimeout is the deadline applied to one CMS read: the configured
// client timeout, or DefaultFetchTimeout when that is 0.
func FetchTimeout(cfg config.DirectusConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return DefaultFetchTimeout
}

// NewCatalog builds a catalog reader. store may be nil to disable caching.
func NewCatalog(client *Client, store cache.Store, cfg config.DirectusConfig) *Catalog {
	productsSort := cfg.ProductsSortField
	if productsSort == "" {
		productsSort = "sort_order"
	}
	categoriesSort := cfg.CategoriesSortField
	if categoriesSort == "" {
		categoriesSort = "sort_order"
	}
	return &Catalog{
		client:         client,
		products:       client.Collection(ProductsCollection),
		categories:     client.Collection(CategoriesCollection),
		store:          store,
		productsSort:   productsSort,
		categoriesSort: categoriesSort,
		fetchTimeout:   FetchTimeout(cfg),
	}
}

// AssetURL returns the public URL of a CMS file, "" for an empty id.
func (c *Catalog) AssetURL(fileID string) string {
	return c.client.AssetURL(fileID)
}

// ProductsQuery is the query for active products, optionally filtered by
// category slug and capped at limit (<= 0 means no cap).
func (c *Catalog) ProductsQuery(categorySlug string, limit int) *Query {
	q := NewQuery().
		Eq("is_active", "true").
		SetSort(c.productsSort, "-id").
		SetFields(productFields...).
		SetLimit(limit)
	if categorySlug != "" {
		q.Eq("category.slug", categorySlug)
	}
	return q
}

// ProductBySlugQuery is the query for a single active product.
func (c *Catalog) ProductBySlugQuery(slug string) *Query {
	return NewQuery().
		Eq("slug", slug).
		Eq("is_active", "true").
		SetFields(productFields...).
		SetLimit(1)
}

// CategoriesQuery is the query for the category list.
func (c *Catalog) CategoriesQuery() *Query {
	return NewQuery().
		SetSort(c.categoriesSort).
		SetFields("id", "name", "slug")
}

// FetchProducts returns the active products, with category and images
// expanded, optionally filtered by category slug.
func (c *Catalog) FetchProducts(ctx context.Context, categorySlug string, limit int) []models.Product {
	key := productsKey(categorySlug, limit)
	products, err := load(ctx, c, key, func(ctx context.Context) ([]models.Product, error) {
		return c.fetchProducts(ctx, categorySlug, limit)
	})
	if err != nil {
		zap.L().Warn("cms products fetch failed",
			zap.String("category", categorySlug), zap.Int("limit", limit), zap.Error(err))
		return []models.Product{}
	}
	return products
}

// FetchFeaturedProducts returns the first count products of the catalog.
func (c *Catalog) FetchFeaturedProducts(ctx context.Context, count int) []models.Product {
	if count <= 0 {
		count = DefaultFeaturedCount
	}
	return c.FetchProducts(ctx, "", count)
}

// FetchProductBySlug returns the active product with slug, or false when
// there is none or the CMS could not be read.
func (c *Catalog) FetchProductBySlug(ctx context.Context, slug string) (*models.Product, bool) {
	if slug == "" {
		return nil, false
	}
	key := "product:" + slug
	if c.store != nil {
		var cached models.Product
		if found, err := c.store.Get(ctx, key, &cached); err == nil && found {
			return &cached, true
		} else if err != nil {
			zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		var items []models.Product
		if err := c.products.Find(ctx, c.ProductBySlugQuery(slug), &items); err != nil {
			return nil, err
		}
		items = activeOnly(items)
		if len(items) == 0 {
			return (*models.Product)(nil), nil
		}
		p := items[0]
		c.put(ctx, key, p)
		return &p, nil
	})
	if err != nil {
		zap.L().Warn("cms product fetch failed", zap.String("slug", slug), zap.Error(err))
		return nil, false
	}
	p := v.(*models.Product)
	if p == nil {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// FetchCategories returns every category ordered by the configured field.
func (c *Catalog) FetchCategories(ctx context.Context) []models.Category {
	categories, err := load(ctx, c, "categories", c.fetchCategories)
	if err != nil {
		zap.L().Warn("cms categories fetch failed", zap.Error(err))
		return []models.Category{}
	}
	return categories
}

// Refresh re-reads the category list and the full product list from the
// CMS and replaces the cached copies.
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	categories, err := c.fetchCategories(ctx)
	if err != nil {
		return fmt.Errorf("refresh categories: %w", err)
	}
	c.put(ctx, "categories", categories)

	products, err := c.fetchProducts(ctx, "", 0)
	if err != nil {
		return fmt.Errorf("refresh products: %w", err)
	}
	c.put(ctx, productsKey("", 0), products)

	featured := products
	if len(featured) > DefaultFeaturedCount {
		featured = featured[:DefaultFeaturedCount]
	}
	c.put(ctx, productsKey("", DefaultFeaturedCount), featured)

	for _, p := range products {
		c.put(ctx, "product:"+p.Slug, p)
	}
	zap.L().Info("catalog cache refreshed",
		zap.Int("categories", len(categories)), zap.Int("products", len(products)))
	return nil
}

func (c *Catalog) fetchProducts(ctx context.Context, categorySlug string, limit int) ([]models.Product, error) {
	items := []models.Product{}
	if err := c.products.Find(ctx, c.ProductsQuery(categorySlug, limit), &items); err != nil {
		return nil, err
	}
	return activeOnly(items), nil
}

func (c *Catalog) fetchCategories(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	if err := c.categories.Find(ctx, c.CategoriesQuery(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Catalog) put(ctx context.Context, key string, value interface{}) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, value); err != nil {
		zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// load serves key from the cache, or runs fetch once for all concurrent
// callers and caches a successful result.
func load[T any](ctx context.Context, c *Catalog, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c.store != nil {
		var cached T
		found, err := c.store.Get(ctx, key, &cached)
		if err != nil {
			zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	v, err := c.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		res, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, res)
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// shared runs fn once for all concurrent callers of key. fn gets a context
// detached from any single caller, so one caller going away does not fail
// the others; each caller still returns early when its own ctx is done.
func (c *Catalog) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return fn(fctx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func productsKey(categorySlug string, limit int) string {
	return fmt.Sprintf("products:%s:%d", categorySlug, limit)
}

// activeOnly drops products whose active flag is not set. The query
// already filters on it; this keeps the guarantee if a filter is ignored.
func activeOnly(items []models.Product) []models.Product {
	out := items[:0]
	for _, p := range items {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}
