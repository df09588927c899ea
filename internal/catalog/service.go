package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	pkgredis "github.com/rmjobsites/jobsites-api/pkg/redis"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
	cacheScope   = "catalog"

	objectTypeItem     = "ITEM"
	objectTypeCategory = "CATEGORY"
)

// Gateway is the catalog surface of the commerce client.
type Gateway interface {
	SearchCatalogItems(ctx context.Context, params square.CatalogSearchParams) ([]square.CatalogObject, error)
	GetCatalogObject(ctx context.Context, objectID string, includeRelated bool) (*square.CatalogObject, []square.CatalogObject, error)
	ListCategories(ctx context.Context) ([]square.CatalogObject, error)
	BatchGetCatalogObjects(ctx context.Context, objectIDs []string) ([]square.CatalogObject, error)
}

// Service serves read-only catalog browsing.
type Service interface {
	SearchProducts(ctx context.Context, q ProductQuery) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
}

type service struct {
	gateway Gateway
	cache   pkgredis.Cache
	ttl     time.Duration
	logg    *logger.Logger
}

// ServiceParams bundles the catalog dependencies. Cache is optional.
type ServiceParams struct {
	Gateway  Gateway
	Cache    pkgredis.Cache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		gateway: params.Gateway,
		cache:   params.Cache,
		ttl:     params.CacheTTL,
		logg:    params.Logger,
	}, nil
}

func (s *service) SearchProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	limit := clampLimit(q.Limit)
	text := strings.TrimSpace(q.Text)
	var categoryIDs []string
	for _, id := range q.CategoryIDs {
		if id = strings.TrimSpace(id); id != "" {
			categoryIDs = append(categoryIDs, id)
		}
	}

	var products []Product
	key := s.key("products", text, strings.Join(categoryIDs, ","), strconv.Itoa(limit))
	if s.cached(ctx, key, &products) {
		return products, nil
	}

	params := square.CatalogSearchParams{Text: text, CategoryIDs: categoryIDs, Limit: limit}
	items, err := s.gateway.SearchCatalogItems(ctx, params)
	if err != nil {
		return nil, err
	}
	urls, err := s.imageURLs(ctx, items)
	if err != nil {
		return nil, err
	}
	products = make([]Product, 0, len(items))
	for _, item := range items {
		if item.IsDeleted {
			continue
		}
		products = append(products, productFromObject(item, urls))
	}
	s.store(ctx, key, products)
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var product Product
	key := s.key("product", id)
	if s.cached(ctx, key, &product) {
		return &product, nil
	}

	obj, related, err := s.gateway.GetCatalogObject(ctx, id, true)
	if err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	if obj.Type != objectTypeItem || obj.IsDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	product = productFromObject(*obj, square.ImageURLs(related))
	s.store(ctx, key, product)
	return &product, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	key := s.key("categories")
	if s.cached(ctx, key, &categories) {
		return categories, nil
	}

	objects, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	urls, err := s.imageURLs(ctx, objects)
	if err != nil {
		return nil, err
	}
	categories = make([]Category, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDeleted {
			continue
		}
		categories = append(categories, categoryFromObject(obj, urls))
	}
	s.store(ctx, key, categories)
	return categories, nil
}

func (s *service) GetCategory(ctx context.Context, id string) (*Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	obj, related, err := s.gateway.GetCatalogObject(ctx, id, true)
	if err != nil {
		return nil, notFoundOr(err, "Category not found")
	}
	if obj.Type != objectTypeCategory || obj.IsDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Category not found")
	}
	category := categoryFromObject(*obj, square.ImageURLs(related))
	return &category, nil
}

// imageURLs resolves every referenced image with a single batch lookup.
func (s *service) imageURLs(ctx context.Context, objects []square.CatalogObject) (map[string]string, error) {
	ids := imageIDs(objects)
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	images, err := s.gateway.BatchGetCatalogObjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	return square.ImageURLs(images), nil
}

func (s *service) key(parts ...string) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey(cacheScope, parts...)
}

func (s *service) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "catalog.cache_read_failed: "+err.Error())
		return false
	}
	return found
}

func (s *service) store(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "catalog.cache_write_failed: "+err.Error())
	}
}

func notFoundOr(err error, message string) error {
	if gwErr := square.AsGatewayError(err); gwErr != nil && gwErr.StatusCode == http.StatusNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, message)
	}
	return err
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
