package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/cache"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	"github.com/zishraq/ecommerce-backend/internal/utils"
)

type ProductService interface {
	CreateProduct(ctx context.Context, createdBy string, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error)
	SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*models.Product, int, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache *productCache
}

// NewProductService accepts a nil cache, in which case every read goes to the store.
func NewProductService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, cache: newProductCache(c, ttl)}
}

func (s *productService) CreateProduct(ctx context.Context, createdBy string, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:          uuid.New(),
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
		Category:    utils.SanitizeText(req.Category),
		Price:       decimal.NewFromFloat(req.Price).Round(2),
		Discount:    decimal.NewFromFloat(req.Discount).Round(2),
		InStock:     *req.InStock,
		Tags:        utils.SanitizeTags(req.Tags),
		CreatedBy:   createdBy,
	}

	if product.Name == "" {
		return nil, errors.MissingFieldError("product_name")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.AlreadyExistsError("Product " + product.Name + " already exists.").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	if product, ok := s.cache.get(ctx, id); ok {
		return product, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, productLookupError(err)
	}

	s.cache.set(ctx, product)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, productLookupError(err)
	}

	if req.Name != nil {
		product.Name = utils.SanitizeText(*req.Name)
		if product.Name == "" {
			return nil, errors.MissingFieldError("product_name")
		}
	}
	if req.Description != nil {
		product.Description = utils.SanitizeText(*req.Description)
	}
	if req.Category != nil {
		product.Category = utils.SanitizeText(*req.Category)
	}
	if req.Price != nil {
		product.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}
	if req.Discount != nil {
		product.Discount = decimal.NewFromFloat(*req.Discount).Round(2)
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.Tags != nil {
		product.Tags = utils.SanitizeTags(*req.Tags)
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		switch {
		case stdErrors.Is(err, repository.ErrNotFound):
			return nil, errors.NotFoundError("Product not found").WithError(err)
		case stdErrors.Is(err, repository.ErrDuplicate):
			return nil, errors.AlreadyExistsError("Product " + product.Name + " already exists.").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.cache.invalidate(ctx, product.ID)
	s.cache.invalidateAfter(ctx, cacheSettleDelay, product.ID)

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*models.Product, int, error) {

	pattern := SearchPattern(query)
	if pattern == "" {
		return nil, 0, errors.MissingFieldError("q")
	}

	products, total, err := s.repo.SearchProducts(ctx, pattern, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, total, nil
}

// cacheSettleDelay is how long after a product write its cache entry is
// dropped a second time. A read that fetched the row before the write
// committed may have stored it in between.
const cacheSettleDelay = 500 * time.Millisecond

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern turns a free-text query into an ILIKE pattern: every word must
// appear, in order, with anything in between. A blank query yields "".
func SearchPattern(query string) string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		words[i] = likeEscaper.Replace(word)
	}

	return "%" + strings.Join(words, "%") + "%"
}

func productLookupError(err error) error {
	if stdErrors.Is(err, repository.ErrNotFound) {
		return errors.NotFoundError("Product not found").WithError(err)
	}

	return errors.DatabaseError("Failed to get product").WithError(err)
}

// productCache keeps single products in redis. Cache failures only cost a
// store round trip, so they are logged and swallowed.
type productCache struct {
	cache cache.Cache
	ttl   time.Duration
}

func newProductCache(c cache.Cache, ttl time.Duration) *productCache {
	return &productCache{cache: c, ttl: ttl}
}

func (c *productCache) get(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}

	var product models.Product

	found, err := c.cache.Get(ctx, cache.ProductKey(id.String()), &product)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache read failed", slog.String("product_id", id.String()), slog.Any("error", err))
		return nil, false
	}

	if !found {
		return nil, false
	}

	return &product, true
}

func (c *productCache) set(ctx context.Context, product *models.Product) {
	if c == nil || c.cache == nil {
		return
	}

	if err := c.cache.Set(ctx, cache.ProductKey(product.ID.String()), product, c.ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache write failed", slog.String("product_id", product.ID.String()), slog.Any("error", err))
	}
}

func (c *productCache) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if c == nil || c.cache == nil {
		return
	}

	for _, id := range ids {
		if err := c.cache.Delete(ctx, cache.ProductKey(id.String())); err != nil {
			middleware.LoggerFromContext(ctx).Warn("Product cache invalidation failed", slog.String("product_id", id.String()), slog.Any("error", err))
		}
	}
}

// invalidateAfter repeats invalidate once delay has passed.
func (c *productCache) invalidateAfter(ctx context.Context, delay time.Duration, ids ...uuid.UUID) {
	if c == nil || c.cache == nil || len(ids) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)

	time.AfterFunc(delay, func() {
		c.invalidate(ctx, ids...)
	})
}
