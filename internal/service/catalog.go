package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"eshop-assistant/internal/dto"
	"eshop-assistant/internal/model"
	"eshop-assistant/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const lowStockThreshold = 10

// CatalogService covers product and category management for both the admin
// chat router and the REST endpoints.
type CatalogService interface {
	AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int, categoryName string) (*model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductCreateRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID uint, req *dto.ProductUpdateRequest) (*model.Product, error)
	UpdateProductPrice(ctx context.Context, ident string, price decimal.Decimal) (*model.Product, error)
	UpdateProductStock(ctx context.Context, ident string, stock int) (*model.Product, error)
	DeleteProductByID(ctx context.Context, productID uint) (*model.Product, error)
	DeleteProductByName(ctx context.Context, name string) (*model.Product, error)
	FindProduct(ctx context.Context, ident string) (*model.Product, error)
	Products(ctx context.Context) ([]*model.Product, error)
	LowStock(ctx context.Context) ([]*model.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]*model.Product, error)

	AddCategory(ctx context.Context, name string) (*model.Category, error)
	RenameCategory(ctx context.Context, oldName, newName string) (*model.Category, error)
	DeleteCategoryByID(ctx context.Context, categoryID uint) (*model.Category, error)
	DeleteCategoryByName(ctx context.Context, name string) (*model.Category, error)
	Categories(ctx context.Context) ([]*model.Category, error)
}

type catalogServiceImpl struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(db *gorm.DB, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogServiceImpl{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// AddProduct resolves the category by case-insensitive name. An unknown
// category fails with the list of valid names so the chat layer can echo it.
func (s *catalogServiceImpl) AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int, categoryName string) (*model.Product, error) {
	category, err := s.categoryRepo.FindByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CategoryNotFoundError{Ident: categoryName, Available: s.categoryNames(ctx)}
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	product := &model.Product{
		Name:          name,
		Description:   fmt.Sprintf("%s - added via chatbot", name),
		Price:         price,
		StockQuantity: stock,
		CategoryID:    category.CategoryID,
	}
	if err := s.productRepo.Create(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductCreateRequest) (*model.Product, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CategoryNotFoundError{Ident: fmt.Sprint(req.CategoryID), Available: s.categoryNames(ctx)}
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.Stock,
		CategoryID:    req.CategoryID,
	}
	if err := s.productRepo.Create(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID uint, req *dto.ProductUpdateRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{Ident: fmt.Sprint(productID)}
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.StockQuantity = *req.Stock
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &CategoryNotFoundError{Ident: fmt.Sprint(*req.CategoryID), Available: s.categoryNames(ctx)}
			}
			return nil, fmt.Errorf("load category: %w", err)
		}
		product.CategoryID = *req.CategoryID
	}

	if err := s.productRepo.Update(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProductPrice(ctx context.Context, ident string, price decimal.Decimal) (*model.Product, error) {
	product, err := s.FindProduct(ctx, ident)
	if err != nil {
		return nil, err
	}
	product.Price = price
	if err := s.productRepo.Update(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProductStock(ctx context.Context, ident string, stock int) (*model.Product, error) {
	product, err := s.FindProduct(ctx, ident)
	if err != nil {
		return nil, err
	}
	product.StockQuantity = stock
	if err := s.productRepo.Update(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) DeleteProductByID(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{Ident: fmt.Sprint(productID)}
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if err := s.productRepo.Delete(ctx, s.db, product.ProductID); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) DeleteProductByName(ctx context.Context, name string) (*model.Product, error) {
	product, err := s.productRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{Ident: name}
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if err := s.productRepo.Delete(ctx, s.db, product.ProductID); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return product, nil
}

// FindProduct resolves a reference that is either a numeric product id, an
// exact name, or a name fragment, in that order.
func (s *catalogServiceImpl) FindProduct(ctx context.Context, ident string) (*model.Product, error) {
	ident = strings.Trim(strings.TrimSpace(ident), `'"`)
	if id, ok := parseUint(ident); ok {
		product, err := s.productRepo.FindByID(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load product: %w", err)
		}
	}

	product, err := s.productRepo.FindByName(ctx, ident)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load product: %w", err)
	}

	product, err = s.productRepo.FindByNameLike(ctx, ident)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{Ident: ident}
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) Products(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *catalogServiceImpl) LowStock(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	var low []*model.Product
	for _, p := range products {
		if p.StockQuantity < lowStockThreshold {
			low = append(low, p)
		}
	}
	return low, nil
}

// SearchProducts scores the catalog against the query tokens and returns the
// best matches. A product scores on name and description hits; name hits
// weigh more.
func (s *catalogServiceImpl) SearchProducts(ctx context.Context, query string, limit int) ([]*model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	tokens := searchTokens(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	type scored struct {
		product *model.Product
		score   int
	}
	var hits []scored
	for _, p := range products {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		score := 0
		for _, token := range tokens {
			if strings.Contains(name, token) {
				score += 2
			}
			if strings.Contains(desc, token) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{product: p, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*model.Product, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.product)
	}
	return out, nil
}

func (s *catalogServiceImpl) AddCategory(ctx context.Context, name string) (*model.Category, error) {
	if existing, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, &CategoryExistsError{Name: existing.CategoryName}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load category: %w", err)
	}

	category := &model.Category{CategoryName: name}
	if err := s.categoryRepo.Create(ctx, s.db, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) RenameCategory(ctx context.Context, oldName, newName string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, oldName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CategoryNotFoundError{Ident: oldName, Available: s.categoryNames(ctx)}
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	if clash, err := s.categoryRepo.FindByName(ctx, newName); err == nil && clash.CategoryID != category.CategoryID {
		return nil, &CategoryExistsError{Name: clash.CategoryName}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load category: %w", err)
	}

	category.CategoryName = newName
	if err := s.categoryRepo.Update(ctx, s.db, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) DeleteCategoryByID(ctx context.Context, categoryID uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CategoryNotFoundError{Ident: fmt.Sprint(categoryID), Available: s.categoryNames(ctx)}
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	return s.deleteCategory(ctx, category)
}

func (s *catalogServiceImpl) DeleteCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &CategoryNotFoundError{Ident: name, Available: s.categoryNames(ctx)}
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	return s.deleteCategory(ctx, category)
}

// deleteCategory refuses to delete a category that still has products.
func (s *catalogServiceImpl) deleteCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	count, err := s.productRepo.CountByCategory(ctx, category.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil, &CategoryInUseError{Name: category.CategoryName}
	}
	if err := s.categoryRepo.Delete(ctx, s.db, category.CategoryID); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *catalogServiceImpl) categoryNames(ctx context.Context) []string {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.CategoryName)
	}
	return names
}

func searchTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	var tokens []string
	for _, f := range fields {
		f = strings.Trim(f, `.,!?'"`)
		if len(f) >= 3 && !isStopWord(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isStopWord(w string) bool {
	switch w {
	case "the", "and", "for", "you", "have", "show", "what", "are", "any",
		"can", "get", "find", "about", "tell", "with", "there", "some",
		"much", "does", "cost", "price", "available", "stock", "product",
		"products", "item", "items":
		return true
	}
	return false
}
