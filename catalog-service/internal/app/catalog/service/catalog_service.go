package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository"
	"bazaar/pkg/logger"

	"github.com/lib/pq"
)

// CatalogSettings - настройки поведения каталога
type CatalogSettings struct {
	Bucket string
	// EmptyCategoryAsNotFound - пустой список товаров категории отдаётся как 404
	EmptyCategoryAsNotFound bool
}

// CatalogService обрабатывает бизнес-логику категорий и товаров
// Координирует загрузку изображений, запись в хранилище и каскадное удаление
type CatalogService struct {
	categories repository.Table[entity.Category]
	products   repository.Table[entity.Product]
	media      *MediaIngestor
	cascade    *CascadeCoordinator
	events     *EventPublisher
	settings   CatalogSettings
}

func NewCatalogService(
	categories repository.Table[entity.Category],
	products repository.Table[entity.Product],
	media *MediaIngestor,
	cascade *CascadeCoordinator,
	events *EventPublisher,
	settings CatalogSettings,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		media:      media,
		cascade:    cascade,
		events:     events,
		settings:   settings,
	}
}

// === CATEGORIES ===

// CreateCategory сначала загружает изображение, затем пишет строку с его URL
// При ошибке загрузки строка не создаётся
func (s *CatalogService) CreateCategory(ctx context.Context, input entity.CreateCategoryInput) (*entity.Category, error) {
	absent := missing(map[string]bool{
		"title":   strings.TrimSpace(input.Title) == "",
		"picture": input.Picture.Name == "" || len(input.Picture.Payload) == 0,
	})
	if len(absent) > 0 {
		return nil, &ValidationError{Fields: absent, Message: "Title and picture are required"}
	}

	pictureURL, err := s.media.Ingest(ctx, input.Picture, s.settings.Bucket)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{
		Title:   input.Title,
		Picture: pictureURL,
	}
	if err := createRow(ctx, s.categories, category, "Database insertion failed"); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entity.EventCategoryCreated, "category", category.ID)
	return category, nil
}

// ListCategories возвращает категории с их товарами, соединёнными в памяти
func (s *CatalogService) ListCategories(ctx context.Context, title string) ([]entity.CategoryWithProducts, error) {
	categories, err := fetchByTitle(ctx, s.categories, title, "Error fetching categories")
	if err != nil {
		return nil, err
	}

	products, err := fetchWhere(ctx, s.products, "Error fetching products")
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]entity.Product, len(categories))
	for _, product := range products {
		byCategory[product.CategoryID] = append(byCategory[product.CategoryID], product)
	}

	result := make([]entity.CategoryWithProducts, 0, len(categories))
	for _, category := range categories {
		items := byCategory[category.ID]
		if items == nil {
			items = []entity.Product{}
		}
		result = append(result, entity.CategoryWithProducts{Category: category, Products: items})
	}

	return result, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.CategoryWithProducts, error) {
	category, err := fetchOne(ctx, s.categories, id, "Error fetching category",
		&NotFoundError{Entity: "category", Message: "Category not found"})
	if err != nil {
		return nil, err
	}

	products, err := fetchWhere(ctx, s.products, "Error fetching products", repository.Eq("category_id", id))
	if err != nil {
		return nil, err
	}

	return &entity.CategoryWithProducts{Category: *category, Products: products}, nil
}

// DeleteCategory удаляет категорию каскадом: сначала товары, затем саму категорию
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.cascade.DeleteCategory(ctx, id)
}

// === PRODUCTS ===

// CreateProduct: главное изображение обязательно, дополнительные загружаются по возможности
// Start -> MainImageUploaded -> AdditionalImagesProcessed -> PersistedToStore
func (s *CatalogService) CreateProduct(ctx context.Context, input entity.CreateProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	pictureURL, err := s.media.Ingest(ctx, input.Picture, s.settings.Bucket)
	if err != nil {
		return nil, err
	}

	batch := s.media.IngestBatch(ctx, input.AdditionalPics, s.settings.Bucket)
	if !batch.AllSucceeded() {
		logger.Warn().
			Int("requested", len(batch.Items)).
			Int("uploaded", batch.Succeeded()).
			Str("title", input.Title).
			Msg("Some additional pictures were skipped")
	}

	product := &entity.Product{
		Title:         input.Title,
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		CategoryID:    input.CategoryID,
		Discount:      input.Discount,
		Coupon:        input.Coupon,
		Picture:       pictureURL,
		AdditionalPic: pq.StringArray(batch.URLs()),
	}
	if err := createRow(ctx, s.products, product, "Database insertion failed"); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entity.EventProductCreated, "product", product.ID)
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, title string) ([]entity.Product, error) {
	return fetchByTitle(ctx, s.products, title, "Error fetching products")
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return fetchOne(ctx, s.products, id, "Error fetching product",
		&NotFoundError{Entity: "product", Message: "Product not found"})
}

// ListByCategory - пустой результат считается 404, если включена EmptyCategoryAsNotFound
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	products, err := fetchWhere(ctx, s.products, "Error fetching products", repository.Eq("category_id", categoryID))
	if err != nil {
		return nil, err
	}

	if len(products) == 0 && s.settings.EmptyCategoryAsNotFound {
		return nil, &NotFoundError{Entity: "product", Message: "No products found for this category"}
	}

	return products, nil
}

func (s *CatalogService) UpdateCoupon(ctx context.Context, id int64, coupon string) error {
	coupon = strings.TrimSpace(coupon)
	if coupon == "" {
		return &ValidationError{Fields: []string{"coupon"}, Message: "Coupon code is required"}
	}

	return s.updateProduct(ctx, id, map[string]interface{}{"coupon": coupon}, "Error updating coupon")
}

// UpdateDiscount принимает только значения из [0, 100]
func (s *CatalogService) UpdateDiscount(ctx context.Context, id int64, discount float64) error {
	if math.IsNaN(discount) || discount < 0 || discount > 100 {
		return &ValidationError{Fields: []string{"discount"}, Message: DiscountRangeMessage}
	}

	return s.updateProduct(ctx, id, map[string]interface{}{"discount": discount}, "Error updating discount")
}

// DeleteProduct проверяет существование товара перед удалением
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	if _, err := s.products.Delete(ctx, repository.Eq("id", id)); err != nil {
		return &UpstreamError{Op: "Error deleting product", Err: err}
	}

	s.events.Publish(ctx, entity.EventProductDeleted, "product", id)
	return nil
}

func (s *CatalogService) updateProduct(ctx context.Context, id int64, values map[string]interface{}, op string) error {
	affected, err := s.products.Update(ctx, values, repository.Eq("id", id))
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	if affected == 0 {
		logger.Warn().Int64("product_id", id).Msg("Product update matched no rows")
		return nil
	}

	s.events.Publish(ctx, entity.EventProductUpdated, "product", id)
	return nil
}

// DiscountRangeMessage - текст ошибки для скидки вне [0, 100]
const DiscountRangeMessage = "Discount percentage is required and should be between 0 and 100"

const productRequiredMessage = "Title, description, price, quantity, category_id, and picture are required"

func validateProductInput(input entity.CreateProductInput) error {
	absent := missing(map[string]bool{
		"title":       strings.TrimSpace(input.Title) == "",
		"description": strings.TrimSpace(input.Description) == "",
		"category_id": input.CategoryID == 0,
		"picture":     input.Picture.Name == "" || len(input.Picture.Payload) == 0,
	})
	if len(absent) > 0 {
		return &ValidationError{Fields: absent, Message: productRequiredMessage}
	}

	var invalid []string
	if !input.Price.IsPositive() {
		invalid = append(invalid, "price")
	}
	if input.Quantity < 0 {
		invalid = append(invalid, "quantity")
	}
	if math.IsNaN(input.Discount) || input.Discount < 0 || input.Discount > 100 {
		invalid = append(invalid, "discount")
	}
	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid, Message: "invalid fields: " + strings.Join(invalid, ", ")}
	}

	return nil
}

// missing возвращает имена полей с true в отсортированном порядке
func missing(fields map[string]bool) []string {
	names := make([]string, 0, len(fields))
	for name, absent := range fields {
		if absent {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
