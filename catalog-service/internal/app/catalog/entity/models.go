package entity

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Category представляет категорию товаров
type Category struct {
	ID      int64  `json:"id" gorm:"column:id;primaryKey"`
	Title   string `json:"title" gorm:"column:title"`
	Picture string `json:"picture" gorm:"column:picture"` // Публичный URL изображения
}

func (Category) TableName() string { return "category" }

// Product представляет товар в каталоге
type Product struct {
	ID            int64           `json:"id" gorm:"column:id;primaryKey"`
	Title         string          `json:"title" gorm:"column:title"`
	Description   string          `json:"description" gorm:"column:description"`
	Price         decimal.Decimal `json:"price" gorm:"column:price;type:numeric"`
	Quantity      int64           `json:"quantity" gorm:"column:quantity"`
	CategoryID    int64           `json:"category_id" gorm:"column:category_id"`
	Discount      float64         `json:"discount" gorm:"column:discount"` // Процент скидки 0..100
	Coupon        *string         `json:"coupon" gorm:"column:coupon"`
	Picture       string          `json:"picture" gorm:"column:picture"`
	AdditionalPic pq.StringArray  `json:"additionalPic" gorm:"column:additionalPic;type:text[]"`
}

func (Product) TableName() string { return "product" }

// WishlistEntry - товар в списке желаний пользователя, дубликаты допустимы
type WishlistEntry struct {
	ID        int64  `json:"id" gorm:"column:id;primaryKey"`
	UserID    string `json:"user_id" gorm:"column:user_id"`
	ProductID int64  `json:"product_id" gorm:"column:product_id"`
}

func (WishlistEntry) TableName() string { return "wishlist" }

// Review - отзыв на товар. PID хранится как непрозрачная строка
type Review struct {
	ID       int64  `json:"id" gorm:"column:id;primaryKey"`
	PID      string `json:"pid" gorm:"column:pid"`
	Stars    int    `json:"stars" gorm:"column:stars"`
	Feedback string `json:"feedback" gorm:"column:feedback"`
}

func (Review) TableName() string { return "review" }

// CategoryWithProducts содержит категорию и её товары (join в памяти)
type CategoryWithProducts struct {
	Category
	Products []Product `json:"products"`
}

// Attachment - загруженный клиентом файл, целиком в памяти
type Attachment struct {
	Name        string
	ContentType string
	Payload     []byte
}

// CatalogEvent представляет событие изменения каталога для Kafka
type CatalogEvent struct {
	EventType string    `json:"event_type"` // CATEGORY_CREATED, CATEGORY_DELETED, PRODUCT_CREATED, ...
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventCategoryCreated = "CATEGORY_CREATED"
	EventCategoryDeleted = "CATEGORY_DELETED"
	EventProductCreated  = "PRODUCT_CREATED"
	EventProductUpdated  = "PRODUCT_UPDATED"
	EventProductDeleted  = "PRODUCT_DELETED"
	EventWishlistAdded   = "WISHLIST_ENTRY_ADDED"
	EventReviewCreated   = "REVIEW_CREATED"
)
