package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/shopspring/decimal"
)

type CreateCategoryRequest struct {
	Title   string                `form:"title" validate:"required"`
	Picture *multipart.FileHeader `form:"picture" validate:"required"`
}

// CreateProductRequest - multipart форма добавления товара
// Числовые поля принимаются строками и разбираются отдельно, чтобы ошибка формата
// отдавалась как 400 с именем поля
type CreateProductRequest struct {
	Title          string                  `form:"title" validate:"required"`
	Description    string                  `form:"description" validate:"required"`
	Price          string                  `form:"price" validate:"required"`
	Quantity       string                  `form:"quantity" validate:"required"`
	CategoryID     string                  `form:"category_id" validate:"required"`
	Discount       string                  `form:"discount"`
	Coupon         string                  `form:"coupon"`
	Picture        *multipart.FileHeader   `form:"picture" validate:"required"`
	AdditionalPics []*multipart.FileHeader `form:"additionalPics" validate:"max=10"`
}

type AddWishlistRequest struct {
	UserID    string     `json:"user_id" form:"user_id" validate:"required"`
	ProductID FlexibleID `json:"product_id" form:"product_id" validate:"required"`
}

type CreateReviewRequest struct {
	PID      FlexibleID `json:"pid" form:"pid" validate:"required"`
	Stars    int        `json:"stars" form:"stars" validate:"required"`
	Feedback string     `json:"feedback" form:"feedback" validate:"required"`
}

// CreateCategoryInput - провалидированные данные для сервиса
type CreateCategoryInput struct {
	Title   string
	Picture Attachment
}

type CreateProductInput struct {
	Title          string
	Description    string
	Price          decimal.Decimal
	Quantity       int64
	CategoryID     int64
	Discount       float64
	Coupon         *string
	Picture        Attachment
	AdditionalPics []Attachment
}

type AddWishlistInput struct {
	UserID    string
	ProductID int64
}

type CreateReviewInput struct {
	PID      string
	Stars    int
	Feedback string
}

// Response - единый конверт ответа для всех маршрутов /api
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// FlexibleID принимает идентификатор и как JSON строку, и как JSON число
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}
