package service

import (
	"fmt"
	"strings"
)

// ValidationError - отсутствующие или некорректные поля запроса (400)
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// NotFoundError - поиск по id ничего не вернул (404)
type NotFoundError struct {
	Entity  string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Entity + " not found"
}

// UpstreamError - ошибка реляционного хранилища (500)
// Текст ошибки хранилища передаётся клиенту после префикса операции
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IngestError - изображение не удалось загрузить в blob storage (500)
type IngestError struct {
	Name string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("Error uploading file to Supabase: %s", e.Err.Error())
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// CascadePhase - шаг удаления категории, на котором произошла ошибка
type CascadePhase string

const (
	PhaseVerify         CascadePhase = "verify"
	PhaseDeleteProducts CascadePhase = "delete_products"
	PhaseDeleteCategory CascadePhase = "delete_category"
)

// CascadeError - каскадное удаление остановилось на фазе Phase (500)
type CascadeError struct {
	Phase      CascadePhase
	CategoryID int64
	Err        error
}

func (e *CascadeError) Error() string {
	switch e.Phase {
	case PhaseDeleteProducts:
		return fmt.Sprintf("Error deleting products: %s", e.Err.Error())
	case PhaseDeleteCategory:
		return fmt.Sprintf("Error deleting category: %s", e.Err.Error())
	default:
		return fmt.Sprintf("Error fetching category: %s", e.Err.Error())
	}
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}
