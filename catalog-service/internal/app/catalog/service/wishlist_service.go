package service

import (
	"context"
	"strings"

	"bazaar/catalog-service/internal/app/catalog/entity"
	"bazaar/catalog-service/internal/app/catalog/repository"
)

// WishlistService - список желаний пользователя; дубликаты допустимы
type WishlistService struct {
	entries repository.Table[entity.WishlistEntry]
	events  *EventPublisher
}

func NewWishlistService(entries repository.Table[entity.WishlistEntry], events *EventPublisher) *WishlistService {
	return &WishlistService{entries: entries, events: events}
}

func (s *WishlistService) AddEntry(ctx context.Context, input entity.AddWishlistInput) (*entity.WishlistEntry, error) {
	absent := missing(map[string]bool{
		"user_id":    strings.TrimSpace(input.UserID) == "",
		"product_id": input.ProductID == 0,
	})
	if len(absent) > 0 {
		return nil, &ValidationError{Fields: absent, Message: "User ID and Product ID are required"}
	}

	entry := &entity.WishlistEntry{
		UserID:    input.UserID,
		ProductID: input.ProductID,
	}
	if err := createRow(ctx, s.entries, entry, "Database insertion failed"); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entity.EventWishlistAdded, "wishlist", entry.ID)
	return entry, nil
}

// ListEntries возвращает записи пользователя; пустой список - не ошибка
func (s *WishlistService) ListEntries(ctx context.Context, userID string) ([]entity.WishlistEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Fields: []string{"user_id"}, Message: "User ID is required"}
	}

	return fetchWhere(ctx, s.entries, "Error fetching wishlist", repository.Eq("user_id", userID))
}
