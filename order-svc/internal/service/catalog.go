package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/google/uuid"
)

type CatalogService struct {
	repo  ItemRepository
	cache ItemCache
	log   *slog.Logger
	now   func() time.Time
}

// NewCatalogService wires the item store with an optional read-through cache.
func NewCatalogService(repo ItemRepository, cache ItemCache, log *slog.Logger) *CatalogService {
	if log == nil {
		log = logger.Discard()
	}
	return &CatalogService{repo: repo, cache: cache, log: log, now: time.Now}
}

func (s *CatalogService) Lookup(ctx context.Context, code int) (*domain.Item, error) {
	if s.cache != nil {
		item, ok, err := s.cache.GetByCode(ctx, code)
		if err != nil {
			s.log.Warn("catalog cache read failed", "action", "cache_read", "item_no", code, "error", err)
		} else if ok {
			return item, nil
		}
	}

	item, err := s.repo.GetItemByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetByCode(ctx, *item); err != nil {
			s.log.Warn("catalog cache write failed", "action", "cache_write", "item_no", code, "error", err)
		}
	}
	return item, nil
}

func (s *CatalogService) IsOrderable(item *domain.Item) bool {
	return item != nil && item.Active
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, item *domain.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if item.Active {
		if err := s.ensureCodeFree(ctx, item.Code, ""); err != nil {
			return err
		}
	}

	now := s.now()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, item.Code)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, item *domain.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	existing, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if item.Active {
		if err := s.ensureCodeFree(ctx, item.Code, item.ID); err != nil {
			return err
		}
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = s.now()
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Code)
	if existing.Code != item.Code {
		s.invalidate(ctx, item.Code)
	}
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Code)
	return nil
}

func (s *CatalogService) ensureCodeFree(ctx context.Context, code int, selfID string) error {
	holder, err := s.repo.GetItemByCode(ctx, code)
	if errors.Is(err, domain.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder.Active && holder.ID != selfID {
		return domain.ErrDuplicateCode
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, code int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, code); err != nil {
		s.log.Warn("catalog cache invalidation failed", "action", "cache_invalidate", "item_no", code, "error", err)
	}
}

func validateItem(item *domain.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	switch {
	case item.Name == "":
		return domain.Invalid("name is required")
	case item.Code <= 0:
		return domain.Invalid("item_no must be positive")
	case item.Price.IsNegative():
		return domain.Invalid("price must not be negative")
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}
	return nil
}
