package service

import (
	"context"
	"errors"
	"strings"

	"foodmarket/internal/domain"
	"foodmarket/internal/repository"
)

// CatalogService инкапсулирует работу с каталогом блюд
type CatalogService struct {
	repo    repository.FoodRepository
	vendors repository.VendorRepository
	tx      repository.TxManager
}

func NewCatalogService(repo repository.FoodRepository, vendors repository.VendorRepository, tx repository.TxManager) *CatalogService {
	return &CatalogService{repo: repo, vendors: vendors, tx: tx}
}

var ErrInvalidInput = errors.New("invalid input")

// AddFood публикует блюдо от имени вендора и добавляет его в меню вендора.
// Блюдо и ссылка на него появляются вместе или не появляются вовсе.
func (s *CatalogService) AddFood(ctx context.Context, vendorID string, f domain.FoodItem) (*domain.FoodItem, error) {
	if vendorID == "" || strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Description) == "" {
		return nil, ErrInvalidInput
	}
	if f.Price.IsNegative() || f.ReadyTime < 0 || len(f.FoodType) == 0 {
		return nil, ErrInvalidInput
	}
	cp := f
	cp.ID = ""
	cp.VendorID = vendorID
	cp.Rating = 0
	if cp.Images == nil {
		cp.Images = []string{}
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.vendors.GetVendor(ctx, vendorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVendorNotFound
			}
			return err
		}
		if err := s.repo.CreateFood(ctx, &cp); err != nil {
			return err
		}
		if err := s.vendors.AppendFood(ctx, vendorID, cp.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVendorNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *CatalogService) GetFood(ctx context.Context, id string) (*domain.FoodItem, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetFood(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, f repository.FoodFilter) ([]domain.FoodItem, error) {
	if f.MaxReadyTime != nil && *f.MaxReadyTime < 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListFoods(ctx, f)
}

// Resolve возвращает актуальные записи каталога для известных id.
// Неизвестные id просто отсутствуют в результате, это не ошибка.
func (s *CatalogService) Resolve(ctx context.Context, ids []string) (map[string]domain.FoodItem, error) {
	distinct := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	out := make(map[string]domain.FoodItem, len(distinct))
	if len(distinct) == 0 {
		return out, nil
	}
	foods, err := s.repo.FindFoods(ctx, distinct)
	if err != nil {
		return nil, err
	}
	for _, f := range foods {
		out[f.ID] = f
	}
	return out, nil
}
