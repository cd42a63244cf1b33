package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"foodmarket/internal/auth"
	"foodmarket/internal/domain"
	"foodmarket/internal/repository"
)

var ErrVendorNotFound = errors.New("vendor not found")

// topRestaurantsLimit размер подборки лучших ресторанов
const topRestaurantsLimit = 10

// CreateVendorInput данные регистрации ресторана администратором
type CreateVendorInput struct {
	Name      string   `json:"name" validate:"required,max=64"`
	OwnerName string   `json:"ownerName" validate:"required,max=64"`
	FoodType  []string `json:"foodType" validate:"required,min=1,dive,required"`
	Pincode   string   `json:"pincode" validate:"required,numeric,min=4,max=10"`
	Address   string   `json:"address" validate:"required,max=128"`
	Phone     string   `json:"phone" validate:"required,min=7,max=12,numeric"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6,max=12"`
}

// VendorProfileInput пустые поля оставляют прежние значения
type VendorProfileInput struct {
	Name     string   `json:"name" validate:"omitempty,max=64"`
	Address  string   `json:"address" validate:"omitempty,max=128"`
	Phone    string   `json:"phone" validate:"omitempty,min=7,max=12,numeric"`
	FoodType []string `json:"foodType" validate:"omitempty,dive,required"`
}

// Restaurant ресторан вместе с его меню
type Restaurant struct {
	Vendor domain.Vendor     `json:"vendor"`
	Foods  []domain.FoodItem `json:"foods"`
}

// VendorService учётные записи ресторанов и витрина ресторанов
type VendorService struct {
	repo     repository.VendorRepository
	foods    repository.FoodRepository
	issuer   *auth.Issuer
	validate *validator.Validate
}

func NewVendorService(repo repository.VendorRepository, foods repository.FoodRepository, issuer *auth.Issuer) *VendorService {
	return &VendorService{repo: repo, foods: foods, issuer: issuer, validate: validator.New()}
}

// CreateVendor регистрирует ресторан. Новый ресторан не принимает заказы, пока не включит сервис.
func (s *VendorService) CreateVendor(ctx context.Context, in CreateVendorInput) (*domain.Vendor, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	v := domain.Vendor{
		Name:         in.Name,
		OwnerName:    in.OwnerName,
		FoodType:     in.FoodType,
		Pincode:      in.Pincode,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		CoverImages:  []string{},
		Foods:        []string{},
	}
	if err := s.repo.CreateVendor(ctx, &v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &v, nil
}

func (s *VendorService) List(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.ListVendors(ctx, repository.VendorFilter{})
}

func (s *VendorService) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	v, err := s.repo.GetVendor(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVendorNotFound
	}
	return v, err
}

func (s *VendorService) Login(ctx context.Context, email, password string) (string, error) {
	v, err := s.repo.GetVendorByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(v.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.issuer.Issue(v.ID, auth.RoleVendor)
}

func (s *VendorService) UpdateProfile(ctx context.Context, vendorID string, in VendorProfileInput) (*domain.Vendor, error) {
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	v, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	p := repository.VendorProfile{Name: v.Name, Address: v.Address, Phone: v.Phone, FoodType: v.FoodType}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Address != "" {
		p.Address = in.Address
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if len(in.FoodType) > 0 {
		p.FoodType = in.FoodType
	}
	if err := s.repo.UpdateVendorProfile(ctx, vendorID, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return s.Get(ctx, vendorID)
}

// ToggleService переключает приём заказов и возвращает обновлённый профиль
func (s *VendorService) ToggleService(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	v, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetServiceAvailable(ctx, vendorID, !v.ServiceAvailable); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	v.ServiceAvailable = !v.ServiceAvailable
	return v, nil
}

// Foods меню ресторана
func (s *VendorService) Foods(ctx context.Context, vendorID string) ([]domain.FoodItem, error) {
	if _, err := s.Get(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.foods.ListFoods(ctx, repository.FoodFilter{VendorID: vendorID})
}

// TopRestaurants работающие рестораны района по убыванию рейтинга
func (s *VendorService) TopRestaurants(ctx context.Context, pincode string) ([]domain.Vendor, error) {
	if strings.TrimSpace(pincode) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListVendors(ctx, repository.VendorFilter{
		Pincode:       pincode,
		AvailableOnly: true,
		Limit:         topRestaurantsLimit,
	})
}

func (s *VendorService) Restaurant(ctx context.Context, id string) (*Restaurant, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	foods, err := s.foods.ListFoods(ctx, repository.FoodFilter{VendorID: id})
	if err != nil {
		return nil, err
	}
	return &Restaurant{Vendor: *v, Foods: foods}, nil
}
