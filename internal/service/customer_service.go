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

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SignUpInput данные регистрации покупателя
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=12,numeric"`
	Password string `json:"password" validate:"required,min=6,max=12"`
}

// ProfileInput редактируемые поля профиля
type ProfileInput struct {
	FirstName string `json:"firstName" validate:"min=3,max=16"`
	LastName  string `json:"lastName" validate:"min=3,max=16"`
	Address   string `json:"address" validate:"min=6,max=16"`
}

// CustomerService регистрация, вход и профиль покупателя
type CustomerService struct {
	repo     repository.CustomerRepository
	issuer   *auth.Issuer
	validate *validator.Validate
}

func NewCustomerService(repo repository.CustomerRepository, issuer *auth.Issuer) *CustomerService {
	return &CustomerService{repo: repo, issuer: issuer, validate: validator.New()}
}

// SignUp создаёт покупателя и сразу выдаёт токен
func (s *CustomerService) SignUp(ctx context.Context, in SignUpInput) (*domain.Customer, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(s.validate, in); err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	c := domain.Customer{
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Verified:     false,
		Orders:       []string{},
	}
	if err := s.repo.CreateCustomer(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	token, err := s.issuer.Issue(c.ID, auth.RoleCustomer)
	if err != nil {
		return nil, "", err
	}
	return &c, token, nil
}

func (s *CustomerService) Login(ctx context.Context, email, password string) (string, error) {
	c, err := s.repo.GetCustomerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(c.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.issuer.Issue(c.ID, auth.RoleCustomer)
}

func (s *CustomerService) Profile(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	c, err := s.repo.GetCustomer(ctx, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (s *CustomerService) UpdateProfile(ctx context.Context, customerID string, in ProfileInput) (*domain.Customer, error) {
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	err := s.repo.UpdateCustomerProfile(ctx, customerID, in.FirstName, in.LastName, in.Address)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, customerID)
}
