package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/zvrva/staybooking/internal/domain"
	"github.com/zvrva/staybooking/internal/repository"
)

type UserUseCase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidArgument)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrInvalidArgument)
	}

	user := &domain.User{Username: username, Email: email}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

var _ UserUseCase = (*UserService)(nil)
