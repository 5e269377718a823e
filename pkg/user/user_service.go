package user

import (
	"context"
	"errors"

	"modmaster-backend/domain"
	"modmaster-backend/entities"
	"modmaster-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error)
		UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest, userID string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         domain.RoleUser,
		Subscription: entities.SubscriptionBasic,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Subscription: user.Subscription,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrWrongCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrWrongCredentials
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}

	return domain.ProfileResponse{
		ID:                  user.ID.String(),
		Name:                user.Name,
		Email:               user.Email,
		Subscription:        user.Subscription,
		PreferredCategories: user.PreferredCategories,
		BudgetMin:           user.BudgetMin,
		BudgetMax:           user.BudgetMax,
	}, nil
}

func (s *userService) UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest, userID string) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.PreferredCategories = entities.StringList(req.PreferredCategories)
	user.BudgetMin = req.BudgetMin
	user.BudgetMax = req.BudgetMax

	return s.userRepository.UpdateUser(ctx, user)
}
