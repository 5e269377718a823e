package user

import (
	"context"
	"testing"

	"modmaster-backend/domain"
	"modmaster-backend/entities"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	byID    map[string]*entities.User
	byEmail map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    map[string]*entities.User{},
		byEmail: map[string]*entities.User{},
	}
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	f.byID[user.ID.String()] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return f.CreateUser(ctx, user)
}

func (f *fakeUserRepository) UpdateSubscription(ctx context.Context, userID string, tier string) error {
	user, ok := f.byID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Subscription = tier
	return nil
}

type fakeJWTService struct{}

func (f *fakeJWTService) GenerateTokenUser(userId string, role string) string {
	return "token-" + userId
}

func (f *fakeJWTService) ValidateTokenUser(token string) (*jwt.Token, error) { return nil, nil }

func (f *fakeJWTService) GetUserIDByToken(token string) (string, string, error) { return "", "", nil }

func TestRegisterHashesPasswordAndDefaultsTier(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, &fakeJWTService{})

	resp, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Dina",
		Email:    "dina@test.dev",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SubscriptionBasic, resp.Subscription)

	stored := repo.byEmail["dina@test.dev"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "supersecret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, &fakeJWTService{})

	_, err := service.Register(context.Background(), domain.RegisterRequest{
		Name: "Dina", Email: "dina@test.dev", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), domain.RegisterRequest{
		Name: "Other", Email: "dina@test.dev", Password: "differentpass",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, &fakeJWTService{})

	hashed, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	userID := uuid.New()
	require.NoError(t, repo.CreateUser(context.Background(), &entities.User{
		ID:       userID,
		Email:    "dina@test.dev",
		Password: string(hashed),
		Role:     domain.RoleUser,
	}))

	resp, err := service.Login(context.Background(), domain.LoginRequest{
		Email: "dina@test.dev", Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-"+userID.String(), resp.Token)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "dina@test.dev", Password: "wrongpass",
	})
	assert.ErrorIs(t, err, domain.ErrWrongCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email: "nobody@test.dev", Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrWrongCredentials)
}

func TestUpdatePreferences(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, &fakeJWTService{})

	userID := uuid.New()
	require.NoError(t, repo.CreateUser(context.Background(), &entities.User{
		ID: userID, Email: "dina@test.dev",
	}))

	err := service.UpdatePreferences(context.Background(), domain.UpdatePreferencesRequest{
		PreferredCategories: []string{"suspension", "brakes"},
		BudgetMin:           100,
		BudgetMax:           2000,
	}, userID.String())
	require.NoError(t, err)

	profile, err := service.GetProfile(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"suspension", "brakes"}, profile.PreferredCategories)
	assert.Equal(t, 2000.0, profile.BudgetMax)
}
