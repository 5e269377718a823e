package subscription

import (
	"context"
	"testing"

	"modmaster-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSubscriptionRepository struct {
	byOrderID map[string]*entities.SubscriptionTransaction
	updated   []*entities.SubscriptionTransaction
}

func (f *fakeSubscriptionRepository) CreateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error {
	f.byOrderID[tx.OrderID] = tx
	return nil
}

func (f *fakeSubscriptionRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.SubscriptionTransaction, error) {
	tx, ok := f.byOrderID[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tx, nil
}

func (f *fakeSubscriptionRepository) UpdateTransaction(ctx context.Context, tx *entities.SubscriptionTransaction) error {
	f.updated = append(f.updated, tx)
	f.byOrderID[tx.OrderID] = tx
	return nil
}

type fakeUserRepository struct {
	subscriptions map[string]string
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *entities.User) error { return nil }

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *entities.User) error { return nil }

func (f *fakeUserRepository) UpdateSubscription(ctx context.Context, userID string, tier string) error {
	f.subscriptions[userID] = tier
	return nil
}

func webhookFixture() (*fakeSubscriptionRepository, *fakeUserRepository, SubscriptionService, *entities.SubscriptionTransaction) {
	repo := &fakeSubscriptionRepository{byOrderID: map[string]*entities.SubscriptionTransaction{}}
	users := &fakeUserRepository{subscriptions: map[string]string{}}
	service := NewSubscriptionService(repo, users)

	tx := &entities.SubscriptionTransaction{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		OrderID: "sub-premium-1",
		Tier:    entities.SubscriptionPremium,
		Amount:  99000,
		Status:  "Pending",
	}
	repo.byOrderID[tx.OrderID] = tx
	return repo, users, service, tx
}

func TestHandleWebhookSettlementUpgradesUser(t *testing.T) {
	repo, users, service, tx := webhookFixture()

	err := service.HandleWebhook(context.Background(), tx.OrderID, "settlement", "")
	require.NoError(t, err)

	assert.Equal(t, "Settled", repo.byOrderID[tx.OrderID].Status)
	assert.NotNil(t, repo.byOrderID[tx.OrderID].SettledAt)
	assert.Equal(t, entities.SubscriptionPremium, users.subscriptions[tx.UserID.String()])
}

func TestHandleWebhookCaptureAcceptSettles(t *testing.T) {
	repo, _, service, tx := webhookFixture()

	err := service.HandleWebhook(context.Background(), tx.OrderID, "capture", "accept")
	require.NoError(t, err)

	assert.Equal(t, "Settled", repo.byOrderID[tx.OrderID].Status)
}

func TestHandleWebhookCaptureChallengeIgnored(t *testing.T) {
	repo, users, service, tx := webhookFixture()

	err := service.HandleWebhook(context.Background(), tx.OrderID, "capture", "challenge")
	require.NoError(t, err)

	assert.Equal(t, "Pending", repo.byOrderID[tx.OrderID].Status)
	assert.Empty(t, users.subscriptions)
}

func TestHandleWebhookSettlementIdempotent(t *testing.T) {
	repo, users, service, tx := webhookFixture()

	require.NoError(t, service.HandleWebhook(context.Background(), tx.OrderID, "settlement", ""))
	require.NoError(t, service.HandleWebhook(context.Background(), tx.OrderID, "settlement", ""))

	assert.Len(t, repo.updated, 1)
	assert.Len(t, users.subscriptions, 1)
}

func TestHandleWebhookDenyMarksFailed(t *testing.T) {
	repo, users, service, tx := webhookFixture()

	err := service.HandleWebhook(context.Background(), tx.OrderID, "deny", "")
	require.NoError(t, err)

	assert.Equal(t, "Failed", repo.byOrderID[tx.OrderID].Status)
	assert.Empty(t, users.subscriptions)
}

func TestHandleWebhookUnknownOrderIsNoOp(t *testing.T) {
	_, users, service, _ := webhookFixture()

	err := service.HandleWebhook(context.Background(), "sub-unknown-9", "settlement", "")
	require.NoError(t, err)
	assert.Empty(t, users.subscriptions)
}
