package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/entities"
	"modmaster-backend/internal/utils"
	"modmaster-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		CreateUpgrade(ctx context.Context, req domain.UpgradeSubscriptionRequest, userID string) (domain.UpgradeSubscriptionResponse, error)
		HandleWebhook(ctx context.Context, orderID string, transactionStatus string, fraudStatus string) error
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		snapClient             snap.Client
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
) SubscriptionService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(utils.GetConfig("SERVER_KEY"), env)

	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		snapClient:             snapClient,
	}
}

func (s *subscriptionService) CreateUpgrade(ctx context.Context, req domain.UpgradeSubscriptionRequest, userID string) (domain.UpgradeSubscriptionResponse, error) {
	price, ok := domain.TierPrices[req.Tier]
	if !ok {
		return domain.UpgradeSubscriptionResponse{}, domain.ErrInvalidTier
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UpgradeSubscriptionResponse{}, domain.ErrParseUUID
	}

	orderID := fmt.Sprintf("sub-%s-%d", req.Tier, time.Now().UnixNano())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: price,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.Tier,
				Name:  fmt.Sprintf("ModMaster %s subscription", req.Tier),
				Price: price,
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.UpgradeSubscriptionResponse{}, domain.ErrPaymentFailed
	}

	tx := &entities.SubscriptionTransaction{
		ID:         uuid.New(),
		UserID:     userUUID,
		OrderID:    orderID,
		Tier:       req.Tier,
		Amount:     price,
		Status:     "Pending",
		InvoiceURL: snapResp.RedirectURL,
	}
	if err := s.subscriptionRepository.CreateTransaction(ctx, tx); err != nil {
		return domain.UpgradeSubscriptionResponse{}, err
	}

	return domain.UpgradeSubscriptionResponse{
		OrderID:    orderID,
		Tier:       req.Tier,
		InvoiceURL: snapResp.RedirectURL,
	}, nil
}

func (s *subscriptionService) HandleWebhook(ctx context.Context, orderID string, transactionStatus string, fraudStatus string) error {
	tx, err := s.subscriptionRepository.GetTransactionByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	switch transactionStatus {
	case "capture":
		if fraudStatus != "accept" {
			return nil
		}
		fallthrough
	case "settlement":
		if tx.Status == "Settled" {
			return nil
		}
		now := time.Now()
		tx.Status = "Settled"
		tx.SettledAt = &now
		if err := s.subscriptionRepository.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		return s.userRepository.UpdateSubscription(ctx, tx.UserID.String(), tx.Tier)
	case "deny", "cancel", "expire":
		tx.Status = "Failed"
		return s.subscriptionRepository.UpdateTransaction(ctx, tx)
	}

	return nil
}
