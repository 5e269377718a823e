package domain

import "errors"

var (
	MessageSuccessCreateUpgrade = "subscription upgrade created successfully"
	MessageSuccessWebhook       = "webhook processed"

	MessageFailedCreateUpgrade = "failed to create subscription upgrade"
	MessageFailedWebhook       = "failed to process webhook"

	ErrInvalidTier   = errors.New("invalid subscription tier")
	ErrPaymentFailed = errors.New("payment processing failed")
)

// Upgrade prices in IDR, keyed by target tier.
var TierPrices = map[string]int64{
	"premium": 99000,
	"shop":    299000,
}

type (
	UpgradeSubscriptionRequest struct {
		Tier  string `json:"tier" validate:"required,oneof=premium shop"`
		Email string `json:"email" validate:"required,email"`
	}

	UpgradeSubscriptionResponse struct {
		OrderID    string `json:"order_id"`
		Tier       string `json:"tier"`
		InvoiceURL string `json:"invoice_url"`
	}
)
