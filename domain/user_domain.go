package domain

import "errors"

var (
	MessageSuccessRegister          = "user registered successfully"
	MessageSuccessLogin             = "login successful"
	MessageSuccessGetProfile        = "profile retrieved successfully"
	MessageSuccessUpdatePreferences = "preferences updated successfully"

	MessageFailedRegister          = "failed to register user"
	MessageFailedLogin             = "failed to login"
	MessageFailedGetProfile        = "failed to retrieve profile"
	MessageFailedUpdatePreferences = "failed to update preferences"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrWrongCredentials   = errors.New("wrong email or password")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		Subscription string `json:"subscription"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	ProfileResponse struct {
		ID                  string   `json:"id"`
		Name                string   `json:"name"`
		Email               string   `json:"email"`
		Subscription        string   `json:"subscription"`
		PreferredCategories []string `json:"preferred_categories"`
		BudgetMin           float64  `json:"budget_min"`
		BudgetMax           float64  `json:"budget_max"`
	}

	UpdatePreferencesRequest struct {
		PreferredCategories []string `json:"preferred_categories" validate:"omitempty,dive,required"`
		BudgetMin           float64  `json:"budget_min" validate:"gte=0"`
		BudgetMax           float64  `json:"budget_max" validate:"gte=0"`
	}
)
