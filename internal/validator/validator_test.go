package validator_test

import (
	"encoding/json"
	"testing"

	"kandu_backend/internal/services/dto"
	"kandu_backend/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobRequest struct {
	Title     string  `json:"title" validate:"required,min=3"`
	Price     float64 `json:"price" validate:"gt=0"`
	PriceType string  `json:"price_type" validate:"required,is-price-type"`
	Urgency   string  `json:"urgency" validate:"omitempty,is-urgency"`
}

type onboardingRequest struct {
	UserType string `json:"user_type" validate:"required,is-onboarding-type"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	v := validator.New()

	err := v.Validate(&jobRequest{Title: "x", Price: 0, PriceType: "weekly", Urgency: "asap"})
	require.Error(t, err)

	vErr, ok := err.(*validator.ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "title")
	assert.Contains(t, vErr.Errors, "price")
	assert.Contains(t, vErr.Errors, "price_type")
	assert.Contains(t, vErr.Errors, "urgency")
}

func TestValidate_Passes(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Validate(&jobRequest{Title: "Tile a bathroom", Price: 500, PriceType: "fixed", Urgency: "high"}))
}

func TestValidate_OnboardingRejectsAdmin(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Validate(&onboardingRequest{UserType: "worker"}))
	assert.NoError(t, v.Validate(&onboardingRequest{UserType: "employer"}))
	assert.Error(t, v.Validate(&onboardingRequest{UserType: "admin"}))
	assert.Error(t, v.Validate(&onboardingRequest{UserType: ""}))
}

func TestValidate_CreateJobWithoutPrice(t *testing.T) {
	v := validator.New()

	var req dto.CreateJobRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Fix roof","category":"roofing","price_type":"fixed"}`), &req))

	err := v.Validate(&req)
	require.Error(t, err)
	vErr, ok := err.(*validator.ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "price")

	require.NoError(t, json.Unmarshal([]byte(`{"title":"Fix roof","category":"roofing","price":0,"price_type":"fixed"}`), &req))
	assert.NoError(t, v.Validate(&req))
}
