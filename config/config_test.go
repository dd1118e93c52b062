package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("PAYMENT_API_KEY", "test_key")
	t.Setenv("RECURRING_WEBHOOK_URL", "https://example.com/webhook")
	t.Setenv("CHECKOUT_REDIRECT_URL", "https://example.com/merci")
	t.Setenv("CRM_TOKEN_URL", "https://login.example.com/token")
	t.Setenv("CRM_CLIENT_ID", "client-id")
	t.Setenv("CRM_CLIENT_SECRET", "client-secret")
	t.Setenv("CRM_BASE_URL", "https://crm.example.com/api/data/v9.2")
	t.Setenv("CRM_COLLECTION", "contacts")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "test_key", cfg.PaymentAPIKey)
	assert.Equal(t, "contacts", cfg.CRMCollection)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "25.00", cfg.RecurringAmount)
	assert.Equal(t, "customerid", cfg.CRMCustomerField)
	assert.Equal(t, "email", cfg.CRMEmailField)
	assert.Equal(t, "subscriptionactive", cfg.CRMStatusField)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RECURRING_AMOUNT", "12.50")
	t.Setenv("CRM_STATUS_FIELD", "new_active")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "12.50", cfg.RecurringAmount)
	assert.Equal(t, "new_active", cfg.CRMStatusField)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_API_KEY", "")
	t.Setenv("CRM_CLIENT_SECRET", "")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_API_KEY")
	assert.Contains(t, err.Error(), "CRM_CLIENT_SECRET")
}
