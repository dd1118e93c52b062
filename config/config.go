package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/HansKurvers/scheidingsdesk-subscription-manager/utils"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration lue au démarrage. Elle est passée
// explicitement aux constructeurs, aucun package ne lit l'environnement lui-même.
type Config struct {
	Port string

	// Payment provider
	PaymentAPIKey       string
	PaymentBaseURL      string
	RecurringAmount     string
	RecurringWebhookURL string
	CheckoutRedirectURL string

	// CRM record store
	CRMTokenURL      string
	CRMClientID      string
	CRMClientSecret  string
	CRMScope         string
	CRMBaseURL       string
	CRMCollection    string
	CRMCustomerField string
	CRMEmailField    string
	CRMStatusField   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, reading configuration from the system environment")
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		PaymentAPIKey:       os.Getenv("PAYMENT_API_KEY"),
		PaymentBaseURL:      os.Getenv("PAYMENT_API_BASE_URL"),
		RecurringAmount:     getEnv("RECURRING_AMOUNT", "25.00"),
		RecurringWebhookURL: os.Getenv("RECURRING_WEBHOOK_URL"),
		CheckoutRedirectURL: os.Getenv("CHECKOUT_REDIRECT_URL"),
		CRMTokenURL:         os.Getenv("CRM_TOKEN_URL"),
		CRMClientID:         os.Getenv("CRM_CLIENT_ID"),
		CRMClientSecret:     os.Getenv("CRM_CLIENT_SECRET"),
		CRMScope:            os.Getenv("CRM_SCOPE"),
		CRMBaseURL:          os.Getenv("CRM_BASE_URL"),
		CRMCollection:       os.Getenv("CRM_COLLECTION"),
		CRMCustomerField:    getEnv("CRM_CUSTOMER_FIELD", "customerid"),
		CRMEmailField:       getEnv("CRM_EMAIL_FIELD", "email"),
		CRMStatusField:      getEnv("CRM_STATUS_FIELD", "subscriptionactive"),
	}

	required := []struct {
		name  string
		value string
	}{
		{"PAYMENT_API_KEY", cfg.PaymentAPIKey},
		{"RECURRING_WEBHOOK_URL", cfg.RecurringWebhookURL},
		{"CHECKOUT_REDIRECT_URL", cfg.CheckoutRedirectURL},
		{"CRM_TOKEN_URL", cfg.CRMTokenURL},
		{"CRM_CLIENT_ID", cfg.CRMClientID},
		{"CRM_CLIENT_SECRET", cfg.CRMClientSecret},
		{"CRM_BASE_URL", cfg.CRMBaseURL},
		{"CRM_COLLECTION", cfg.CRMCollection},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
