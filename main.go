package main

import (
	"log"

	"github.com/HansKurvers/scheidingsdesk-subscription-manager/config"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/crm"
	_ "github.com/HansKurvers/scheidingsdesk-subscription-manager/docs"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/handlers/subscriptions"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/payment"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/routes"

	"github.com/gin-gonic/gin"
)

// @title Subscription Manager API
// @version 1.0
// @description Bridges the payment provider's recurring-payment API with the CRM record store
// @host localhost:8080
// @BasePath /
func main() {

	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration invalide: ", err)
	}

	provider := payment.NewClient(cfg.PaymentAPIKey, cfg.PaymentBaseURL)
	store := crm.NewClient(crm.Config{
		TokenURL:      cfg.CRMTokenURL,
		ClientID:      cfg.CRMClientID,
		ClientSecret:  cfg.CRMClientSecret,
		Scope:         cfg.CRMScope,
		BaseURL:       cfg.CRMBaseURL,
		Collection:    cfg.CRMCollection,
		CustomerField: cfg.CRMCustomerField,
		EmailField:    cfg.CRMEmailField,
		StatusField:   cfg.CRMStatusField,
	})

	subscriptionHandler := subscriptions.New(cfg, provider, store)

	r := routes.SetupRouter(subscriptionHandler)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Erreur lors du démarrage du serveur: ", err)
	}
}
