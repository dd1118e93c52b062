package routes

import (
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/handlers/subscriptions"

	"github.com/gin-gonic/gin"
)

func SubscriptionRoutes(r *gin.Engine, h *subscriptions.Handler) {
	subscriptionRoutes := r.Group("/subscription")
	{
		subscriptionRoutes.POST("/creator", h.CreateSubscriber)
		subscriptionRoutes.POST("/recurring/payments/webhook", h.PaymentWebhook)
	}
}
