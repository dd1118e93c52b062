package subscriptions

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/HansKurvers/scheidingsdesk-subscription-manager/config"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/crm"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/payment"
	"github.com/HansKurvers/scheidingsdesk-subscription-manager/utils"

	"github.com/gin-gonic/gin"
)

const (
	currency = "EUR"

	// The recurring schedule starts 30 days after the confirmed first payment.
	startOffsetDays = 30
	recurringTimes  = 12
	interval        = "1 day"
)

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// PaymentProvider is the slice of the provider API the orchestrator needs.
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, name, email string) (*payment.Customer, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	CreatePayment(ctx context.Context, p payment.CreatePayment) (*payment.Payment, error)
	CreateSubscription(ctx context.Context, customerID string, s payment.CreateSubscription) (*payment.Subscription, error)
}

// RecordStore is the CRM write-back contract.
type RecordStore interface {
	UpsertContact(ctx context.Context, customerID, email string) error
	UpsertActivation(ctx context.Context, customerID string, active bool) error
}

type Handler struct {
	cfg      *config.Config
	provider PaymentProvider
	store    RecordStore
}

func New(cfg *config.Config, provider PaymentProvider, store RecordStore) *Handler {
	return &Handler{
		cfg:      cfg,
		provider: provider,
		store:    store,
	}
}

// SubscriberInput modèle pour démarrer un abonnement
// @Description modèle pour créer un customer et le premier paiement
type SubscriberInput struct {
	Email  string `json:"email" binding:"required,email" example:"jean.dupont@exemple.com"`
	Name   string `json:"name" example:"Jean Dupont"`
	Amount string `json:"amount" example:"25.00"`
}

// CreateSubscriber creates a provider customer, mirrors it into the CRM
// (best effort) and creates the first payment of the recurring sequence.
// @Summary Start a subscription
// @Description Create a payment-provider customer and the first payment, returns the checkout URL
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriber body SubscriberInput true "Subscriber information"
// @Success 200 {object} map[string]interface{} "success, customerId, paymentId, checkoutUrl"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 500 {object} map[string]interface{} "error: provider or server error"
// @Router /subscription/creator [post]
func (h *Handler) CreateSubscriber(c *gin.Context) {
	var input SubscriberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateEmail(input.Email) {
		utils.SendError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	amount := h.cfg.RecurringAmount
	if input.Amount != "" {
		if !amountPattern.MatchString(input.Amount) {
			utils.SendError(c, http.StatusBadRequest, "Invalid amount format, expected a decimal string like 25.00")
			return
		}
		amount = input.Amount
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = input.Email[:strings.Index(input.Email, "@")]
	}

	ctx := c.Request.Context()

	customer, err := h.provider.CreateCustomer(ctx, name, input.Email)
	if err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "Customer creation failed in CreateSubscriber")
		h.respondUpstreamError(c, err)
		return
	}

	// Best effort: a CRM outage must not block the payment flow.
	if err := h.store.UpsertContact(ctx, customer.ID, customer.Email); err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "CRM contact upsert failed in CreateSubscriber, continuing")
	}

	pay, err := h.provider.CreatePayment(ctx, payment.CreatePayment{
		Amount:       payment.Amount{Currency: currency, Value: amount},
		Description:  "First subscription payment",
		RedirectURL:  h.cfg.CheckoutRedirectURL,
		WebhookURL:   h.cfg.RecurringWebhookURL,
		CustomerID:   customer.ID,
		SequenceType: payment.SequenceFirst,
	})
	if err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "First payment creation failed in CreateSubscriber")
		h.respondUpstreamError(c, err)
		return
	}

	utils.LogSuccess("Subscriber created in CreateSubscriber")
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"customerId":  customer.ID,
		"paymentId":   pay.ID,
		"checkoutUrl": pay.CheckoutURL(),
	})
}

// PaymentWebhook handles the provider's payment-state callback. The payment
// is looked up by id and never trusted from the request body; only a "paid"
// payment starts the recurring subscription.
// @Summary Payment webhook
// @Description Provider callback with form-encoded id=<paymentId>; verifies the payment and activates the subscription
// @Tags subscriptions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Payment id"
// @Success 200 {object} map[string]interface{} "success: activation flag, or received: true for non-final payments"
// @Failure 400 {object} map[string]interface{} "error: Missing payment id"
// @Failure 500 {object} map[string]interface{} "error: provider or record store error"
// @Router /subscription/recurring/payments/webhook [post]
func (h *Handler) PaymentWebhook(c *gin.Context) {
	paymentID := c.PostForm("id")
	if strings.TrimSpace(paymentID) == "" {
		utils.SendError(c, http.StatusBadRequest, "Missing payment id")
		return
	}

	ctx := c.Request.Context()

	pay, err := h.provider.GetPayment(ctx, paymentID)
	if err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "Payment lookup failed in PaymentWebhook")
		h.respondUpstreamError(c, err)
		return
	}

	// Non-final states are acknowledged without activating; the provider
	// posts the webhook again on the next transition.
	if pay.Status != payment.PaymentPaid {
		utils.LogInfo("Payment not paid, acknowledged without activation in PaymentWebhook")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	startDate := time.Now().AddDate(0, 0, startOffsetDays).Format("2006-01-02")

	sub, err := h.provider.CreateSubscription(ctx, pay.CustomerID, payment.CreateSubscription{
		Amount:      payment.Amount{Currency: currency, Value: h.cfg.RecurringAmount},
		Times:       recurringTimes,
		Interval:    interval,
		StartDate:   startDate,
		Description: "Recurring subscription",
		WebhookURL:  h.cfg.RecurringWebhookURL,
	})
	if err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "Subscription creation failed in PaymentWebhook")
		h.respondUpstreamError(c, err)
		return
	}

	active := sub.Status == payment.SubscriptionActive

	if err := h.store.UpsertActivation(ctx, pay.CustomerID, active); err != nil {
		utils.LogErrorWithRequest(requestID(c), err, "CRM activation upsert failed in PaymentWebhook")
		h.respondUpstreamError(c, err)
		return
	}

	utils.LogSuccess("Subscription processed in PaymentWebhook")
	c.JSON(http.StatusOK, gin.H{"success": active})
}

func requestID(c *gin.Context) interface{} {
	id, _ := c.Get("request_id")
	return id
}

// respondUpstreamError mirrors the failing call's HTTP status when it carried
// one, 500 otherwise.
func (h *Handler) respondUpstreamError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var payErr *payment.APIError
	var crmErr *crm.APIError
	switch {
	case errors.As(err, &payErr) && payErr.Status > 0:
		status = payErr.Status
	case errors.As(err, &crmErr) && crmErr.Status > 0:
		status = crmErr.Status
	}

	utils.SendError(c, status, err.Error())
}
