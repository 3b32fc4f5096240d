package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/DiwanMalla/brainix-checkout/internal/app"
	"github.com/DiwanMalla/brainix-checkout/internal/domain"
	"github.com/DiwanMalla/brainix-checkout/internal/metrics"
)

const signatureHeader = "Stripe-Signature"

// Stripe events are small; anything larger is not a legitimate delivery.
const maxWebhookBody = 1 << 16

// PaymentFinalizer is the minimal interface the webhook needs to finalize
// a successful payment.
type PaymentFinalizer interface {
	FinalizePayment(ctx context.Context, in app.FinalizeInput) (app.FinalizeResult, error)
}

// HandleStripeWebhook returns the handler for Stripe webhook deliveries.
// Signature verification runs over the raw body bytes before any parsing.
func HandleStripeWebhook(svc PaymentFinalizer, secret string, logger *log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if secret == "" {
			logger.Printf("ERROR: webhook secret not configured")
			writeError(w, http.StatusInternalServerError, codeConfigMissing, "webhook secret not configured")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "failed to read request body")
			return
		}

		metrics.WebhookEventsTotal.Inc()

		event, err := webhook.ConstructEvent(body, r.Header.Get(signatureHeader), secret)
		if err != nil {
			metrics.SignatureFailuresTotal.Inc()
			logger.Printf("webhook signature verification failed: %v", err)
			writeError(w, http.StatusBadRequest, codeInvalidSignature, "signature verification failed")
			return
		}

		if event.Type != stripe.EventTypePaymentIntentSucceeded {
			writeReceived(w)
			return
		}

		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			logger.Printf("webhook %s: malformed payment intent payload: %v", event.ID, err)
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "malformed payment intent payload")
			return
		}

		start := time.Now()
		res, err := svc.FinalizePayment(r.Context(), app.FinalizeInput{
			PaymentIntentID: intent.ID,
			AmountReceived:  intent.AmountReceived,
			Metadata:        intent.Metadata,
		})
		metrics.FinalizeDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingMetadata):
				logger.Printf("payment %s rejected: %v", intent.ID, err)
				writeError(w, http.StatusBadRequest, codeMissingMetadata, err.Error())
			case errors.Is(err, domain.ErrEmptyCart):
				logger.Printf("payment %s rejected: %v", intent.ID, err)
				writeError(w, http.StatusBadRequest, codeEmptyCart, err.Error())
			case errors.Is(err, domain.ErrAmountMismatch):
				metrics.AmountMismatchesTotal.Inc()
				logger.Printf("payment %s rejected: %v", intent.ID, err)
				writeError(w, http.StatusBadRequest, codeAmountMismatch, err.Error())
			default:
				logger.Printf("finalize payment %s: %v", intent.ID, err)
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		if res.Created {
			metrics.OrdersFinalizedTotal.Inc()
			logger.Printf("order %s finalized for payment %s", res.Order.OrderNumber, intent.ID)
		} else {
			metrics.ReplaysTotal.Inc()
			logger.Printf("payment %s already processed as order %s", intent.ID, res.Order.OrderNumber)
		}
		writeReceived(w)
	}
}

func writeReceived(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"received":true}`))
}
