package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Echtwork/echtwork-website/metrics"
	"github.com/Echtwork/echtwork-website/models"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

var ErrSignatureVerification = errors.New("webhook signature verification failed")

// WebhookService verifies provider notifications and routes completed
// checkouts to mail fulfillment.
type WebhookService struct {
	Secret     string
	Store      SubmissionStore
	Notifier   *Notifier
	AdminEmail string
	PlansDir   string
	Log        *slog.Logger
}

// HandleEvent verifies and routes one provider notification. Redelivered
// events are processed again in full: there is no dedup, so a provider
// retry after a successful ack sends duplicate mails.
func (s *WebhookService) HandleEvent(payload []byte, sigHeader string) error {
	// Events carry the API version pinned on the Stripe account, which is
	// usually not the SDK's pinned version.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		metrics.WebhookSignatureFailures.Inc()
		return fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}
	metrics.WebhookEvents.Inc()

	// Only completed checkouts trigger fulfillment; every other verified
	// event type is acknowledged without side effects.
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		s.Log.Debug("ignoring event", slog.String("type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.Log.Error("failed to decode checkout session from event",
			slog.String("event_id", event.ID),
			slog.Any("error", err),
		)
		return nil
	}
	s.Log.Info("checkout completed", slog.String("session_id", sess.ID))

	product := models.Product(sess.Metadata[models.MetaProduct])
	switch product {
	case models.ProductStandardplan, models.ProductErnaehrungsplan:
		s.fulfillPlan(product, &sess)
	case models.ProductPremium:
		s.fulfillPremium(&sess)
	default:
		s.Log.Warn("completed session carries no known product tag",
			slog.String("session_id", sess.ID),
			slog.String("product", string(product)),
		)
	}
	return nil
}

// fulfillPlan mails the purchased PDF to the buyer. A missing buyer email is
// skipped, not treated as an error.
func (s *WebhookService) fulfillPlan(product models.Product, sess *stripe.CheckoutSession) {
	email := buyerEmail(sess)
	if email == "" {
		s.Log.Info("no buyer email on completed session, skipping plan delivery",
			slog.String("session_id", sess.ID),
			slog.String("product", string(product)),
		)
		return
	}

	subject := "Dein Trainingsplan – Echtwork"
	if product == models.ProductErnaehrungsplan {
		subject = "Dein Ernährungsplan – Echtwork"
	}

	s.Notifier.Dispatch(Mail{
		To:         email,
		Subject:    subject,
		Body:       "Vielen Dank für deinen Kauf! Im Anhang findest du deinen Plan als PDF.",
		Attachment: filepath.Join(s.PlansDir, string(product)+".pdf"),
	})
}

// fulfillPremium notifies the admin that a premium order was paid, including
// the stored submission when it can be found, and sends the buyer a plain
// confirmation. A missing submission file degrades to a placeholder body.
func (s *WebhookService) fulfillPremium(sess *stripe.CheckoutSession) {
	submissionID := sess.Metadata[models.MetaSubmissionID]
	email := buyerEmail(sess)

	details := "Keine Submission-Datei gefunden."
	if submissionID != "" {
		sub, err := s.Store.Get(submissionID)
		switch {
		case err == nil:
			data, _ := json.MarshalIndent(sub, "", "  ")
			details = string(data)
		case errors.Is(err, ErrSubmissionNotFound):
			s.Log.Warn("submission file missing for paid premium order",
				slog.String("submission_id", submissionID),
				slog.String("session_id", sess.ID),
			)
		default:
			s.Log.Error("failed to read submission",
				slog.String("submission_id", submissionID),
				slog.Any("error", err),
			)
		}
	}

	idLabel := submissionID
	if idLabel == "" {
		idLabel = "(keine ID)"
	}
	s.Notifier.Dispatch(Mail{
		To:      s.AdminEmail,
		Subject: fmt.Sprintf("Premium Bestellung bezahlt – Submission %s", idLabel),
		Body: fmt.Sprintf(
			"Eine Premium-Bestellung wurde bezahlt.\n\nSession ID: %s\nKunde: %s\nSubmission-ID: %s\n\nDaten:\n%s",
			sess.ID, email, idLabel, details,
		),
	})

	if email != "" {
		s.Notifier.Dispatch(Mail{
			To:      email,
			Subject: "Zahlung erhalten – Premium Anfrage",
			Body:    "Vielen Dank! Wir haben deine Zahlung erhalten. Wir bearbeiten nun deine Anfrage und melden uns innerhalb von 1–5 Werktagen per E-Mail.",
		})
	}
}

func buyerEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails == nil {
		return ""
	}
	return sess.CustomerDetails.Email
}
