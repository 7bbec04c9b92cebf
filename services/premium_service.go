package services

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrValidation = errors.New("missing required field")

// PremiumService handles the combined intake + checkout flow for premium
// orders: validate the form, persist the submission, notify the admin and
// start the provider checkout.
type PremiumService struct {
	Store      SubmissionStore
	Payment    *PaymentService
	Notifier   *Notifier
	AdminEmail string
	Log        *slog.Logger
}

type PremiumRequest struct {
	Name       string
	Email      string
	Ziele      string
	Gesundheit string
	Wuensche   string
}

// CreatePremiumCheckout returns the provider session reference for a valid
// intake form. The submission is written before the provider call; if that
// call fails the record stays behind without a payment and is not cleaned
// up.
func (s *PremiumService) CreatePremiumCheckout(req PremiumRequest) (string, error) {
	if req.Name == "" || req.Email == "" || req.Ziele == "" {
		return "", fmt.Errorf("%w: name, email and ziele are required", ErrValidation)
	}

	sub := NewSubmission(req.Name, req.Email, req.Ziele, req.Gesundheit, req.Wuensche)
	if err := s.Store.Save(sub); err != nil {
		return "", fmt.Errorf("save submission: %w", err)
	}
	s.Log.Info("premium submission stored", slog.String("submission_id", sub.ID))

	s.Notifier.Dispatch(Mail{
		To:      s.AdminEmail,
		Subject: fmt.Sprintf("Neue Premium-Anfrage (Zahlung ausstehend) – %s", sub.Name),
		Body: fmt.Sprintf(
			"Neue Premium-Anfrage:\n\nID: %s\nName: %s\nE-Mail: %s\nZiele: %s\nGesundheit: %s\nWünsche: %s\n\nDie Zahlung steht noch aus.",
			sub.ID, sub.Name, sub.Email, sub.Ziele, sub.Gesundheit, sub.Wuensche,
		),
	})

	sessionID, err := s.Payment.CreateSession(s.Payment.BuildPremiumIntent(sub))
	if err != nil {
		// The submission stays on disk without a payment; logged so it can
		// be correlated manually.
		s.Log.Error("provider call failed after submission was stored",
			slog.String("submission_id", sub.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	return sessionID, nil
}
