package services

import (
	"io"
	"log/slog"
	"sync"

	"github.com/Echtwork/echtwork-website/models"
	"github.com/stripe/stripe-go/v78"
)

// recorderSender captures mails instead of talking to SMTP.
type recorderSender struct {
	mu    sync.Mutex
	mails []Mail
	err   error
}

func (r *recorderSender) Send(m Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mails = append(r.mails, m)
	return r.err
}

func (r *recorderSender) sent() []Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Mail(nil), r.mails...)
}

// stubSessions records checkout session params instead of calling the
// provider.
type stubSessions struct {
	mu     sync.Mutex
	params []*stripe.CheckoutSessionParams
	err    error
}

func (s *stubSessions) New(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.params = append(s.params, p)
	return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
}

func (s *stubSessions) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.params)
}

// countingStore wraps a store and counts reads.
type countingStore struct {
	inner SubmissionStore
	gets  int
}

func (c *countingStore) Save(sub *models.Submission) error {
	return c.inner.Save(sub)
}

func (c *countingStore) Get(id string) (*models.Submission, error) {
	c.gets++
	return c.inner.Get(id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
