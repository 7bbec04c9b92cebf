package services

import (
	"log/slog"
	"sync"

	"github.com/Echtwork/echtwork-website/config"
	"github.com/Echtwork/echtwork-website/metrics"
	"gopkg.in/gomail.v2"
)

// Mail is one outbound message. Attachment is a filesystem path; empty means
// no attachment.
type Mail struct {
	To         string
	Subject    string
	Body       string
	Attachment string
}

// Sender delivers a single mail. Tests inject a recorder that captures calls
// without hitting the network.
type Sender interface {
	Send(mail Mail) error
}

// MailService is the SMTP-backed Sender.
type MailService struct {
	cfg config.Mail
}

func NewMailService(cfg config.Mail) *MailService {
	return &MailService{cfg: cfg}
}

func (s *MailService) Send(mail Mail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.User, s.cfg.FromName))
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/plain", mail.Body)
	if mail.Attachment != "" {
		m.Attach(mail.Attachment)
	}

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Pass)
	d.SSL = s.cfg.SSL
	return d.DialAndSend(m)
}

// Notifier dispatches mails without blocking the caller. Delivery outcome is
// only logged; the HTTP response path never waits on it.
type Notifier struct {
	sender Sender
	log    *slog.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, log *slog.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// Dispatch hands the mail to the transport on its own goroutine. There is no
// retry: a failed send is counted and logged, nothing more.
func (n *Notifier) Dispatch(mail Mail) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.sender.Send(mail); err != nil {
			metrics.MailFailures.Inc()
			n.log.Error("mail delivery failed",
				slog.String("to", mail.To),
				slog.String("subject", mail.Subject),
				slog.Any("error", err),
			)
			return
		}
		metrics.MailsSent.Inc()
		n.log.Info("mail sent",
			slog.String("to", mail.To),
			slog.String("subject", mail.Subject),
		)
	}()
}

// Flush blocks until all dispatched sends have finished. Called on shutdown
// and by tests; request handlers never call it.
func (n *Notifier) Flush() {
	n.wg.Wait()
}
