package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Number of webhook events that passed signature verification",
		},
	)

	WebhookSignatureFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_signature_failures_total",
			Help: "Number of webhook deliveries rejected during signature verification",
		},
	)

	CheckoutSessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_sessions_created_total",
			Help: "Number of checkout sessions minted with the payment provider",
		},
	)

	MailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Number of mails handed off to the SMTP transport successfully",
		},
	)

	MailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mail_failures_total",
			Help: "Number of mail deliveries that failed; failures are logged, never retried",
		},
	)
)

func Register() {
	prometheus.MustRegister(
		WebhookEvents,
		WebhookSignatureFailures,
		CheckoutSessionsCreated,
		MailsSent,
		MailFailures,
	)
}
