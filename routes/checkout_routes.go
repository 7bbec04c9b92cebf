package routes

import (
	"log/slog"
	"path/filepath"

	"github.com/Echtwork/echtwork-website/config"
	"github.com/Echtwork/echtwork-website/controller"
	"github.com/Echtwork/echtwork-website/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register wires the services and binds all routes on the engine. The
// returned Notifier is handed back so main can flush in-flight mails on
// shutdown.
func Register(router *gin.Engine, cfg config.Config, log *slog.Logger) *services.Notifier {
	notifier := services.NewNotifier(services.NewMailService(cfg.Mail), log)
	store := &services.SubmissionService{Dir: cfg.SubmissionsDir}
	paymentService := services.NewPaymentService(cfg)

	checkoutController := &controller.CheckoutController{
		PaymentService: paymentService,
		PremiumService: &services.PremiumService{
			Store:      store,
			Payment:    paymentService,
			Notifier:   notifier,
			AdminEmail: cfg.AdminEmail,
			Log:        log,
		},
	}
	webhookController := &controller.WebhookController{
		WebhookService: &services.WebhookService{
			Secret:     cfg.Stripe.WebhookSecret,
			Store:      store,
			Notifier:   notifier,
			AdminEmail: cfg.AdminEmail,
			PlansDir:   cfg.PlansDir,
			Log:        log,
		},
	}

	router.POST("/create-checkout-session", checkoutController.CreateCheckoutSession)
	router.POST("/create-checkout-session-premium", checkoutController.CreatePremiumCheckout)
	router.POST("/webhook", webhookController.HandleWebhook)

	// Landing pages the provider redirects back to.
	router.StaticFile("/success.html", filepath.Join(cfg.PublicDir, "success.html"))
	router.StaticFile("/cancel.html", filepath.Join(cfg.PublicDir, "cancel.html"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return notifier
}
