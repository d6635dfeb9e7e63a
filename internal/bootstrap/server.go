package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybooking/api"
	"github.com/zvrva/staybooking/config"
	"github.com/zvrva/staybooking/internal/service/booking"
	"github.com/zvrva/staybooking/internal/service/payments"
	"github.com/zvrva/staybooking/internal/service/stats"
	"github.com/zvrva/staybooking/internal/service/units"
	"github.com/zvrva/staybooking/internal/service/users"
)

type Services struct {
	Users    users.UserUseCase
	Units    units.UnitUseCase
	Bookings booking.BookingUseCase
	Payments payments.PaymentUseCase
	Stats    stats.StatsUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.Default()

	v1 := router.Group("/api/v1")

	usersGroup := v1.Group("/users")
	api.NewUserHandler(svc.Users).Register(usersGroup)

	api.NewUnitHandler(svc.Units).Register(v1.Group("/units"))
	api.NewBookingHandler(svc.Bookings).Register(v1.Group("/bookings"), usersGroup)
	api.NewPaymentHandler(svc.Payments).Register(v1.Group("/payments"))
	api.NewStatsHandler(svc.Stats).Register(v1.Group("/stats"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs", func(c *gin.Context) {
			renderSwaggerUI(c, "/swagger/staybooking.swagger.json")
		})
	}

	return router
}

func renderSwaggerUI(c *gin.Context, jsonURL string) {
	html := fmt.Sprintf(`<!DOCTYPE html>
    <html>
    <head>
        <title>API Docs</title>
        <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@latest/swagger-ui.css">
    </head>
    <body>
        <div id="swagger-ui"></div>
        <script src="https://unpkg.com/swagger-ui-dist@latest/swagger-ui-bundle.js"></script>
        <script>
            window.onload = function() {
                window.ui = SwaggerUIBundle({
                    url: "%s",
                    dom_id: '#swagger-ui'
                });
            };
        </script>
    </body>
    </html>`, jsonURL)

	c.Data(http.StatusOK, "text/html", []byte(html))
}
