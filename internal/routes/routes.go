package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"GO2GETHER_EXPENSES/internal/config"
	"GO2GETHER_EXPENSES/internal/handlers"
	"GO2GETHER_EXPENSES/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	expensesHandler *handlers.ExpensesHandler,
	bookingsHandler *handlers.BookingsHandler,
	healthHandler *handlers.HealthHandler,
	jwtCfg *config.JWTConfig,
) {
	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Expense routes
	http.HandleFunc("/api/expenses", middleware.AuthMiddleware(expensesHandler.Expenses, jwtCfg))
	http.HandleFunc("/api/expenses/mybalances", middleware.AuthMiddleware(expensesHandler.MyBalances, jwtCfg))
	http.HandleFunc("/api/expenses/trip/", middleware.AuthMiddleware(expensesHandler.TripSubroutes, jwtCfg))
	http.HandleFunc("/api/expenses/", middleware.AuthMiddleware(expensesHandler.Expenses, jwtCfg))

	// Booking routes
	http.HandleFunc("/api/bookings", middleware.AuthMiddleware(bookingsHandler.Bookings, jwtCfg))
	http.HandleFunc("/api/bookings/", middleware.AuthMiddleware(bookingsHandler.Bookings, jwtCfg))
	http.HandleFunc("/api/trips/", middleware.AuthMiddleware(bookingsHandler.CancelTrip, jwtCfg))

	// Swagger UI
	http.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Go2gether expenses backend is running."))
}
