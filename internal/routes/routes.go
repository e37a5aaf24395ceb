package routes

import (
	"net/http"

	"github.com/labworks/tracker/internal/app"
	"github.com/labworks/tracker/internal/handler"
	"github.com/labworks/tracker/internal/middleware"
)

// SetupRoutes registers every endpoint. The limiter guards the sign-in and
// sign-up endpoints; the caller owns its cleanup loop.
func SetupRoutes(app *app.App, limiter *middleware.RateLimiter) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.GoalService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	dashboard := handler.NewDashboardHandler(app.Cfg.AppName, app.GoalService, app.AssistService, app.Markdown)
	goal := handler.NewGoalHandler(app.GoalService)
	insights := handler.NewInsightsHandler(app.InsightsService)
	assist := handler.NewAssistHandler(app.AssistService, app.GoalService)

	mux := http.NewServeMux()
	rateLimit := middleware.RateLimit(limiter)

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /{$}", auth.Home)

	// Auth
	mux.HandleFunc("GET /auth/csrf", auth.CSRFToken)
	mux.HandleFunc("POST /auth/register", rateLimit(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /auth/login", rateLimit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	mux.HandleFunc("GET /app/dashboard", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("GET /app/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("DELETE /app/account", middleware.RequireAuth(account.DeleteAccount))

	// Goals
	mux.HandleFunc("GET /app/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /app/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /app/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PATCH /app/goals/{id}/status", middleware.RequireAuth(goal.UpdateStatus))
	mux.HandleFunc("GET /app/goals/{id}/activity", middleware.RequireAuth(goal.Activity))
	mux.HandleFunc("POST /app/goals/{id}/activity", middleware.RequireAuth(goal.LogActivity))
	mux.HandleFunc("GET /app/team/goals", middleware.RequireAuth(goal.Team))
	mux.HandleFunc("GET /app/public/goals", middleware.RequireAuth(goal.Public))
	mux.HandleFunc("GET /app/feed", middleware.RequireAuth(goal.Feed))

	// Insights
	mux.HandleFunc("GET /app/insights", middleware.RequireAuth(insights.Summary))
	mux.HandleFunc("GET /app/insights/export.csv", middleware.RequireAuth(insights.ExportCSV))
	mux.HandleFunc("POST /app/insights/archive", middleware.RequireAuth(insights.Archive))

	// AI assist
	mux.HandleFunc("GET /app/assist/status", middleware.RequireAuth(assist.Status))
	mux.HandleFunc("POST /app/assist/polish", middleware.RequireAuth(assist.Polish))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
		middleware.WithURLPath,
	)
}
