package handlers

import (
	"net/http"

	"familyhub/internal/metrics"
	"familyhub/internal/security"
	"familyhub/internal/service"
)

// Router bundles the HTTP surface of the application
type Router struct {
	authService     *service.AuthService
	familyService   *service.FamilyService
	activityService *service.ActivityService
	limiter         *security.RateLimiter
	collector       *metrics.Collector
}

// NewRouter creates a router over the given services
func NewRouter(authService *service.AuthService, familyService *service.FamilyService, activityService *service.ActivityService, limiter *security.RateLimiter, collector *metrics.Collector) *Router {
	return &Router{
		authService:     authService,
		familyService:   familyService,
		activityService: activityService,
		limiter:         limiter,
		collector:       collector,
	}
}

// Handler builds the full route table and middleware chain
func (rt *Router) Handler() http.Handler {
	mw := NewMiddleware(rt.authService, rt.limiter)
	authHandler := NewAuthHandler(rt.authService)
	familyHandler := NewFamilyHandler(rt.familyService)
	activityHandler := NewActivityHandler(rt.activityService)

	mux := http.NewServeMux()

	// Auth. Register and login are rate limited per client IP.
	mux.HandleFunc("POST /api/register", mw.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/user", authHandler.CurrentUser)
	mux.HandleFunc("POST /api/password-reset/request", mw.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /api/password-reset/confirm", mw.RateLimit(authHandler.ConfirmPasswordReset))

	// Families and members
	mux.HandleFunc("POST /api/families", mw.RequireAuth(familyHandler.CreateFamily))
	mux.HandleFunc("GET /api/families", mw.RequireAuth(familyHandler.ListFamilies))
	mux.HandleFunc("POST /api/families/{familyId}/members", mw.RequireAuth(familyHandler.InviteMember))
	mux.HandleFunc("GET /api/families/{familyId}/members", mw.RequireAuth(familyHandler.ListMembers))

	// Invites. Verification is public so the join page can render before login.
	mux.HandleFunc("GET /api/invites/{token}", familyHandler.VerifyInvite)
	mux.HandleFunc("POST /api/invites/{token}/accept", mw.RequireAuth(familyHandler.AcceptInvite))

	// Activities
	mux.HandleFunc("POST /api/activities", mw.RequireAuth(activityHandler.Create))
	mux.HandleFunc("GET /api/activities", mw.RequireAuth(activityHandler.List))
	mux.HandleFunc("PATCH /api/activities/{id}/complete", mw.RequireAuth(activityHandler.Complete))

	var handler http.Handler = mux
	if rt.collector != nil {
		mux.Handle("GET /metrics", rt.collector.Handler())
		handler = rt.collector.Instrument(handler)
	}

	return Logging(handler)
}
