package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, d Deps) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Ignite Hunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(d.Logger, d.DB))
	r.Method("GET", "/metrics", promhttp.Handler())

	// Player routes.
	r.Post("/api/login", handleLogin(d.Manager, d.Sessions))
	r.Get("/api/leaderboard", handleLeaderboard(d.Manager))
	r.Route("/api/game", func(r chi.Router) {
		r.Get("/state", handleGameState(d.Manager, d.Sessions))
		r.Post("/start", handleGameStart(d.Manager, d.Sessions, broker))
		r.Post("/answer", handleAnswer(d.Manager, d.Sessions, broker))
		r.Post("/scan", handleScan(d.Manager, d.Sessions, broker))
		r.Post("/scan/image", handleScanImage(d.Manager, d.Sessions, broker))
		r.Get("/events", handleEvents(d.Sessions, broker))
	})

	// Admin console.
	r.Post("/api/admin/login", handleAdminLogin(d.Sessions, d.AdminHash))
	r.Post("/api/admin/logout", handleAdminLogout(d.Sessions))
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuthMiddleware(d.Sessions))
		r.Get("/teams", handleAdminTeams(d.Manager))
		r.Get("/clues", handleAdminClues(d.Manager))
		r.Post("/teams/{teamID}/advance", handleAdminAdvance(d.Manager, broker))
		r.Post("/teams/{teamID}/points", handleAdminPoints(d.Manager, broker))
		r.Post("/reset", handleAdminReset(d.Manager, d.Sessions, broker))
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			d.Logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}
