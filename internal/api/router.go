package api

import (
	"github.com/gorilla/mux"

	"github.com/remindly/remindly-server/internal/api/recovery"
	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/services"
	"github.com/remindly/remindly-server/internal/syncer"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth      *services.AuthService
	Items     *services.ItemService
	Insights  *services.InsightService
	Assistant *services.AssistantService
	Sync      *syncer.Worker
	Issuer    *auth.TokenIssuer
}

// NewRouter builds the HTTP router. Login and health are public; everything
// else sits behind the bearer-token middleware.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	authHandler := NewAuthHandler(d.Auth)
	itemHandler := NewItemHandler(d.Items)
	insightHandler := NewInsightHandler(d.Insights)
	assistantHandler := NewAssistantHandler(d.Assistant)
	prefsHandler := NewPrefsHandler(d.Auth)
	syncHandler := NewSyncHandler(d.Sync)
	healthHandler := NewHealthHandler()

	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware(d.Issuer))

	// Fixed paths before the {id} routes so "buckets" never parses as an id.
	protected.HandleFunc("/items/buckets", itemHandler.Buckets).Methods("GET")
	protected.HandleFunc("/items", itemHandler.List).Methods("GET")
	protected.HandleFunc("/items", itemHandler.Replace).Methods("PUT")
	protected.HandleFunc("/items", itemHandler.Create).Methods("POST")
	protected.HandleFunc("/items/{id}", itemHandler.Update).Methods("PUT")
	protected.HandleFunc("/items/{id}", itemHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/items/{id}/complete", itemHandler.Complete).Methods("POST")
	protected.HandleFunc("/items/{id}/duplicate", itemHandler.Duplicate).Methods("POST")
	protected.HandleFunc("/items/{id}/snooze", itemHandler.Snooze).Methods("POST")
	protected.HandleFunc("/items/{id}/loan", itemHandler.Loan).Methods("GET")

	protected.HandleFunc("/insights/dashboard", insightHandler.Dashboard).Methods("GET")
	protected.HandleFunc("/insights/lifelog", insightHandler.Lifelog).Methods("GET")

	protected.HandleFunc("/assistant/chat", assistantHandler.Chat).Methods("POST")
	protected.HandleFunc("/assistant/summary", assistantHandler.Summary).Methods("POST")

	protected.HandleFunc("/prefs", prefsHandler.Get).Methods("GET")
	protected.HandleFunc("/prefs", prefsHandler.Put).Methods("PUT")

	protected.HandleFunc("/sync/status", syncHandler.Status).Methods("GET")
	protected.HandleFunc("/sync/flush", syncHandler.Flush).Methods("POST")

	return router
}
