package rest

import (
	_ "aiinterviewer/docs"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/transport/rest/handler"
	"aiinterviewer/internal/transport/rest/middleware"
	"aiinterviewer/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	InterviewService   *service.InterviewService
	WSHub              *ws.Hub
	CORSAllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.InterviewService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	creditsHandler := handler.NewCreditsHandler(c.InterviewService)
	historyHandler := handler.NewHistoryHandler(c.InterviewService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.InterviewService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSAllowedOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/session", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/interview", wsHandler.InterviewWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API docs
	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, `{"error":"docs unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Session routes (require gateway auth)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/auth/session", authHandler.Logout).Methods("DELETE", "OPTIONS")

	sessionRoutes.HandleFunc("/interview", interviewHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/setup", interviewHandler.Setup).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/answer", interviewHandler.Answer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/abandon", interviewHandler.Abandon).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/error", interviewHandler.DismissError).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/interview/report", interviewHandler.Report).Methods("GET", "OPTIONS")

	sessionRoutes.HandleFunc("/credits", creditsHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/credits/refresh", creditsHandler.Refresh).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/credits/history", creditsHandler.History).Methods("GET", "OPTIONS")

	sessionRoutes.HandleFunc("/resumes", historyHandler.Resumes).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/history/interviews", historyHandler.Interviews).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/reports", historyHandler.Reports).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/reports/{sessionId:[0-9]+}", historyHandler.Report).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
