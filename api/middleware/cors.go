package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",              // local dev
	"http://localhost:5173",              // Vite dev server
	"https://admin.gearshare.app",        // admin dashboard
	"https://gearshare-admin.vercel.app", // Vercel deployment
}

// CORS returns middleware that applies the dashboard's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-Email", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
