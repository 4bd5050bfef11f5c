package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"go-nutrition-api/handler"
	"go-nutrition-api/service"
)

// NewRouter wires all endpoints under the versioned API prefix. Auth
// endpoints sit behind the stricter rate-limit bucket; everything that needs
// a caller identity goes through the auth middleware.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tokens *service.TokenService,
	apiLimiter *handler.RateLimiter,
	authLimiter *handler.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if authHandler != nil {
		auth := handler.AuthMiddleware(tokens)

		mux.Handle("POST /api/v1/auth/register",
			authLimiter.Middleware(handler.ErrorHandlingMiddleware(authHandler.Register)))
		mux.Handle("POST /api/v1/auth/login",
			authLimiter.Middleware(handler.ErrorHandlingMiddleware(authHandler.Login)))
		mux.Handle("POST /api/v1/auth/refresh-token",
			authLimiter.Middleware(handler.ErrorHandlingMiddleware(authHandler.Refresh)))
		mux.Handle("POST /api/v1/auth/logout",
			auth(handler.ErrorHandlingMiddleware(authHandler.Logout)))
		// Verify parses the bearer token itself; no auth middleware in front so
		// its error codes distinguish a bad token from a missing subject. Both
		// methods are accepted for client compatibility.
		verify := authLimiter.Middleware(handler.ErrorHandlingMiddleware(authHandler.Verify))
		mux.Handle("GET /api/v1/auth/verify", verify)
		mux.Handle("POST /api/v1/auth/verify", verify)

		if userHandler != nil {
			mux.Handle("GET /api/v1/users/me",
				apiLimiter.Middleware(auth(handler.ErrorHandlingMiddleware(userHandler.GetProfile))))
			mux.Handle("PUT /api/v1/users/me",
				apiLimiter.Middleware(auth(handler.ErrorHandlingMiddleware(userHandler.UpdateProfile))))
			mux.Handle("PUT /api/v1/users/me/goals",
				apiLimiter.Middleware(auth(handler.ErrorHandlingMiddleware(userHandler.UpdateGoals))))
			mux.Handle("POST /api/v1/users/me/onboarding",
				apiLimiter.Middleware(auth(handler.ErrorHandlingMiddleware(userHandler.CompleteOnboarding))))
		}
	}

	return mux
}
