package http

import (
	"taskbook_api/internal/http/handlers"
	"taskbook_api/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Auth   handlers.AuthService
	Books  handlers.BookStore
	Tasks  handlers.TaskStore
	Tokens middleware.TokenVerifier
	Users  middleware.UserLookup
	DB     handlers.Pinger
	Schema handlers.SchemaCheck
}

// NewRouter builds an engine with the standard middleware chain and all routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.Metrics(),
	)
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Auth, d.Books, d.Tasks)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Schema)

	// Health checks
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	auth := r.Group("/")
	auth.Use(middleware.JWT(d.Tokens, d.Users))

	auth.GET("/me", h.Me)

	// Books
	auth.POST("/books/", h.CreateBook)
	auth.POST("/books", h.CreateBook)
	auth.GET("/books/", h.ListBooks)
	auth.GET("/books", h.ListBooks)
	auth.GET("/books/:id", h.GetBook)
	auth.DELETE("/books/:id", h.DeleteBook)

	// Tasks
	auth.POST("/tasks/", h.CreateTask)
	auth.POST("/tasks", h.CreateTask)
	auth.GET("/tasks/", h.ListTasks)
	auth.GET("/tasks", h.ListTasks)
	auth.GET("/tasks/:id", h.GetTask)
	auth.PUT("/tasks/:id", h.UpdateTask)
	auth.DELETE("/tasks/:id", h.DeleteTask)
	auth.POST("/tasks/:id/complete", h.CompleteTask)
}
