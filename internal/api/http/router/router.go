package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/api/http/handler"
	"github.com/dtroode/employee-directory/internal/api/http/middleware"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

// bodySlack leaves room for the text fields sent along with a picture.
const bodySlack = 1 << 20

// Router wires handlers and middleware into a gin engine.
type Router struct {
	authService     handler.AuthService
	employeeService handler.EmployeeService
	uploads         handler.UploadManager
	tokenManager    model.TokenManager
	userStore       model.UserStore
	contextManager  model.ContextManager
	observer        middleware.RequestObserver
	metricsHandler  http.Handler
	logger          *logger.Logger
}

// Dependencies groups what New needs. MetricsHandler is optional.
type Dependencies struct {
	AuthService     handler.AuthService
	EmployeeService handler.EmployeeService
	Uploads         handler.UploadManager
	TokenManager    model.TokenManager
	UserStore       model.UserStore
	ContextManager  model.ContextManager
	Observer        middleware.RequestObserver
	MetricsHandler  http.Handler
	Logger          *logger.Logger
}

// New creates a Router from deps.
func New(deps Dependencies) *Router {
	return &Router{
		authService:     deps.AuthService,
		employeeService: deps.EmployeeService,
		uploads:         deps.Uploads,
		tokenManager:    deps.TokenManager,
		userStore:       deps.UserStore,
		contextManager:  deps.ContextManager,
		observer:        deps.Observer,
		metricsHandler:  deps.MetricsHandler,
		logger:          deps.Logger,
	}
}

// Register builds the engine with every route.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.NewRecovery(r.logger).Handle())
	engine.Use(middleware.NewLogging(r.logger).Handle())
	if r.observer != nil {
		engine.Use(middleware.NewMetrics(r.observer).Handle())
	}
	engine.Use(cors.New(corsConfig()))

	engine.GET("/", handler.Health)
	if r.metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	files := handler.NewFiles(r.uploads, r.logger)
	engine.GET("/uploads/:name", files.Serve)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.BodyLimit(r.uploads.MaxSize() + bodySlack))
	r.registerUserRoutes(v1)
	r.registerEmployeeRoutes(v1)

	engine.NoRoute(handler.NotFound)

	return engine
}

func (r *Router) registerUserRoutes(group *gin.RouterGroup) {
	auth := handler.NewAuth(r.authService, r.logger)

	users := group.Group("/users")
	users.POST("/signup", auth.Signup)
	users.POST("/login", auth.Login)
}

func (r *Router) registerEmployeeRoutes(group *gin.RouterGroup) {
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.userStore, r.contextManager, r.logger)
	employee := handler.NewEmployee(r.employeeService, r.uploads, r.contextManager, r.logger)

	employees := group.Group("/employees", authenticate.Handle())
	employees.GET("", employee.List)
	employees.GET("/search", employee.Search)
	employees.POST("", employee.Create)
	employees.GET("/:id", employee.Get)
	employees.PUT("/:id", employee.Update)
	employees.DELETE("/:id", employee.Delete)
}

func corsConfig() cors.Config {
	conf := cors.DefaultConfig()
	conf.AllowAllOrigins = true
	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	return conf
}
