package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/huggodev/vntl-api/internal/handler"
	authhandler "github.com/huggodev/vntl-api/internal/handler/auth"
	devicehandler "github.com/huggodev/vntl-api/internal/handler/device"
	patienthandler "github.com/huggodev/vntl-api/internal/handler/patient"
	professionalhandler "github.com/huggodev/vntl-api/internal/handler/professional"
	"github.com/huggodev/vntl-api/internal/middleware"
	"github.com/huggodev/vntl-api/internal/model"
	"github.com/huggodev/vntl-api/pkg/metrics"
)

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         *authhandler.Handler
	patientH      *patienthandler.Handler
	deviceH       *devicehandler.Handler
	professionalH *professionalhandler.Handler
	healthH       *handler.HealthHandler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	Metrics    *metrics.Metrics
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	patientH *patienthandler.Handler,
	deviceH *devicehandler.Handler,
	professionalH *professionalhandler.Handler,
	healthH *handler.HealthHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		patientH:      patientH,
		deviceH:       deviceH,
		professionalH: professionalH,
		healthH:       healthH,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(config.CORSConfig),
	)

	if config.Metrics != nil {
		engine.Use(middleware.Metrics(config.Metrics))
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.healthH.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Every request passes through Authenticate; missing or invalid
	// credentials leave it anonymous and RequireRoles rejects later.
	api.Use(r.auth.Authenticate())

	api.POST("/auth/login", r.authH.Login)

	r.setupPatientRoutes(api.Group("/patients"))
	r.setupDeviceRoutes(api.Group("/devices"))
	r.setupProfessionalRoutes(api.Group("/professionals"))
}

func (r *Router) setupPatientRoutes(rg *gin.RouterGroup) {
	read := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
	write := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager)

	rg.GET("", read, r.patientH.List)
	rg.GET("/:id", read, r.patientH.Get)
	rg.POST("", write, r.patientH.Create)
	rg.PUT("/:id", write, r.patientH.Update)
	rg.PATCH("/:id/last-visit", read, r.patientH.UpdateLastVisit)
	rg.DELETE("/:id", r.auth.RequireRoles(model.RoleAdmin), r.patientH.Delete)
}

func (r *Router) setupDeviceRoutes(rg *gin.RouterGroup) {
	read := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
	write := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager)

	rg.GET("", read, r.deviceH.List)
	rg.GET("/:id", read, r.deviceH.Get)
	rg.POST("", write, r.deviceH.Create)
	rg.PUT("/:id", write, r.deviceH.Update)
	rg.DELETE("/:id", r.auth.RequireRoles(model.RoleAdmin), r.deviceH.Delete)
}

func (r *Router) setupProfessionalRoutes(rg *gin.RouterGroup) {
	read := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager, model.RoleTechnician)
	write := r.auth.RequireRoles(model.RoleAdmin, model.RoleManager)

	rg.GET("", read, r.professionalH.List)
	rg.GET("/:id", read, r.professionalH.Get)
	rg.GET("/:id/patients", read, r.professionalH.ListPatients)
	rg.POST("", write, r.professionalH.Create)
	rg.PUT("/:id", write, r.professionalH.Update)
	rg.POST("/:id/patients/:patientId", write, r.professionalH.AssignPatient)
	rg.DELETE("/:id/patients/:patientId", write, r.professionalH.UnassignPatient)
	rg.DELETE("/:id", r.auth.RequireRoles(model.RoleAdmin), r.professionalH.Delete)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
