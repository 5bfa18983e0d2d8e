package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"travkings/internal/config"
	appmw "travkings/internal/middleware"
	httprouters "travkings/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	cfg     *config.Config
}

func New(log *slog.Logger, cfg *config.Config, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.Use(appmw.SecurityHeaders)
	e.Use(appmw.CORS(cfg.CORS.AllowedOrigins))
	e.Use(appmw.PrometheusMetrics)
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		cfg:     cfg,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.cfg.HTTP.Host, s.cfg.HTTP.Port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// Echo возвращает внутренний echo-инстанс для тестов
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.routers.Login)
			authGroup.POST("/logout", s.routers.Logout)
		}

		packages := api.Group("/packages")
		{
			packages.GET("", s.routers.ListPackages)
			packages.POST("", s.routers.CreatePackage)
			packages.GET("/slug/:slug", s.routers.GetPackageBySlug)
			packages.GET("/:id", s.routers.GetPackage)
			packages.PUT("/:id", s.routers.UpdatePackage)
			packages.DELETE("/:id", s.routers.DeletePackage)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", s.routers.ListBlogs)
			blogs.POST("", s.routers.CreateBlog)
			blogs.GET("/slug/:slug", s.routers.GetBlogBySlug)
			blogs.GET("/:id", s.routers.GetBlog)
			blogs.PUT("/:id", s.routers.UpdateBlog)
			blogs.PATCH("/:id", s.routers.IncrementBlogViews)
			blogs.DELETE("/:id", s.routers.DeleteBlog)
		}

		queries := api.Group("/queries")
		{
			queries.GET("", s.routers.ListQueries)
			queries.POST("", s.routers.CreateQuery)
			queries.GET("/:id", s.routers.GetQuery)
			queries.PATCH("/:id", s.routers.UpdateQueryStatus)
			queries.DELETE("/:id", s.routers.DeleteQuery)
		}
	}

	admin := s.e.Group("/admin", appmw.AdminGate(s.cfg.Session.Secret))
	{
		admin.GET("/login", s.routers.AdminLoginPage)
		admin.GET("", s.routers.AdminDashboard)
		admin.GET("/dashboard", s.routers.AdminDashboard)
		admin.GET("/packages", s.routers.AdminListPackages)
		admin.GET("/blogs", s.routers.AdminListBlogs)
		admin.GET("/queries", s.routers.AdminListQueries)
	}

	// загруженные изображения отдаются как статика
	s.e.Static("/packages", filepath.Join(s.cfg.FileStorage.BaseDir, "packages"))
	s.e.Static("/blogs", filepath.Join(s.cfg.FileStorage.BaseDir, "blogs"))

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}
