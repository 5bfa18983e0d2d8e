package app

import (
	"context"
	"log/slog"
	"time"

	httpapp "travkings/internal/app/http"
	"travkings/internal/cache"
	"travkings/internal/config"
	"travkings/internal/lib/logger/sl"
	"travkings/internal/repository"
	"travkings/internal/services/auth"
	blogservice "travkings/internal/services/blog_service"
	packageservice "travkings/internal/services/package_service"
	queryservice "travkings/internal/services/query_service"
	filestorage "travkings/internal/storage/filestorage"
	"travkings/internal/storage/postgresql"
	redisstorage "travkings/internal/storage/redis"
	httprouters "travkings/internal/transport/http"

	"github.com/redis/go-redis/v9"
)

type App struct {
	HTTPServer *httpapp.Server

	log       *slog.Logger
	storage   *postgresql.Storage
	redis     *redisstorage.Client
	cancelSub context.CancelFunc
}

func New(log *slog.Logger, cfg *config.Config) *App {
	db, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	images, err := filestorage.NewLocalImageStore(cfg.FileStorage.BaseDir, cfg.FileStorage.MaxSize)
	if err != nil {
		panic(err)
	}

	var rdb *redisstorage.Client
	if cfg.Redis.RedisAddr != "" {
		rdb = redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.HealthCheck(pingCtx); err != nil {
			log.Warn("redis unavailable, page invalidation is local only", sl.Err(err))
			rdb = nil
		}
		cancel()
	}

	pageCache := cache.NewPageCache(log, redisClient(rdb), 5*time.Minute)

	subCtx, cancelSub := context.WithCancel(context.Background())
	go pageCache.Listen(subCtx)

	repos := repository.NewRepository(db.Pool())

	packageSvc := packageservice.NewPackageService(log, repos.Packages, images, pageCache)
	blogSvc := blogservice.NewBlogService(log, repos.Blogs, images, pageCache)
	querySvc := queryservice.NewQueryService(log, repos.Queries)

	verifier := auth.NewFixedAdmin(cfg.Admin.Username, cfg.Admin.PasswordHash)
	authSvc := auth.New(log, verifier, cfg.Session.Secret, cfg.Session.TTL)

	routers := httprouters.NewRouter(log, packageSvc, blogSvc, querySvc, authSvc)

	server := httpapp.New(log, cfg, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		log:        log,
		storage:    db,
		redis:      rdb,
		cancelSub:  cancelSub,
	}
}

func (a *App) Stop() {
	a.cancelSub()

	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis client", sl.Err(err))
		}
	}

	a.storage.Stop()
}

func redisClient(c *redisstorage.Client) *redis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}
