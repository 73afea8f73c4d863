package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/glampway/yurt-reservation/internal/config"
	"github.com/glampway/yurt-reservation/internal/database"
	"github.com/glampway/yurt-reservation/internal/handler"
	"github.com/glampway/yurt-reservation/internal/middleware"
	"github.com/glampway/yurt-reservation/internal/queue"
	"github.com/glampway/yurt-reservation/internal/repository"
	"github.com/glampway/yurt-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("APP_ENV") == "prod" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.Migrate(db, migrationsDir, cfg.DBName); err != nil {
		logrus.WithError(err).Fatal("migrations failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; cache and rate limiting disabled")
	}

	yurts := repository.NewYurtRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	menu := repository.NewMenuRepo(db)
	orders := repository.NewOrderRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	yurtH := handler.NewYurtHandler(yurts)
	bookingH := handler.NewBookingHandler(bookings, yurts, users)
	orderH := handler.NewOrderHandler(orders, bookings, menu)
	menuH := handler.NewMenuHandler(menu, bookings)
	adminH := handler.NewAdminHandler(cfg, users, bookings, orders)
	adminBookingH := handler.NewAdminBookingHandler(bookings)
	adminMenuH := handler.NewAdminMenuHandler(menu)
	cronH := handler.NewCronHandler(cfg, bookings)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// The response cache attaches per route, public endpoints only.
	// Availability runs on a short TTL since bookings invalidate it.
	cacheCfg := config.LoadCacheConfig()
	cacheMW := middleware.NewRedisCache(cacheCfg, rdb)
	availCfg := cacheCfg
	if availCfg.TTL > 5*time.Second {
		availCfg.TTL = 5 * time.Second
	}
	availMW := middleware.NewRedisCache(availCfg, rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, yurtH, bookingH, menuH, cacheMW, availMW)
	router.RegisterCustomer(e, bookingH, orderH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, adminBookingH, adminMenuH)
	router.RegisterCron(e, cronH)

	// The notification consumer keeps its own reconnect loop; a broker
	// outage degrades notifications, not bookings.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			logrus.WithError(err).Error("notification consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
