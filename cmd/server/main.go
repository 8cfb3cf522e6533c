package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/config"
	"github.com/fedeguidottii/easyfood/internal/database"
	"github.com/fedeguidottii/easyfood/internal/handler"
	"github.com/fedeguidottii/easyfood/internal/middleware"
	"github.com/fedeguidottii/easyfood/internal/queue"
	"github.com/fedeguidottii/easyfood/internal/repository"
	"github.com/fedeguidottii/easyfood/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; cache and limiter degrade to no-ops
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	tables := repository.NewTableRepo(db)
	menu := repository.NewMenuRepo(db)
	schedules := repository.NewScheduleRepo(db)
	sessions := repository.NewSessionRepo(db)
	cart := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	bookings := repository.NewBookingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	ownerH := handler.NewOwnerHandler(cfg, restaurants, tables, menu, schedules, sessions, bookings, users)
	publicH := handler.NewPublicHandler(restaurants, tables, menu, schedules, sessions)
	customerH := handler.NewCustomerHandler(sessions, cart, menu, orders, restaurants, tables)
	staffH := handler.NewStaffHandler(users, orders, restaurants)
	adminH := handler.NewAdminHandler(restaurants, users)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterCustomer(e, customerH, sessions)
	router.RegisterStaff(e, staffH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// background consumer appending submitted orders to logs/orders.log
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
