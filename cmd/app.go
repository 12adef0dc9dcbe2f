package cmd

import (
	"github.com/Vishnukant2275/easyorderin/configs"
	"github.com/Vishnukant2275/easyorderin/middlewares"
	"github.com/Vishnukant2275/easyorderin/pkg/cache"
	"github.com/Vishnukant2275/easyorderin/pkg/mq"
	"github.com/Vishnukant2275/easyorderin/repository"
	"github.com/Vishnukant2275/easyorderin/routes"
	"github.com/Vishnukant2275/easyorderin/services"
	"github.com/Vishnukant2275/easyorderin/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the fully wired process.
type app struct {
	cfg    *configs.Config
	log    *zap.Logger
	db     *gorm.DB
	broker *mq.Client

	otp    *services.OTPStore
	reaper *services.OrderReaper
	hub    *ws.OrderHub
	deps   routes.Deps
}

func newApp(cfg *configs.Config, log *zap.Logger) (*app, error) {
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return nil, err
	}
	if cfg.SeedDemo {
		if _, err := configs.SeedDemo(db, log); err != nil {
			return nil, err
		}
	}
	if err := configs.SeedStaff(db, cfg, log); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, db: db}

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	custRepo := repository.NewCustomerRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	logRepo := repository.NewStatusLogRepository(db)

	// Optional infrastructure
	var readCache cache.Cache
	if cfg.RedisAddr != "" {
		readCache = cache.NewRedisCache(cfg.RedisAddr, "easyorder")
	}

	var sender services.CodeSender = services.LogCodeSender{Log: log.Named("otp")}
	a.hub = ws.NewOrderHub(log)
	fanout := services.EventFanout{a.hub}
	if cfg.AMQPURL != "" {
		broker, err := mq.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		if err := broker.DeclareTopology(); err != nil {
			broker.Close()
			return nil, err
		}
		a.broker = broker
		sender = &services.BrokerCodeSender{Broker: broker, Queue: mq.OTPQueue}
		fanout = append(fanout, &services.BrokerPublisher{
			Broker:   broker,
			Exchange: mq.OrdersExchange,
			Log:      log.Named("events"),
		})
	}

	// Services
	issuer := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	views := services.NewOrderReadModel(orderRepo, custRepo, logRepo, readCache, cfg.CacheTTL, log)
	fanout = append(fanout, views)

	tables := services.NewTableRegistry(db, tableRepo, restRepo)
	orders := services.NewOrderService(db, orderRepo, logRepo, tables, menuRepo, fanout,
		services.OrderConfig{Retention: cfg.OrderRetention}, log)
	a.otp = services.NewOTPStore(services.OTPConfig{
		TTL:         cfg.OTPTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
		Debug:       cfg.OTPDebug,
	}, custRepo, sender, issuer, log)
	a.reaper = services.NewOrderReaper(db, orderRepo, tableRepo, fanout, log)

	a.deps = routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		OTP:         a.otp,
		Auth:        services.NewAuthService(staffRepo, issuer),
		Orders:      orders,
		Views:       views,
		Tables:      tables,
		Menu:        services.NewMenuService(menuRepo, restRepo),
		Hub:         a.hub,
		Limiter:     middlewares.NewIPRateLimiter(cfg.OTPRatePerMinute, cfg.OTPRatePerMinute/2),
	}
	return a, nil
}

func (a *app) Close() {
	a.broker.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
