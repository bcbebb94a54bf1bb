package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/AutomationAlchemyst/balangconnect/configs"
	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/cache"
	httpapi "github.com/AutomationAlchemyst/balangconnect/internal/adapter/http"
	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/mail"
	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/queue"
	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/repo"
	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/AutomationAlchemyst/balangconnect/internal/checkout"
	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	log := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	log.Info("balang-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// mail worker consumes order.created
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.SMTP.To,
	})
	setupMailWorker(ch, mailer)

	// catalog: first read at startup, periodic refresh after
	bgCtx, stopBg := context.WithCancel(context.Background())
	catClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.FetchTimeout)
	catCache := cache.NewRedisCatalogCache(rdb, cfg.Catalog.CacheTTL)
	catSvc := catalog.NewService(catClient, catCache, logging.New("catalog"))
	if err := catSvc.Refresh(bgCtx); err != nil {
		// storefront starts with an empty catalog; refresh keeps trying
		log.Warn("initial catalog load failed", "error", err)
	}
	go catSvc.Run(bgCtx, cfg.Catalog.RefreshInterval)

	// intake side
	orderRepo := repo.NewMySQLOrderRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	createUC := usecase.NewCreateOrder(orderRepo, idem, producer)
	oh := httpapi.NewOrderHandler(createUC, orderRepo)

	// storefront side
	policy := pricing.OverflowSeparate
	if cfg.Checkout.MergeOverflow {
		policy = pricing.OverflowMerge
	}
	sessions := cart.NewSessions()
	intakeClient := checkout.NewClient(cfg.Checkout.IntakeURL, cfg.Checkout.SubmitTimeout)
	pipelines := checkout.NewPipelines(intakeClient)
	ch2 := httpapi.NewCartHandler(sessions, pipelines, catSvc, policy)
	cath := httpapi.NewCatalogHandler(catSvc)

	router := httpapi.NewRouter(oh, ch2, cath)

	cleanup := func() {
		stopBg()
		_ = db.Close()
		_ = rdb.Close()
		_ = ch.Close()
		_ = conn.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupMailWorker(ch *amqp091.Channel, mailer queue.Mailer) {
	h := queue.NewOrderCreatedHandler(mailer)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.QueueName, queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: h.HandleCreated})

	if err := router.Start(); err != nil {
		panic(err)
	}
}
