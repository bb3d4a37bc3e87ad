package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Carune/Ticket-Service-Practice/config"
	delivery "github.com/Carune/Ticket-Service-Practice/internal/delivery/http"
	"github.com/Carune/Ticket-Service-Practice/internal/delivery/kafka/producer"
	"github.com/Carune/Ticket-Service-Practice/internal/infra/mysql"
	"github.com/Carune/Ticket-Service-Practice/internal/infra/redis"
	mysqlRepo "github.com/Carune/Ticket-Service-Practice/internal/repository/mysql"
	redisRepo "github.com/Carune/Ticket-Service-Practice/internal/repository/redis"
	"github.com/Carune/Ticket-Service-Practice/internal/service"
	pkgKafka "github.com/Carune/Ticket-Service-Practice/pkg/kafka"
	pkgLog "github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	redisCli, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer redis.Disconnect(redisCli)

	db, err := mysql.Connect(ctx, cfg.MySQL)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to MySQL: %v", err)
	}
	defer mysql.Disconnect(db)

	qRepo := redisRepo.NewRedisQueueRepository(redisCli, l)
	ssRepo := redisRepo.NewRedisSessionRepository(redisCli, l)
	memberRepo := mysqlRepo.NewMySQLMemberRepository(db, l)
	concertRepo := mysqlRepo.NewMySQLConcertRepository(db, l)
	seatRepo := mysqlRepo.NewMySQLSeatRepository(db, l)
	ticketRepo := mysqlRepo.NewMySQLTicketRepository(db, l)

	// The producer is optional: a local deployment without brokers still
	// serves traffic, it just publishes no events.
	var prod producer.Producer
	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewProducer(ctx, pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		}, l)
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		defer func() {
			if kafkaSyncProd != nil {
				kafkaSyncProd.Close()
			}
		}()

		prod = producer.NewProducer(kafkaSyncProd, l)
	}

	authSvc := service.NewAuthService(memberRepo, cfg.JWT, l)
	queueSvc := service.NewQueueService(qRepo, ssRepo, prod, cfg.Queue, l)
	concertSvc := service.NewConcertService(concertRepo, seatRepo, l)
	reservationSvc := service.NewReservationService(seatRepo, ticketRepo, prod, l)
	scheduler := service.NewScheduler(queueSvc, cfg.Queue, l)

	h := delivery.NewHandler(authSvc, queueSvc, concertSvc, reservationSvc, scheduler, l)
	router := delivery.NewRouter(h, authSvc, queueSvc, l)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if err := scheduler.Start(ctx); err != nil {
		l.Fatalf(ctx, "Failed to start queue scheduler: %v", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		l.Info(ctx, "Server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := scheduler.Stop(); err != nil {
			l.Errorf(ctx, "Failed to stop queue scheduler: %v", err)
		}

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Fatalf(ctx, "Server error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
