package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/logger"
	"github.com/iliyamo/rental-booking/internal/occupancy"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/reminder"
	"github.com/iliyamo/rental-booking/internal/repository"
	"github.com/iliyamo/rental-booking/internal/router"
	"github.com/iliyamo/rental-booking/internal/scheduler"
	"github.com/iliyamo/rental-booking/internal/service"
)

func main() {
	logger.Init("rental-booking")
	cfg := config.Load()
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	props, err := config.LoadProperties(cfg.PropertiesFile)
	if err != nil {
		log.WithError(err).Fatal("load properties")
	}

	rdb := config.NewRedisClient()
	backend, err := openBackend(ctx, cfg, rdb)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.StoreBackend).Fatal("open store")
	}

	store := repository.NewReservationStore(backend)
	if err := store.Load(ctx); err != nil {
		log.WithError(err).Fatal("load reservations")
	}
	ledger := repository.NewReminderLedger(backend)
	if err := ledger.Load(ctx); err != nil {
		log.WithError(err).Fatal("load reminder ledger")
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		publisher = queue.NewAMQPPublisher(cfg.BrokerURL)
		go func() {
			if err := queue.StartEventConsumer(ctx, cfg.BrokerURL, queue.EventLog{Dir: cfg.LogDir}); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("event consumer stopped")
			}
		}()
	}

	bookings := service.NewBookingService(store, props, service.Options{
		Publisher: publisher,
		Location:  cfg.Location,
	})
	reminders := reminder.NewService(store, ledger, reminder.Options{
		Properties: props,
		Publisher:  publisher,
		Location:   cfg.Location,
	})

	job := scheduler.NewReminderJob(reminders)
	sched, err := scheduler.Start(cfg.ReminderInterval, job)
	if err != nil {
		log.WithError(err).Fatal("start reminder scheduler")
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		JWTSecret:    cfg.JWTSecret,
		Auth:         handler.NewAuthHandler(cfg.JWTSecret, cfg.OwnerPasswordHash, cfg.AccessTTLMin),
		Reservations: handler.NewReservationHandler(bookings),
		Calendar:     handler.NewCalendarHandler(bookings, occupancy.HolidayCalendar(cfg.HolidayCalendar), cfg.OccupancyWindowDays),
		Reminders:    handler.NewReminderHandler(reminders, job),
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{
			"addr":       addr,
			"env":        cfg.Env,
			"backend":    cfg.StoreBackend,
			"properties": len(props),
		}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := sched.Shutdown(); err != nil {
		log.WithError(err).Warn("scheduler shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
