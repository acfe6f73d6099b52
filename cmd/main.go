package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sksmith/bunnyq"

	"github.com/atelierware/backoffice/api"
	"github.com/atelierware/backoffice/config"
	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/core/order"
	"github.com/atelierware/backoffice/core/user"
	"github.com/atelierware/backoffice/db"
	"github.com/atelierware/backoffice/db/bookingrepo"
	"github.com/atelierware/backoffice/db/ledgerrepo"
	"github.com/atelierware/backoffice/db/orderrepo"
	"github.com/atelierware/backoffice/db/usrrepo"
	"github.com/atelierware/backoffice/queue"

	"github.com/common-nighthawk/go-figure"
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := config.Load()

	configLogging(cfg)
	printLogHeader(cfg)
	cfg.Print()

	dbPool := configDatabase(ctx, cfg)
	bq := rabbit(cfg)

	log.Info().Msg("creating stock ledger service...")
	lr := ledgerrepo.NewPostgresRepo(dbPool)
	ledgerService := ledger.NewService(lr, stockQueue(bq, cfg))

	log.Info().Msg("creating order service...")
	or := orderrepo.NewPostgresRepo(dbPool)
	orderService := order.NewService(or, ledgerService, orderQueue(bq, cfg))

	log.Info().Msg("creating booking service...")
	br := bookingrepo.NewPostgresRepo(dbPool)
	bookingService := booking.NewService(br, bookingQueue(bq, cfg), cfg.Booking.DefaultSlotCapacity)

	log.Info().Msg("creating user service...")
	ur := usrrepo.NewPostgresRepo(dbPool)
	userService := user.NewService(ur)

	log.Info().Msg("configuring metrics...")
	api.ConfigureMetrics()

	log.Info().Msg("configuring router...")
	r := api.ConfigureRouter(cfg, ledgerService, orderService, bookingService, bookingService, userService)

	if !cfg.RabbitMQ.Mock {
		log.Info().Msg("consuming restock requests...")
		restockQueue := queue.NewRestockQueue(bq, cfg.RabbitMQ.Restock.Queue, cfg.RabbitMQ.Restock.Dlt.Exchange)
		go restockQueue.ConsumeRestocks(ctx, ledgerService)
	}

	log.Info().Str("port", cfg.Port).Msg("listening")
	log.Fatal().Err(http.ListenAndServe(":"+cfg.Port, r)).Send()
}

func stockQueue(bq *bunnyq.BunnyQ, cfg *config.Config) ledger.Queue {
	if cfg.RabbitMQ.Mock {
		log.Info().Msg("creating mock stock queue...")
		return queue.NewMockQueue()
	}
	return queue.NewStockQueue(bq, cfg.RabbitMQ.Stock.Exchange)
}

func orderQueue(bq *bunnyq.BunnyQ, cfg *config.Config) order.Queue {
	if cfg.RabbitMQ.Mock {
		log.Info().Msg("creating mock order queue...")
		return queue.NewMockQueue()
	}
	return queue.NewOrderQueue(bq, cfg.RabbitMQ.Order.Exchange)
}

func bookingQueue(bq *bunnyq.BunnyQ, cfg *config.Config) booking.Queue {
	if cfg.RabbitMQ.Mock {
		log.Info().Msg("creating mock booking queue...")
		return queue.NewMockQueue()
	}
	return queue.NewBookingQueue(bq, cfg.RabbitMQ.Booking.Exchange)
}

func rabbit(cfg *config.Config) *bunnyq.BunnyQ {
	if cfg.RabbitMQ.Mock {
		return nil
	}

	log.Info().Msg("connecting to rabbitmq...")

	osChannel := make(chan os.Signal, 1)
	signal.Notify(osChannel, syscall.SIGTERM)

	return bunnyq.New(context.Background(),
		bunnyq.Address{
			User: cfg.RabbitMQ.User,
			Pass: cfg.RabbitMQ.Pass,
			Host: cfg.RabbitMQ.Host,
			Port: cfg.RabbitMQ.Port,
		},
		osChannel,
		bunnyq.LogHandler(queueLogger{}),
	)
}

type queueLogger struct {
}

func (l queueLogger) Log(_ context.Context, level bunnyq.LogLevel, msg string, data map[string]interface{}) {
	var evt *zerolog.Event
	switch level {
	case bunnyq.LogLevelTrace:
		evt = log.Trace()
	case bunnyq.LogLevelDebug:
		evt = log.Debug()
	case bunnyq.LogLevelInfo:
		evt = log.Info()
	case bunnyq.LogLevelWarn:
		evt = log.Warn()
	case bunnyq.LogLevelError:
		evt = log.Error()
	case bunnyq.LogLevelNone:
		evt = log.Info()
	default:
		evt = log.Info()
	}

	for k, v := range data {
		evt.Interface(k, v)
	}

	evt.Msg(msg)
}

func printLogHeader(cfg *config.Config) {
	if cfg.Log.Structured {
		log.Info().Str("application", cfg.AppName).
			Str("revision", cfg.Revision).
			Str("version", cfg.AppVersion).
			Str("sha1ver", cfg.Sha1Version).
			Str("build-time", cfg.BuildTime).
			Str("profile", cfg.Profile).
			Str("config-source", cfg.Config.Source).
			Str("config-branch", cfg.Config.Spring.Branch).
			Send()
	} else {
		f := figure.NewFigure(cfg.AppName, "", true)
		f.Print()

		log.Info().Msg("=============================================")
		log.Info().Msg(fmt.Sprintf("       Revision: %s", cfg.Revision))
		log.Info().Msg(fmt.Sprintf("        Profile: %s", cfg.Profile))
		log.Info().Msg(fmt.Sprintf("  Config Server: %s - %s", cfg.Config.Source, cfg.Config.Spring.Branch))
		log.Info().Msg(fmt.Sprintf("    Tag Version: %s", cfg.AppVersion))
		log.Info().Msg(fmt.Sprintf("   Sha1 Version: %s", cfg.Sha1Version))
		log.Info().Msg(fmt.Sprintf("     Build Time: %s", cfg.BuildTime))
		log.Info().Msg("=============================================")
	}
}

func configDatabase(ctx context.Context, cfg *config.Config) (dbPool *pgxpool.Pool) {
	log.Info().Str("host", cfg.Db.Host).Str("name", cfg.Db.Name).Msg("connecting to the database...")
	var err error

	if cfg.Db.Migrate {
		log.Info().Msg("executing migrations")

		if err = db.RunMigrations(
			cfg.Db.Host,
			cfg.Db.Name,
			cfg.Db.Port,
			cfg.Db.User,
			cfg.Db.Pass,
			cfg.Db.Clean); err != nil {
			log.Warn().Err(err).Msg("error executing migrations")
		}
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		cfg.Db.Host, cfg.Db.Port, cfg.Db.User, cfg.Db.Pass, cfg.Db.Name)

	for {
		dbPool, err = db.ConnectDb(ctx, connStr, db.MinPoolConns(10), db.MaxPoolConns(50))
		if err != nil {
			log.Error().Err(err).Msg("failed to create connection pool... retrying")
			time.Sleep(1 * time.Second)
			continue
		}
		break
	}

	return dbPool
}

func configLogging(cfg *config.Config) {
	log.Info().Msg("configuring logging...")

	if !cfg.Log.Structured {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("loglevel", cfg.Log.Level).Err(err).Msg("defaulting to info")
		level = zerolog.InfoLevel
	}
	log.Info().Str("loglevel", level.String()).Msg("setting log level")
	zerolog.SetGlobalLevel(level)
}
