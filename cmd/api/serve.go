package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/xavierca1/maria-crm/internal/config"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/database"
	"github.com/xavierca1/maria-crm/internal/infra/http/handlers"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/infra/mail"
	"github.com/xavierca1/maria-crm/internal/infra/queue"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var mq *queue.RabbitMQ
	if cfg.MessagingEnabled() {
		mq, err = queue.NewRabbitMQ(ctx, cfg.RabbitMQURL, cfg.DBConnectAttempts, cfg.DBConnectBackoff)
		if err != nil {
			return err
		}
		defer mq.Close()
		log.Printf("✅ [QUEUE] connected, topology %s -> %s declared", queue.ExchangeName, queue.QueueName)
	} else {
		log.Printf("⚠️ [QUEUE] RABBITMQ_URL not set, ticket replies are logged as manual")
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	contactRepo := database.NewContactRepository(db)
	dealRepo := database.NewDealRepository(db)
	stageRepo := database.NewStageRepository(db)
	activityRepo := database.NewActivityRepository(db)
	ticketRepo := database.NewTicketRepository(db)
	projectRepo := database.NewProjectRepository(db)
	userRepo := database.NewUserRepository(db)
	auditRepo := database.NewAuditLogRepository(db)
	integrationRepo := database.NewIntegrationLogRepository(db)
	txManager := database.NewTxManager(db)

	// 2. Messaging
	var publisher entity.OutboundPublisher
	var broker handlers.BrokerConn
	if mq != nil {
		publisher = queue.NewProducer(mq.Ch)
		broker = mq.Conn

		if err := startWorker(ctx, cfg, mq, integrationRepo); err != nil {
			return err
		}
	}

	// 3. Use cases
	loc := cfg.Location()
	entity.SetDateTimeLocation(loc)
	clock := usecase.Clock(func() time.Time { return time.Now().In(loc) })

	convertUC := usecase.NewConvertLeadUseCase(txManager)
	convertUC.Now = clock
	moveUC := usecase.NewMoveDealStageUseCase(txManager)
	moveUC.Now = clock
	createDealUC := usecase.NewCreateDealUseCase(txManager)
	createDealUC.Now = clock

	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo)
	importUC := usecase.NewImportContactsUseCase(contactRepo, auditRepo)
	commentUC := usecase.NewAddTicketCommentUseCase(ticketRepo, integrationRepo, publisher)
	catalog := usecase.NewStageCatalog(stageRepo)
	createUserUC := usecase.NewCreateUserUseCase(userRepo, auditRepo)
	updateUserUC := usecase.NewUpdateUserUseCase(userRepo, auditRepo)

	if def, err := catalog.DefaultStage(ctx); err != nil {
		log.Printf("⚠️ [PIPELINE] %v, lead conversion will fail until stages exist", err)
	} else {
		log.Printf("✅ [PIPELINE] default stage %q (id %d)", def.Name, def.ID)
	}

	// 4. Handlers + router
	router := newRouter(ctx, routerDeps{
		AllowedOrigins: cfg.AllowedOrigins,
		AuthUserHeader: cfg.AuthUserHeader,
		RatePerMinute:  cfg.RateLimitPerMinute,
		Users:          userRepo,

		Health:    handlers.NewHealthHandler(db, broker),
		UserH:     handlers.NewUserHandler(userRepo, createUserUC, updateUserUC),
		LeadH:     handlers.NewLeadHandler(leadRepo, updateLeadUC, convertUC),
		ContactH:  handlers.NewContactHandler(contactRepo, importUC),
		DealH:     handlers.NewDealHandler(dealRepo, catalog, createDealUC, moveUC),
		ActivityH: handlers.NewActivityHandler(activityRepo),
		TicketH:   handlers.NewTicketHandler(ticketRepo, commentUC),
		ProjectH:  handlers.NewProjectHandler(projectRepo),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🔥 [HTTP] Maria CRM API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("🛑 [HTTP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// startWorker consumes q.outbound on its own channel. Without SMTP settings
// messages stay queued until a configured instance picks them up.
func startWorker(ctx context.Context, cfg *config.Config, mq *queue.RabbitMQ, integrations entity.IntegrationLogRepositoryInterface) error {
	if !cfg.MailEnabled() {
		log.Printf("⚠️ [WORKER] MAIL_HOST not set, outbound worker not started")
		return nil
	}

	ch, err := mq.Conn.Channel()
	if err != nil {
		return fmt.Errorf("opening worker channel: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("setting worker prefetch: %w", err)
	}

	sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	worker := queue.NewWorker(ch, sender, integrations)
	worker.OnResult = middleware.RecordOutboundMessage

	go func() {
		if err := worker.Start(ctx); err != nil {
			log.Printf("❌ [WORKER] stopped: %v", err)
		}
	}()
	return nil
}
