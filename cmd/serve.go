package cmd

import (
	"context"
	"log"

	"github.com/barefootnomad/api/config"
	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/mailingservices"
	"github.com/barefootnomad/api/server"
	"github.com/barefootnomad/api/services"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	gormDB := db.GetDB(conf)
	s, err := NewServer(context.Background(), conf, gormDB)
	if err != nil {
		return err
	}
	s.OnShutdown = append(s.OnShutdown, func() {
		if err := gormDB.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	})
	return s.Start()
}

// NewServer wires repositories, services and the event bus subscribers.
// Optional integrations (mail, S3, NATS) are only attached when configured.
func NewServer(ctx context.Context, conf *config.Config, gormDB *db.GormDB) (*server.Server, error) {
	authRepo := db.NewAuthRepo(gormDB)
	requestRepo := db.NewRequestRepo(gormDB)
	commentRepo := db.NewCommentRepo(gormDB)
	accommodationRepo := db.NewAccommodationRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)

	bus := events.NewEmitter()
	hub := services.NewHub()
	s := &server.Server{Config: conf, AuthRepository: authRepo, Hub: hub}

	notificationService := services.NewNotificationService(notificationRepo, requestRepo, hub)
	notificationService.Subscribe(bus)

	var mailer mailingservices.Mailer
	if mg := mailingservices.NewMailgun(conf); mg != nil {
		mailer = mg
		notifier := services.NewMailNotifier(mg, authRepo, requestRepo)
		notifier.Subscribe(bus)
		s.OnShutdown = append(s.OnShutdown, notifier.Wait)
	}

	var storage services.AvatarStorage
	if conf.StorageEnabled() {
		s3Storage, err := services.NewS3Storage(ctx, conf)
		if err != nil {
			return nil, err
		}
		storage = s3Storage
	}

	if conf.NatsURL != "" {
		conn, err := services.ConnectNATS(conf.NatsURL)
		if err != nil {
			return nil, err
		}
		services.NewNATSForwarder(conn, conf.NatsSubjectPrefix).Subscribe(bus)
		s.OnShutdown = append(s.OnShutdown, func() {
			if err := conn.Drain(); err != nil {
				log.Printf("drain nats: %v", err)
			}
		})
	}

	s.AuthService = services.NewAuthService(authRepo, conf, mailer, storage)
	s.CommentService = services.NewCommentService(requestRepo, commentRepo, bus)
	s.RequestService = services.NewRequestService(requestRepo, accommodationRepo, bus)
	s.AccommodationService = services.NewAccommodationService(accommodationRepo)
	s.NotificationService = notificationService
	return s, nil
}
