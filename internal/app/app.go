// Package app connects the configured backends to the photo and contact services.
// Both the HTTP server and the Lambda entrypoints build through here.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/config"
	"github.com/lordbaah/photodrop/internal/contact"
	"github.com/lordbaah/photodrop/internal/photo"
	"github.com/lordbaah/photodrop/internal/presigned"
	"github.com/lordbaah/photodrop/internal/storage"
)

// Photo holds the Postgres and MinIO clients and the photo services built on them.
type Photo struct {
	DB          *pgxpool.Pool
	ObjectStore *minio.Client

	Issuer   *photo.Issuer
	Recorder *photo.Recorder
	Gallery  *photo.Gallery
}

// App is everything the HTTP server mounts.
type App struct {
	*Photo
	Contact *contact.Service
}

// Build constructs the contact service and the photo services. Callers must
// Close the result.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	contactSvc, err := BuildContact(cfg)
	if err != nil {
		return nil, err
	}
	p, err := BuildPhoto(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &App{Photo: p, Contact: contactSvc}, nil
}

// BuildPhoto connects to Postgres and MinIO, applies migrations when enabled
// and constructs the upload, recording and gallery services.
func BuildPhoto(ctx context.Context, cfg config.Config) (*Photo, error) {
	log := zap.L()

	if cfg.Postgres.AutoMigrate {
		if err := storage.Migrate(cfg.Postgres.DSN()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrations applied")
	}

	pool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect minio: %w", err)
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	if cfg.MinIO.NotifyQueueARN != "" {
		err := storage.EnableUploadNotifications(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.UploadPrefix, cfg.MinIO.NotifyQueueARN)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("enable upload notifications: %w", err)
		}
		log.Info("upload notifications enabled",
			zap.String("bucket", cfg.MinIO.Bucket),
			zap.String("prefix", cfg.MinIO.UploadPrefix),
		)
	}

	signer := presigned.NewService(minioClient, cfg.Pipeline.ObjectStoreTimeout)
	repo := photo.NewRepository(pool, cfg.Pipeline.StoreTimeout)

	return &Photo{
		DB:          pool,
		ObjectStore: minioClient,
		Issuer:      photo.NewIssuer(signer, cfg.MinIO.Bucket, cfg.MinIO.UploadPrefix, cfg.MinIO.UploadURLTTL),
		Recorder:    photo.NewRecorder(repo, cfg.MinIO.UploadPrefix, cfg.Pipeline.RecordConcurrency),
		Gallery: photo.NewGallery(repo, signer, photo.GalleryOptions{
			DefaultBucket: cfg.MinIO.Bucket,
			ViewURLTTL:    cfg.MinIO.ViewURLTTL,
			DefaultLimit:  cfg.Pipeline.DefaultListLimit,
			MaxLimit:      cfg.Pipeline.MaxListLimit,
			Concurrency:   cfg.Pipeline.URLConcurrency,
		}),
	}, nil
}

// BuildContact constructs the contact form service. It needs only the mail
// settings and opens no connections.
func BuildContact(cfg config.Config) (*contact.Service, error) {
	mailer, err := contact.NewSMTPMailer(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("create mailer: %w", err)
	}
	return contact.NewService(mailer, cfg.Mail.From, cfg.Mail.To), nil
}

// Close releases the database pool.
func (p *Photo) Close() {
	if p != nil && p.DB != nil {
		p.DB.Close()
	}
}
