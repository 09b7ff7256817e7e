package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/lordbaah/photodrop/internal/app"
	"github.com/lordbaah/photodrop/internal/config"
	"github.com/lordbaah/photodrop/internal/lambdafn"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/tracing"
)

// settings loads configuration and starts tracing and metrics.
var settings = lambdafn.NewLazy(func(ctx context.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if _, err := tracing.Init(context.Background(), cfg.Tracing); err != nil {
		return config.Config{}, err
	}
	metrics.InitMetrics()
	return cfg, nil
})

// photoHandlers needs Postgres and MinIO.
func photoHandlers() *lambdafn.Lazy[*lambdafn.Handlers] {
	return lambdafn.NewLazy(func(ctx context.Context) (*lambdafn.Handlers, error) {
		cfg, err := settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		p, err := app.BuildPhoto(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &lambdafn.Handlers{Issuer: p.Issuer, Recorder: p.Recorder, Gallery: p.Gallery}, nil
	})
}

// contactHandlers needs only the SMTP relay.
func contactHandlers() *lambdafn.Lazy[*lambdafn.Handlers] {
	return lambdafn.NewLazy(func(ctx context.Context) (*lambdafn.Handlers, error) {
		cfg, err := settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		svc, err := app.BuildContact(cfg)
		if err != nil {
			return nil, err
		}
		return &lambdafn.Handlers{ContactForm: svc}, nil
	})
}

func load(ctx context.Context, l *lambdafn.Lazy[*lambdafn.Handlers]) (*lambdafn.Handlers, error) {
	h, err := l.Get(ctx)
	if err != nil {
		zap.L().Error("initialize handlers", zap.Error(err))
	}
	return h, err
}

type apiHandler func(*lambdafn.Handlers, context.Context, events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error)

func api(l *lambdafn.Lazy[*lambdafn.Handlers], fn apiHandler) func(context.Context, events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
		h, err := load(ctx, l)
		if err != nil {
			return nil, err
		}
		return fn(h, ctx, req)
	}
}

func main() {
	if _, err := logger.Init(); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	switch name := os.Getenv("PHOTODROP_HANDLER"); name {
	case "upload-url":
		lambda.Start(api(photoHandlers(), (*lambdafn.Handlers).UploadURL))
	case "list-photos":
		lambda.Start(api(photoHandlers(), (*lambdafn.Handlers).ListPhotos))
	case "contact":
		lambda.Start(api(contactHandlers(), (*lambdafn.Handlers).Contact))
	case "store-metadata":
		photos := photoHandlers()
		lambda.Start(func(ctx context.Context, ev events.S3Event) error {
			h, err := load(ctx, photos)
			if err != nil {
				return err
			}
			return h.ObjectCreated(ctx, ev)
		})
	default:
		zap.L().Fatal("unknown PHOTODROP_HANDLER", zap.String("handler", name))
	}
}
