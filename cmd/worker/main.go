package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"legaldoc-backend/internal/bootstrap"
	"legaldoc-backend/internal/queue"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/simplify"
)

const defaultRegion = "us-east-1"

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(os.Getenv("LEGALDOC_SQS_QUEUE_URL"))
	if queueURL == "" {
		log.Fatal("LEGALDOC_SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := strings.TrimSpace(os.Getenv("AWS_REGION"))
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	worker := queue.NewWorker(sqs.NewFromConfig(awsCfg), queueURL, func(ctx context.Context, job queue.ProcessJob) error {
		jobCtx := simplify.WithRequestID(ctx, job.RequestID)
		_, err := app.SimplifyService.Process(jobCtx, job.DocumentID, simplify.Options{
			Level:           job.Level,
			Audience:        job.Audience,
			IncludeOriginal: job.IncludeOriginal,
		})
		return err
	})

	log.Printf("worker started queue=%s", queueURL)
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}
	log.Printf("worker stopped")
}
