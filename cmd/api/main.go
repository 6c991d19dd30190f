package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/webembed/coverframe/internal/api"
	"github.com/webembed/coverframe/internal/config"
	"github.com/webembed/coverframe/internal/health"
	"github.com/webembed/coverframe/internal/ingest"
	"github.com/webembed/coverframe/internal/observability"
	"github.com/webembed/coverframe/internal/storage"
)

const (
	ShutdownTimeout       = 30 * time.Second
	TracerShutdownTimeout = 5 * time.Second
	AWSConfigTimeout      = 10 * time.Second
)

func main() {
	// Initialize logger
	log := observability.NewLogger()
	slog.SetDefault(log)

	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize tracer
	shutdownTracer, err := observability.InitTracer(context.Background(),
		"coverframe-api", cfg.Environment, cfg.Observability.OTLPEndpoint)
	if err != nil {
		log.Error("Failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), TracerShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Error("Failed to shutdown tracer", "error", err)
		}
	}()

	// Initialize AWS clients when an AWS-backed store is selected
	var s3Client *s3.Client
	var ddbClient *dynamodb.Client
	if cfg.UsesAWS() {
		ctx, cancel := context.WithTimeout(context.Background(), AWSConfigTimeout)
		defer cancel()

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			log.Error("Failed to load AWS config", "error", err)
			os.Exit(1)
		}
		otelaws.AppendMiddlewares(&awsCfg.APIOptions)

		if cfg.Storage.BlobBackend == config.BlobBackendS3 {
			s3Client = s3.NewFromConfig(awsCfg)
		}
		if cfg.Storage.RecordBackend == config.RecordBackendDynamoDB {
			ddbClient = dynamodb.NewFromConfig(awsCfg)
		}
	}

	// Select the blob store
	var blobs storage.BlobStore
	switch cfg.Storage.BlobBackend {
	case config.BlobBackendS3:
		blobs = storage.NewS3BlobStore(s3Client, cfg.AWS.S3Bucket)
		log.Info("S3 blob store initialized", "bucket", cfg.AWS.S3Bucket)
	case config.BlobBackendFS:
		blobs = storage.NewFSBlobStore(cfg.Storage.BlobDir)
		log.Info("Filesystem blob store initialized", "dir", cfg.Storage.BlobDir)
	}

	// Select the record store
	var records storage.RecordStore
	switch cfg.Storage.RecordBackend {
	case config.RecordBackendDynamoDB:
		records = storage.NewEmbedRepository(ddbClient, cfg.AWS.DynamoDBTable)
		log.Info("DynamoDB record store initialized", "table", cfg.AWS.DynamoDBTable)
	case config.RecordBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		records = storage.NewRedisRecordStore(rdb)
		log.Info("Redis record store initialized", "addr", cfg.Redis.Addr)
	case config.RecordBackendFS:
		records = storage.NewFSRecordStore(cfg.Storage.RecordDir)
		log.Info("Filesystem record store initialized", "dir", cfg.Storage.RecordDir)
	}

	// Build the ingestion pipeline
	pipeline := ingest.NewPipeline(&ingest.PipelineConfig{
		Blobs:     blobs,
		Records:   records,
		Fetcher:   ingest.NewFetcher(cfg.Ingest.FetchTimeout, cfg.Ingest.MaxThumbnailBytes),
		KeyPrefix: cfg.Storage.BlobKeyPrefix,
		Logger:    log,
	})

	// Initialize health checker
	healthConfig := health.DefaultConfig("coverframe-api", log)
	if s3Client != nil {
		healthConfig.S3Client = s3Client
		healthConfig.S3Bucket = cfg.AWS.S3Bucket
	}
	if ddbClient != nil {
		healthConfig.DynamoDBClient = ddbClient
		healthConfig.DynamoDBTable = cfg.AWS.DynamoDBTable
	}
	healthChecker := health.NewChecker(healthConfig)

	// Create and start server
	server := api.NewServer(&api.ServerConfig{
		Config:        cfg,
		Logger:        log,
		Pipeline:      pipeline,
		Blobs:         blobs,
		Records:       records,
		HealthChecker: healthChecker,
	})

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("Server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server shutdown complete")
}
