package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/scanbill/go-workers/config"
	"github.com/scanbill/go-workers/internal/aws"
	"github.com/scanbill/go-workers/internal/history"
	"github.com/scanbill/go-workers/internal/queue"
	"github.com/scanbill/go-workers/internal/utils"
	"github.com/sirupsen/logrus"
)

type App struct {
	config          *config.Config
	rabbitMqConn    *amqp.Connection
	s3Service       *aws.S3Service
	rabbitMqService *queue.RabbitMqService
}

// NewApp creates and initializes a new App instance with all dependencies
func NewApp(ctx context.Context) (*App, error) {
	envConfig, err := config.InitializeEnvs()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize environment config: %w", err)
	}

	awsConfig, err := config.InitializeAws(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS config: %w", err)
	}

	s3Client := aws.NewS3Client(awsConfig)

	// Scratch paths relative to the working directory
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("couldn't get working directory: %w", err)
	}
	downloadPath := filepath.Join(dir, "images")
	uploadPath := filepath.Join(dir, "images")

	s3Service := aws.NewS3Service(s3Client, envConfig.AwsBucketName, downloadPath, uploadPath)

	historyStore := history.NewStore(envConfig.HistoryDir)

	conn, err := utils.NewRabbitMQClient(envConfig.RabbitMqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	rabbitMqService := queue.NewRabbitMqService(s3Service, conn, envConfig, historyStore)

	return &App{
		config:          envConfig,
		rabbitMqConn:    conn,
		s3Service:       s3Service,
		rabbitMqService: rabbitMqService,
	}, nil
}

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	ctx := context.Background()

	app, err := NewApp(ctx)
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}

	logrus.Info("application initialized successfully")

	if err := app.rabbitMqService.Start(app.rabbitMqConn, ctx); err != nil {
		logrus.Fatalf("failed to start application: %v", err)
	}
}
