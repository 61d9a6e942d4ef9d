package config

import (
	"fmt"
	"os"
	"strings"

	godotenv "github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Worker holds the consumer count per render queue.
var Worker = map[string]int{
	"render_queue": 3,
}

type Config struct {
	RabbitMqURL    string
	RabbitMqQueues []string
	AwsBucketName  string
	HistoryDir     string
}

func NewConfig(url string, queueNames []string, bucketName string, historyDir string) *Config {
	return &Config{
		RabbitMqURL:    url,
		RabbitMqQueues: queueNames,
		AwsBucketName:  bucketName,
		HistoryDir:     historyDir,
	}
}

func InitializeEnvs() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working dir: %w", err)
	}
	logrus.Debug("working dir: ", wd)

	switch os.Getenv("APP_ENV") {
	case "docker":
		if err := godotenv.Overload(".env.docker"); err == nil {
			logrus.Info("loaded .env.docker")
		} else {
			logrus.Info(".env.docker not found, using existing environment")
		}
	case "dev", "":
		if err := godotenv.Overload(".env.dev"); err == nil {
			logrus.Info("loaded .env.dev")
		} else if err := godotenv.Overload(".env"); err == nil {
			logrus.Info("loaded .env")
		} else {
			logrus.Info("no .env.dev or .env found, using system environment variables")
		}
	default:
		fname := ".env." + os.Getenv("APP_ENV")
		if err := godotenv.Overload(fname); err == nil {
			logrus.Infof("loaded %s", fname)
		} else if err := godotenv.Overload(".env"); err == nil {
			logrus.Info("loaded .env")
		} else {
			logrus.Infof("no %s or .env found, using system environment variables", fname)
		}
	}

	url := os.Getenv("RABBITMQ_URL")
	queues := os.Getenv("RABBITMQ_QUEUES")
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKeyId := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	awsBucketName := os.Getenv("AWS_BUCKET_NAME")

	if url == "" || queues == "" || awsRegion == "" || awsAccessKeyId == "" || awsSecretAccessKey == "" || awsBucketName == "" {
		return nil, fmt.Errorf("RABBITMQ_URL or RABBITMQ_QUEUES or AWS_REGION or AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY or AWS_BUCKET_NAME is missing")
	}

	historyDir := os.Getenv("HISTORY_DIR")
	if historyDir == "" {
		historyDir = "./history"
	}

	queuesArray := strings.Split(queues, ",")
	for i := range queuesArray {
		queuesArray[i] = strings.TrimSpace(queuesArray[i])
	}
	return NewConfig(url, queuesArray, awsBucketName, historyDir), nil
}
