package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/scanbill/go-workers/config"
	"github.com/scanbill/go-workers/internal/aws"
	"github.com/scanbill/go-workers/internal/history"
	queueErrors "github.com/scanbill/go-workers/internal/queue/errors"
	"github.com/scanbill/go-workers/internal/queue/handlers"
	"github.com/scanbill/go-workers/internal/queue/models"
	"github.com/scanbill/go-workers/internal/types"
	"github.com/scanbill/go-workers/internal/utils"
	"github.com/sirupsen/logrus"
)

type RabbitMqService struct {
	s3Service          *aws.S3Service
	config             *config.Config
	rabbitMqConn       *amqp.Connection
	statusQueueChannel *amqp.Channel
	renderHandler      *handlers.RenderHandler
	historyStore       *history.Store
}

func NewRabbitMqService(s3Service *aws.S3Service, rabbitMqConn *amqp.Connection, config *config.Config, historyStore *history.Store) *RabbitMqService {
	return &RabbitMqService{
		s3Service:     s3Service,
		rabbitMqConn:  rabbitMqConn,
		config:        config,
		renderHandler: handlers.NewRenderHandler(s3Service),
		historyStore:  historyStore,
	}
}

func (rabbitMqService *RabbitMqService) declareExchange() error {
	if rabbitMqService.statusQueueChannel == nil {
		return fmt.Errorf("statusQueueChannel is nil, cannot declare exchange")
	}
	err := rabbitMqService.statusQueueChannel.ExchangeDeclare(
		"image_render",
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("error while declaring an exchange: %w", err)
	}
	return nil
}

func (rabbitMqService *RabbitMqService) fireBackgroundCleanup(parentCtx context.Context, downloadPath, uploadPath, s3Key, cleanupMode string) {
	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, 90*time.Second)
		defer cancel()

		switch cleanupMode {
		case "delete_s3":
			utils.DeleteS3Object(ctx, rabbitMqService.s3Service, s3Key)
		case "remove_local_and_delete_s3":
			if err := utils.RemoveLocalRaw(downloadPath, s3Key); err != nil {
				logrus.Warnf("[bg-cleanup] error while removing local raw file: %v", err)
			}
			utils.DeleteS3Object(ctx, rabbitMqService.s3Service, s3Key)
		case "remove_local_all_and_delete_s3":
			if err := utils.RemoveLocalRaw(downloadPath, s3Key); err != nil {
				logrus.Warnf("[bg-cleanup] error while removing local raw file: %v", err)
			}
			if err := utils.RemoveLocalRendered(uploadPath, s3Key); err != nil {
				logrus.Warnf("[bg-cleanup] error while removing local rendered file: %v", err)
			}
			utils.DeleteS3Object(ctx, rabbitMqService.s3Service, s3Key)
		case "cleanup_all":
			utils.CleanupAll(ctx, rabbitMqService.s3Service, downloadPath, uploadPath, s3Key)
		default:
			utils.DeleteS3Object(ctx, rabbitMqService.s3Service, s3Key)
		}
	}()
}

func (rabbitMqService *RabbitMqService) PublishToChannelHelper(ctx context.Context, id string, userId string, status string, publicUrl string, errorMsg string) error {
	statusData := utils.InitStatusData(id, userId, status, publicUrl, errorMsg)
	statusMessage := utils.InitStatusMessage(statusData)
	logrus.WithField("status", status).Debugf("publishing status message: %+v", statusMessage)
	if err := rabbitMqService.PublishToChannel(ctx, statusMessage); err != nil {
		if utils.IsFatalError(err) {
			return fmt.Errorf("fatal: cannot publish render status: %w", err)
		}
		logrus.Warnf("failed to publish status: %v", err)
	}
	return nil
}

func (rabbitMqService *RabbitMqService) PublishToChannel(ctx context.Context, message interface{}) error {
	if rabbitMqService.statusQueueChannel == nil {
		return fmt.Errorf("statusQueueChannel is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	serializedMessage, err := utils.SerializeJSON(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	err = rabbitMqService.statusQueueChannel.PublishWithContext(ctx,
		"image_render",
		"status",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        serializedMessage,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (rabbitMqService *RabbitMqService) ProcessMessage(ctx context.Context, d amqp.Delivery) error {
	status := types.PROCESSING
	_, downloadPath, uploadPath := rabbitMqService.s3Service.GetDependencyData()
	var publicUrl, errorMsg = "", ""

	var renderMessage *models.RenderMessage
	if err := utils.ParseJSON(d.Body, &renderMessage); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	job := renderMessage.Data
	logrus.WithFields(logrus.Fields{
		"pattern": renderMessage.Pattern,
		"job":     job.Id,
		"key":     job.S3RawKey,
	}).Info("processing render job")

	if err := rabbitMqService.PublishToChannelHelper(ctx, job.Id, job.UserId, status, publicUrl, errorMsg); err != nil {
		return err
	}

	// Download from S3
	var downloadErr error
	for i := 0; i < 3; i++ {
		downloadErr = rabbitMqService.s3Service.DownloadFromS3Object(ctx, job.S3RawKey)
		if downloadErr == nil {
			break
		}
		logrus.Warnf("attempt %d: error while downloading S3 object: %v", i+1, downloadErr)
		if i < 2 {
			time.Sleep(2 * time.Second)
		}
	}

	if downloadErr != nil {
		errorMsg = queueErrors.ErrDownload
		status = types.FAILED
		if err := rabbitMqService.PublishToChannelHelper(ctx, job.Id, job.UserId, status, publicUrl, errorMsg); err != nil {
			return err
		}

		rabbitMqService.fireBackgroundCleanup(ctx, downloadPath, uploadPath, job.S3RawKey, "delete_s3")
		return models.ProcessingError{Err: fmt.Errorf("download failed for key %s: %w", job.S3RawKey, downloadErr), Requeue: false}
	}

	// Render
	renderedKey, err := rabbitMqService.renderHandler.RenderImage(job)
	if err != nil {
		logrus.Errorf("render failed: %v", err)
		errorMsg = queueErrors.ErrRender
		status = types.FAILED
		if err := rabbitMqService.PublishToChannelHelper(ctx, job.Id, job.UserId, status, publicUrl, errorMsg); err != nil {
			return err
		}

		rabbitMqService.fireBackgroundCleanup(ctx, downloadPath, uploadPath, job.S3RawKey, "remove_local_and_delete_s3")
		return models.ProcessingError{Err: fmt.Errorf("render failed for key %s: %w", job.S3RawKey, err), Requeue: false}
	}

	// Upload to S3
	var uploadErr error
	for i := 0; i < 3; i++ {
		publicUrl, uploadErr = rabbitMqService.s3Service.UploadtoS3Object(ctx, renderedKey)
		if uploadErr == nil {
			break
		}
		logrus.Warnf("attempt %d: error while uploading rendered image: %v", i+1, uploadErr)
		if i < 2 {
			time.Sleep(2 * time.Second)
		}
	}

	if uploadErr != nil {
		errorMsg = queueErrors.ErrUpload
		status = types.FAILED
		if err := rabbitMqService.PublishToChannelHelper(ctx, job.Id, job.UserId, status, publicUrl, errorMsg); err != nil {
			return err
		}

		rabbitMqService.fireBackgroundCleanup(ctx, downloadPath, uploadPath, job.S3RawKey, "remove_local_all_and_delete_s3")
		return models.ProcessingError{Err: fmt.Errorf("upload failed for key %s: %w", renderedKey, uploadErr), Requeue: false}
	}

	// Mark as processed
	status = types.PROCESSED
	if err := rabbitMqService.PublishToChannelHelper(ctx, job.Id, job.UserId, status, publicUrl, errorMsg); err != nil {
		return err
	}

	// Record the finished render in the local scan history. History is a
	// convenience, not part of the job contract, so a failure only warns.
	if rabbitMqService.historyStore != nil {
		if err := rabbitMqService.historyStore.Add(history.Entry{ID: job.Id, SourceImage: publicUrl}); err != nil {
			logrus.Warnf("failed to record render in history: %v", err)
		}
	}

	rabbitMqService.fireBackgroundCleanup(ctx, downloadPath, uploadPath, job.S3RawKey, "cleanup_all")
	return nil
}

func (rabbitMqService *RabbitMqService) Start(conn *amqp.Connection, ctx context.Context) error {
	for _, queueName := range rabbitMqService.config.RabbitMqQueues {
		q := queueName

		ch, err := utils.NewChannel(conn)
		if err != nil {
			conn.Close()
			logrus.Fatal("failed to open RabbitMQ channel: ", err)
		}

		_, err = utils.NewQueue(ch, queueName)
		if err != nil {
			ch.Close()
			conn.Close()
			logrus.Fatalf("failed to declare %s: %v", queueName, err)
		}
		logrus.Infof("[%s] declared", queueName)
		if q == "status_queue" {
			rabbitMqService.statusQueueChannel = ch
			if err = rabbitMqService.declareExchange(); err != nil {
				logrus.Fatalf("failed to declare exchange: %v", err)
			}
			err = ch.QueueBind(
				"status_queue",
				"status",
				"image_render",
				false,
				nil,
			)
			if err != nil {
				logrus.Fatalf("failed to bind status queue: %v", err)
			}
			logrus.Info("status queue bound, skipping consumer")
			continue
		}

		ch.Close()

		count, ok := config.Worker[queueName]
		if !ok {
			logrus.Warnf("could not get worker count for [%s]", queueName)
			count = 1
		}
		for i := 0; i < count; i++ {
			logrus.Infof("[%s] started: worker no %d", queueName, i+1)
			go func(queueName string) {
				var consumerCh *amqp.Channel
				defer func() {
					if consumerCh != nil {
						consumerCh.Close()
					}
				}()

				for {
					select {
					case <-ctx.Done():
						logrus.Infof("[%s] shutting down...", queueName)
						return
					default:
					}

					if consumerCh == nil || consumerCh.IsClosed() {
						if consumerCh != nil {
							consumerCh.Close()
						}

						conn, err := utils.NewRabbitMQClient(rabbitMqService.config.RabbitMqURL)
						if err != nil {
							logrus.Errorf("failed to connect to RabbitMQ: %v", err)
						}
						rabbitMqService.rabbitMqConn = conn
						newCh, err := utils.NewChannel(conn)
						if err != nil {
							logrus.Errorf("[%s] failed to create channel: %v", queueName, err)
							time.Sleep(5 * time.Second)
							continue
						}
						consumerCh = newCh
						logrus.Infof("[%s] channel created", queueName)
					}

					msgs, err := utils.NewQueueConsumer(consumerCh, queueName)
					if err != nil {
						logrus.Errorf("[%s] failed to start consumer: %v", queueName, err)
						consumerCh.Close()
						consumerCh = nil
						time.Sleep(5 * time.Second)
						continue
					}

					logrus.Infof("[%s] worker started, waiting for messages...", queueName)

					channelClosed := false
					for !channelClosed {
						select {
						case <-ctx.Done():
							logrus.Infof("[%s] shutting down...", queueName)
							return
						case d, ok := <-msgs:
							if !ok {
								logrus.Warnf("[%s] channel closed, will recreate", queueName)
								consumerCh = nil
								channelClosed = true
								time.Sleep(2 * time.Second)
								break
							}

							if err := rabbitMqService.ProcessMessage(ctx, d); err != nil {
								logrus.Errorf("[%s] error processing message: %v", queueName, err)

								var procErr models.ProcessingError
								if errors.As(err, &procErr) {
									if procErr.Requeue {
										d.Nack(false, true)
									} else {
										d.Nack(false, false)
									}
									continue
								}

								if utils.IsTransientError(err) {
									d.Nack(false, true)
								} else {
									d.Nack(false, false)
								}
								continue
							}

							d.Ack(false)
						}
					}
				}
			}(q)
		}

	}

	<-ctx.Done()
	logrus.Info("shutting down all consumers gracefully...")
	return nil
}
