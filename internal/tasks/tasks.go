package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for uploaded photos
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"motorbay/m1/internal/config"
	"motorbay/m1/internal/email"
	"motorbay/m1/internal/services"
	"motorbay/m1/internal/storage"
)

// Task types handled by the background workers.
const (
	TypeEmailDelivery = email.TaskTypeDeliver
	TypePhotoProcess  = "photo:process"
)

// PhotoTaskPayload asks the worker to normalize an uploaded photo and attach
// it to its listing.
type PhotoTaskPayload struct {
	ListingID string `json:"listing_id"`
	ObjectKey string `json:"object_key"`
}

// NewClient builds an asynq client on the same Redis the rest of the app uses.
func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// NewPhotoProcessTask builds the task enqueued after a client finishes a
// presigned upload.
func NewPhotoProcessTask(listingID primitive.ObjectID, objectKey string) (*asynq.Task, error) {
	payload, err := json.Marshal(PhotoTaskPayload{
		ListingID: listingID.Hex(),
		ObjectKey: objectKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal photo task payload: %w", err)
	}
	return asynq.NewTask(TypePhotoProcess, payload, asynq.Queue("images")), nil
}

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	storageService storage.IS3Storage
	listingService services.IListingService
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	storageService storage.IS3Storage,
	listingService services.IListingService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		storageService: storageService,
		listingService: listingService,
	}
}

// SetupServer configures an Asynq server and its handler mux. The caller
// starts it with srv.Start(mux) and stops it with srv.Shutdown().
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
				"images":   5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	mux.HandleFunc(TypePhotoProcess, processor.HandlePhotoProcessTask)

	return srv, mux
}

// HandleEmailDeliveryTask assembles headers around the queued body and hands
// the message to the configured sender.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload email.DeliveryJob
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}

	fromAddress := p.cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@motorbay.example.com"
		log.Printf("Warning: SmtpFromAddress not configured, using fallback %s for email to %s", fromAddress, payload.To)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", payload.To))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", payload.Subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(payload.Body)
	sb.WriteString("\r\n")

	if err := p.emailSender.Send(ctx, []string{payload.To}, payload.Subject, []byte(sb.String())); err != nil {
		log.Printf("Email sending failed (will retry): %v", err)
		return err
	}
	return nil
}

// HandlePhotoProcessTask downloads an uploaded photo, caps its dimensions,
// re-encodes it as JPEG and attaches the processed key to the listing.
func (p *TaskProcessor) HandlePhotoProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload PhotoTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal photo task payload: %v: %w", err, asynq.SkipRetry)
	}
	listingID, err := primitive.ObjectIDFromHex(payload.ListingID)
	if err != nil {
		return fmt.Errorf("invalid listing id %q: %v: %w", payload.ListingID, err, asynq.SkipRetry)
	}

	body, err := p.storageService.GetObject(ctx, payload.ObjectKey)
	if err != nil {
		return err
	}
	defer body.Close()

	img, format, err := image.Decode(body)
	if err != nil {
		// A broken upload will never decode on retry either.
		return fmt.Errorf("failed to decode image %s: %v: %w", payload.ObjectKey, err, asynq.SkipRetry)
	}
	log.Printf("Processing photo %s (format %s) for listing %s", payload.ObjectKey, format, payload.ListingID)

	maxDim := uint(p.cfg.ImageMaxDimension)
	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxDim || uint(bounds.Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode processed photo %s: %w", payload.ObjectKey, err)
	}

	processedKey := "photos/" + strings.TrimPrefix(payload.ObjectKey, "uploads/")
	if !strings.HasSuffix(strings.ToLower(processedKey), ".jpg") {
		processedKey += ".jpg"
	}
	if err := p.storageService.PutObject(ctx, processedKey, "image/jpeg", &buf); err != nil {
		return err
	}

	return p.listingService.AddPhoto(ctx, listingID, processedKey)
}
