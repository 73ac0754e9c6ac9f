package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"motorbay/m1/internal/email"
	"motorbay/m1/internal/models"
)

// INotificationService queues email notifications for marketplace events.
// All methods are fire-and-forget: a failed enqueue is logged, never
// surfaced, so notification trouble cannot fail the triggering request.
type INotificationService interface {
	MessageReceived(ctx context.Context, recipientID primitive.ObjectID, thread *models.MessageThread, msg *models.Message)
	ListingApproved(ctx context.Context, listing *models.Listing)
	ListingRejected(ctx context.Context, listing *models.Listing, reason string)
	ListingRemoved(ctx context.Context, listing *models.Listing, reason string)
}

// AsynqEnqueuer is the slice of the asynq client the notifier needs;
// *asynq.Client satisfies it, and tests substitute a mock.
type AsynqEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type notificationService struct {
	db         *mongo.Database
	taskClient AsynqEnqueuer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(db *mongo.Database, taskClient AsynqEnqueuer) INotificationService {
	return &notificationService{db: db, taskClient: taskClient}
}

func (s *notificationService) enqueue(ctx context.Context, userID primitive.ObjectID, subject, body string) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		log.Printf("Notification skipped, failed to load user %s: %v", userID.Hex(), err)
		return
	}

	payloadBytes, err := json.Marshal(email.DeliveryJob{
		To:      user.Email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		log.Printf("Notification skipped, failed to marshal payload for %s: %v", user.Email, err)
		return
	}
	task := asynq.NewTask(email.TaskTypeDeliver, payloadBytes)
	if _, err := s.taskClient.EnqueueContext(ctx, task); err != nil {
		log.Printf("ERROR enqueuing notification email to %s: %v", user.Email, err)
	}
}

func (s *notificationService) MessageReceived(ctx context.Context, recipientID primitive.ObjectID, thread *models.MessageThread, msg *models.Message) {
	subject := fmt.Sprintf("New message about \"%s\"", thread.ListingTitle)
	body := fmt.Sprintf("%s wrote:\n\n%s\n\nReply from your messages page.", msg.SenderName, msg.Body)
	s.enqueue(ctx, recipientID, subject, body)
}

func (s *notificationService) ListingApproved(ctx context.Context, listing *models.Listing) {
	subject := fmt.Sprintf("Your listing \"%s\" is now live", listing.Title)
	body := fmt.Sprintf("Good news! Your listing \"%s\" passed review and is now visible to buyers.", listing.Title)
	s.enqueue(ctx, listing.SellerID, subject, body)
}

func (s *notificationService) ListingRejected(ctx context.Context, listing *models.Listing, reason string) {
	subject := fmt.Sprintf("Your listing \"%s\" was not approved", listing.Title)
	body := fmt.Sprintf("Your listing \"%s\" was reviewed and not approved.\n\nReason: %s\n\nYou can edit the listing and submit it again.", listing.Title, reason)
	s.enqueue(ctx, listing.SellerID, subject, body)
}

func (s *notificationService) ListingRemoved(ctx context.Context, listing *models.Listing, reason string) {
	subject := fmt.Sprintf("Your listing \"%s\" was removed", listing.Title)
	body := fmt.Sprintf("Your listing \"%s\" was removed by a moderator.\n\nReason: %s", listing.Title, reason)
	s.enqueue(ctx, listing.SellerID, subject, body)
}
