package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motorbay/m1/internal/models"
)

// IThreadService handles buyer-seller conversations about a listing.
type IThreadService interface {
	Open(ctx context.Context, actor Actor, listingID primitive.ObjectID, body string) (*models.MessageThread, *models.Message, error)
	SendMessage(ctx context.Context, actor Actor, threadID primitive.ObjectID, body string) (*models.Message, error)
	ListThreads(ctx context.Context, actor Actor) ([]models.ThreadSummary, error)
	GetThread(ctx context.Context, actor Actor, threadID primitive.ObjectID) (*models.MessageThread, error)
	ListMessages(ctx context.Context, actor Actor, threadID primitive.ObjectID) ([]models.Message, error)
}

const (
	threadsCollection  = "threads"
	messagesCollection = "messages"
)

const maxMessageLength = 4000

type threadService struct {
	db       *mongo.Database
	notifier INotificationService
}

// NewThreadService creates a new ThreadService. notifier may be nil, in which
// case no email notifications go out.
func NewThreadService(db *mongo.Database, notifier INotificationService) IThreadService {
	return &threadService{db: db, notifier: notifier}
}

func validateMessageBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: message body is required", ErrInvalidInput)
	}
	if len(body) > maxMessageLength {
		return "", fmt.Errorf("%w: message body exceeds %d characters", ErrInvalidInput, maxMessageLength)
	}
	return body, nil
}

// Open starts (or resumes) the conversation between the acting buyer and the
// listing's seller. There is at most one thread per (buyer, listing): a
// unique index backs that, and on a duplicate-key race the loser re-reads the
// winner's thread and appends there.
func (s *threadService) Open(ctx context.Context, actor Actor, listingID primitive.ObjectID, body string) (*models.MessageThread, *models.Message, error) {
	if !actor.Known() {
		return nil, nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	if actor.IsSuspended {
		return nil, nil, fmt.Errorf("%w: account is suspended", ErrForbidden)
	}
	body, err := validateMessageBody(body)
	if err != nil {
		return nil, nil, err
	}

	var listing models.Listing
	err = s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
		}
		return nil, nil, fmt.Errorf("error finding listing %s: %w", listingID.Hex(), err)
	}
	if listing.SellerID == *actor.UserID {
		return nil, nil, fmt.Errorf("%w: cannot message yourself about your own listing", ErrInvalidInput)
	}

	var buyer models.User
	err = s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": *actor.UserID}).Decode(&buyer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load buyer %s: %w", actor.UserID.Hex(), err)
	}

	threadFilter := bson.M{"buyer_id": *actor.UserID, "listing_id": listingID}
	coll := s.db.Collection(threadsCollection)

	// An existing conversation keeps working even after the listing leaves
	// the published state; only starting a new one requires it.
	var thread models.MessageThread
	err = coll.FindOne(ctx, threadFilter).Decode(&thread)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if listing.Status != models.StatusPublished {
			return nil, nil, fmt.Errorf("%w: listing %s", ErrNotFound, listingID.Hex())
		}
		now := time.Now().UTC()
		thread = models.MessageThread{
			ID:           primitive.NewObjectID(),
			ListingID:    listingID,
			ListingTitle: listing.Title,
			BuyerID:      *actor.UserID,
			BuyerName:    buyer.DisplayName,
			SellerID:     listing.SellerID,
			SellerName:   listing.SellerName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, err = coll.InsertOne(ctx, thread)
		if mongo.IsDuplicateKeyError(err) {
			// Another request created the thread first; use theirs.
			err = coll.FindOne(ctx, threadFilter).Decode(&thread)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open thread for listing %s: %w", listingID.Hex(), err)
	}

	msg, err := s.appendMessage(ctx, &thread, *actor.UserID, buyer.DisplayName, body)
	if err != nil {
		return nil, nil, err
	}
	return &thread, msg, nil
}

// SendMessage appends to an existing thread. Only the two participants may
// post; everyone else, admins included, gets forbidden.
func (s *threadService) SendMessage(ctx context.Context, actor Actor, threadID primitive.ObjectID, body string) (*models.Message, error) {
	if actor.IsSuspended {
		return nil, fmt.Errorf("%w: account is suspended", ErrForbidden)
	}
	body, err := validateMessageBody(body)
	if err != nil {
		return nil, err
	}
	thread, err := s.loadThread(ctx, actor, threadID, false)
	if err != nil {
		return nil, err
	}

	var sender models.User
	err = s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": *actor.UserID}).Decode(&sender)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender %s: %w", actor.UserID.Hex(), err)
	}
	return s.appendMessage(ctx, thread, *actor.UserID, sender.DisplayName, body)
}

func (s *threadService) appendMessage(ctx context.Context, thread *models.MessageThread, senderID primitive.ObjectID, senderName, body string) (*models.Message, error) {
	now := time.Now().UTC()
	msg := &models.Message{
		ID:         primitive.NewObjectID(),
		ThreadID:   thread.ID,
		SenderID:   senderID,
		SenderName: senderName,
		Body:       body,
		SentAt:     now,
	}
	if _, err := s.db.Collection(messagesCollection).InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to insert message in thread %s: %w", thread.ID.Hex(), err)
	}

	update := bson.M{"$set": bson.M{"updated_at": now}}
	if _, err := s.db.Collection(threadsCollection).UpdateByID(ctx, thread.ID, update); err != nil {
		return nil, fmt.Errorf("failed to touch thread %s: %w", thread.ID.Hex(), err)
	}

	if s.notifier != nil {
		recipientID := thread.SellerID
		if senderID == thread.SellerID {
			recipientID = thread.BuyerID
		}
		s.notifier.MessageReceived(ctx, recipientID, thread, msg)
	}
	return msg, nil
}

// ListThreads returns every thread the actor participates in, most recently
// active first, each with a preview of its latest message. Admins see all
// threads.
func (s *threadService) ListThreads(ctx context.Context, actor Actor) ([]models.ThreadSummary, error) {
	if !actor.Known() {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	filter := bson.M{}
	if !actor.IsAdmin {
		filter = bson.M{"$or": bson.A{
			bson.M{"buyer_id": *actor.UserID},
			bson.M{"seller_id": *actor.UserID},
		}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.db.Collection(threadsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads for user %s: %w", actor.UserID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var threads []models.MessageThread
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode threads: %w", err)
	}

	summaries := make([]models.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		summary := models.ThreadSummary{MessageThread: t}
		var last models.Message
		err := s.db.Collection(messagesCollection).
			FindOne(ctx, bson.M{"thread_id": t.ID}, options.FindOne().SetSort(bson.D{{Key: "sent_at", Value: -1}})).
			Decode(&last)
		switch {
		case err == nil:
			summary.LastMessagePreview = previewOf(last.Body)
		case errors.Is(err, mongo.ErrNoDocuments):
			// Thread with no messages yet; leave the preview empty.
		default:
			return nil, fmt.Errorf("failed to load last message of thread %s: %w", t.ID.Hex(), err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetThread returns a thread to one of its participants, or to an admin.
func (s *threadService) GetThread(ctx context.Context, actor Actor, threadID primitive.ObjectID) (*models.MessageThread, error) {
	return s.loadThread(ctx, actor, threadID, true)
}

// ListMessages returns a thread's messages oldest first.
func (s *threadService) ListMessages(ctx context.Context, actor Actor, threadID primitive.ObjectID) ([]models.Message, error) {
	if _, err := s.loadThread(ctx, actor, threadID, true); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}})
	cursor, err := s.db.Collection(messagesCollection).Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages of thread %s: %w", threadID.Hex(), err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

// loadThread fetches a thread and checks the actor may touch it. adminOK
// widens the check to admins for read paths; posting stays participant-only.
func (s *threadService) loadThread(ctx context.Context, actor Actor, threadID primitive.ObjectID, adminOK bool) (*models.MessageThread, error) {
	if !actor.Known() {
		return nil, fmt.Errorf("%w: authentication required", ErrForbidden)
	}
	var thread models.MessageThread
	err := s.db.Collection(threadsCollection).FindOne(ctx, bson.M{"_id": threadID}).Decode(&thread)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: thread %s", ErrNotFound, threadID.Hex())
		}
		return nil, fmt.Errorf("error finding thread %s: %w", threadID.Hex(), err)
	}
	if adminOK && actor.IsAdmin {
		return &thread, nil
	}
	if thread.BuyerID != *actor.UserID && thread.SellerID != *actor.UserID {
		return nil, fmt.Errorf("%w: not a participant of thread %s", ErrForbidden, threadID.Hex())
	}
	return &thread, nil
}

const previewLength = 80

func previewOf(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLength {
		return body
	}
	return string(runes[:previewLength-1]) + "…"
}
