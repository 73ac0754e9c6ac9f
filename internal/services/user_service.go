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

	"motorbay/m1/internal/auth"
	"motorbay/m1/internal/models"
)

// IUserService defines the interface for account operations.
// This allows for easier mocking in tests.
type IUserService interface {
	Register(ctx context.Context, email, password, displayName, phone, location string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, actor Actor, page, pageSize int) (*PagedUsers, error)
	Suspend(ctx context.Context, actor Actor, userID primitive.ObjectID) error
	Unsuspend(ctx context.Context, actor Actor, userID primitive.ObjectID) error
}

// PagedUsers is an offset-paginated admin user directory page.
type PagedUsers struct {
	Items      []models.User `json:"items"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

const usersCollection = "users"

const minPasswordLength = 8

type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database) IUserService {
	return &userService{db: db}
}

// Register creates an account. Email uniqueness is enforced by the unique
// index on the users collection, so two concurrent registrations with the
// same address cannot both succeed.
func (s *userService) Register(ctx context.Context, email, password, displayName, phone, location string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email address is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Phone:        strings.TrimSpace(phone),
		Location:     strings.TrimSpace(location),
		IsAdmin:      false,
		IsSuspended:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
		}
		return nil, fmt.Errorf("failed to insert user %s: %w", email, err)
	}
	return user, nil
}

// Authenticate verifies email and password. Wrong email and wrong password
// return the same error so login attempts cannot probe for accounts.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidInput)
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidInput)
	}
	return user, nil
}

func (s *userService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID.Hex())
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID.Hex(), err)
	}
	return &user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("error finding user by email %s: %w", email, err)
	}
	return &user, nil
}

// List returns the user directory, newest first. Admin only.
func (s *userService) List(ctx context.Context, actor Actor, page, pageSize int) (*PagedUsers, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	coll := s.db.Collection(usersCollection)
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.User{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return &PagedUsers{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// Suspend blocks a user from working on their listings and from messaging.
// Administrators cannot be suspended.
func (s *userService) Suspend(ctx context.Context, actor Actor, userID primitive.ObjectID) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	target, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return fmt.Errorf("%w: administrators cannot be suspended", ErrConflict)
	}
	return s.setSuspended(ctx, userID, true)
}

// Unsuspend restores a suspended account. Idempotent.
func (s *userService) Unsuspend(ctx context.Context, actor Actor, userID primitive.ObjectID) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: administrator privileges required", ErrForbidden)
	}
	return s.setSuspended(ctx, userID, false)
}

func (s *userService) setSuspended(ctx context.Context, userID primitive.ObjectID, suspended bool) error {
	update := bson.M{"$set": bson.M{
		"is_suspended": suspended,
		"updated_at":   time.Now().UTC(),
	}}
	result, err := s.db.Collection(usersCollection).UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("failed to update suspension of user %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID.Hex())
	}
	return nil
}
