package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/journeys-backend/internal/metrics"
	"github.com/AnshRaj112/journeys-backend/internal/models"
)

const UsersCollection = "users"

// ErrEmailTaken is returned by Create when the unique email index rejects the insert.
var ErrEmailTaken = errors.New("email already registered")

// UserStore persists user accounts in MongoDB.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(col *mongo.Collection) *UserStore {
	return &UserStore{col: col}
}

// FindAll lists every user with the password field projected out.
func (s *UserStore) FindAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordStoreOperation(UsersCollection, "find", err)
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	err = cursor.All(ctx, &users)
	metrics.RecordStoreOperation(UsersCollection, "find", err)
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// FindByEmail returns the user registered with email, or (nil, nil) when there is none.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordStoreOperation(UsersCollection, "find_one", nil)
		return nil, nil
	}
	metrics.RecordStoreOperation(UsersCollection, "find_one", err)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new user. A duplicate email yields ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	_, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		metrics.RecordStoreOperation(UsersCollection, "insert", nil)
		return ErrEmailTaken
	}
	metrics.RecordStoreOperation(UsersCollection, "insert", err)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
