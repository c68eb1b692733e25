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

// EntriesCollection holds one document per journal entry, keyed by entry id.
const EntriesCollection = "entries"

// EntryStore persists journal entries in MongoDB.
type EntryStore struct {
	col *mongo.Collection
}

func NewEntryStore(col *mongo.Collection) *EntryStore {
	return &EntryStore{col: col}
}

// FindByID returns the entry with the given id, or (nil, nil) when there is none.
func (s *EntryStore) FindByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordStoreOperation(EntriesCollection, "find_one", nil)
		return nil, nil
	}
	metrics.RecordStoreOperation(EntriesCollection, "find_one", err)
	if err != nil {
		return nil, fmt.Errorf("find entry %q: %w", id, err)
	}
	return &entry, nil
}

// FindByAuthor returns every entry whose author is userID. No match is an empty slice.
func (s *EntryStore) FindByAuthor(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	cursor, err := s.col.Find(ctx, bson.M{"author": userID})
	if err != nil {
		metrics.RecordStoreOperation(EntriesCollection, "find", err)
		return nil, fmt.Errorf("find entries by author %q: %w", userID, err)
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	err = cursor.All(ctx, &entries)
	metrics.RecordStoreOperation(EntriesCollection, "find", err)
	if err != nil {
		return nil, fmt.Errorf("decode entries for author %q: %w", userID, err)
	}
	return entries, nil
}

// Save inserts the entry or replaces the stored document with the same id.
func (s *EntryStore) Save(ctx context.Context, entry *models.JournalEntry) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, options.Replace().SetUpsert(true))
	metrics.RecordStoreOperation(EntriesCollection, "save", err)
	if err != nil {
		return fmt.Errorf("save entry %q: %w", entry.ID, err)
	}
	return nil
}

// Delete removes the entry with the given id.
func (s *EntryStore) Delete(ctx context.Context, id string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	metrics.RecordStoreOperation(EntriesCollection, "delete", err)
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	return nil
}
