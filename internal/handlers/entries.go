package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/internal/models"
)

// EntryStore is the persistence the entry handlers need.
type EntryStore interface {
	FindByID(ctx context.Context, id string) (*models.JournalEntry, error)
	FindByAuthor(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Save(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, id string) error
}

// Geocoder resolves a location name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.LatLng, error)
}

type CreateEntryRequest struct {
	Headline     string `json:"headline" validate:"required"`
	JournalText  string `json:"journalText" validate:"required"`
	LocationName string `json:"locationName" validate:"required"`
	Author       string `json:"author" validate:"required"`
}

type UpdateEntryRequest struct {
	Headline    string `json:"headline" validate:"required"`
	JournalText string `json:"journalText" validate:"required"`
}

type EntryHandler struct {
	store    EntryStore
	geocoder Geocoder
	timeout  time.Duration
}

// NewEntryHandler wires the entry endpoints. timeout bounds each store call.
func NewEntryHandler(store EntryStore, geocoder Geocoder, timeout time.Duration) *EntryHandler {
	return &EntryHandler{store: store, geocoder: geocoder, timeout: timeout}
}

// GetEntryByID handles GET /api/entries/{pid}
func (h *EntryHandler) GetEntryByID(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "pid")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entry, err := h.store.FindByID(ctx, entryID)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Something went wrong, could not find an entry.", http.StatusInternalServerError))
		return
	}
	if entry == nil {
		apperror.Handle(w, r, apperror.New("Could not find an entry for the provided id.", http.StatusNotFound))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": presentEntry(entry)})
}

// GetEntriesByUserID handles GET /api/entries/user/{uid}. A user without entries gets an empty list.
func (h *EntryHandler) GetEntriesByUserID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "uid")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entries, err := h.store.FindByAuthor(ctx, userID)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Fetching entries failed, please try again later", http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": presentEntries(entries)})
}

// CreateEntry handles POST /api/entries. Nothing is stored unless the location resolves.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		apperror.Handle(w, r, err)
		return
	}

	loc, err := h.geocoder.Resolve(r.Context(), req.LocationName)
	if err != nil {
		apperror.Handle(w, r, err)
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Creating entry failed, please try again", http.StatusInternalServerError))
		return
	}

	entry := &models.JournalEntry{
		ID:           id.String(),
		Headline:     req.Headline,
		JournalText:  req.JournalText,
		Photo:        models.DefaultEntryPhoto,
		LocationName: req.LocationName,
		Coordinates:  loc.ToCoordinates(),
		Author:       req.Author,
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Save(ctx, entry); err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Creating entry failed, please try again", http.StatusInternalServerError))
		return
	}

	logging.Ctx(r.Context()).Info().Str("entry_id", entry.ID).Str("author", entry.Author).Msg("Entry created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": presentEntry(entry)})
}

// UpdateEntry handles PATCH /api/entries/{pid}. Only headline and journalText change.
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		apperror.Handle(w, r, err)
		return
	}

	entryID := chi.URLParam(r, "pid")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entry, err := h.store.FindByID(ctx, entryID)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Something went wrong, could not update entry.", http.StatusInternalServerError))
		return
	}
	if entry == nil {
		apperror.Handle(w, r, apperror.New("Could not find entry for this id.", http.StatusNotFound))
		return
	}

	entry.Headline = req.Headline
	entry.JournalText = req.JournalText

	if err := h.store.Save(ctx, entry); err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Something went wrong, could not update entry.", http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": presentEntry(entry)})
}

// DeleteEntry handles DELETE /api/entries/{pid}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "pid")

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entry, err := h.store.FindByID(ctx, entryID)
	if err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Something went wrong, could not delete entry.", http.StatusInternalServerError))
		return
	}
	if entry == nil {
		apperror.Handle(w, r, apperror.New("Could not find entry for this id.", http.StatusNotFound))
		return
	}

	if err := h.store.Delete(ctx, entry.ID); err != nil {
		apperror.Handle(w, r, apperror.Wrap(err, "Something went wrong, could not delete entry.", http.StatusInternalServerError))
		return
	}

	logging.Ctx(r.Context()).Info().Str("entry_id", entry.ID).Msg("Entry deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted entry."})
}
