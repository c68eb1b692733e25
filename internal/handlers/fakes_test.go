package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journeys-backend/internal/models"
	"github.com/AnshRaj112/journeys-backend/internal/services"
)

type fakeEntryStore struct {
	entries map[string]models.JournalEntry
	saves   int

	findErr   error
	listErr   error
	saveErr   error
	deleteErr error
}

func newFakeEntryStore(entries ...models.JournalEntry) *fakeEntryStore {
	s := &fakeEntryStore{entries: map[string]models.JournalEntry{}}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return s
}

func (s *fakeEntryStore) FindByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *fakeEntryStore) FindByAuthor(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []models.JournalEntry{}
	for _, e := range s.entries {
		if e.Author == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) Save(ctx context.Context, entry *models.JournalEntry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.entries[entry.ID] = *entry
	return nil
}

func (s *fakeEntryStore) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.entries, id)
	return nil
}

type fakeGeocoder struct {
	calls     int
	locations map[string]models.LatLng
	err       error
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (models.LatLng, error) {
	g.calls++
	if g.err != nil {
		return models.LatLng{}, g.err
	}
	loc, ok := g.locations[address]
	if !ok {
		return models.LatLng{}, services.ErrLocationNotFound
	}
	return loc, nil
}

type fakeUserStore struct {
	users map[string]models.User // keyed by email

	findAllErr error
	findErr    error
	createErr  error
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]models.User{}}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	if s.findAllErr != nil {
		return nil, s.findAllErr
	}
	out := []models.User{}
	for _, u := range s.users {
		u.Password = ""
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.users[user.Email]; ok {
		return services.ErrEmailTaken
	}
	s.users[user.Email] = *user
	return nil
}

// withURLParams attaches chi route params to r the way the router would.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
