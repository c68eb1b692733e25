package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/journeys-backend/internal/models"
)

var errStore = errors.New("connection reset by peer")

func parisEntry() models.JournalEntry {
	return models.JournalEntry{
		ID:           "e1",
		Headline:     "Trip",
		JournalText:  "Fun",
		Photo:        models.DefaultEntryPhoto,
		LocationName: "Paris",
		Coordinates:  models.Coordinates{Latitude: 48.85, Longitude: 2.35},
		Author:       "u1",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestCreateThenGetEntry(t *testing.T) {
	store := newFakeEntryStore()
	geo := &fakeGeocoder{locations: map[string]models.LatLng{"Paris": {Lat: 48.85, Lng: 2.35}}}
	h := NewEntryHandler(store, geo, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/entries",
		strings.NewReader(`{"headline":"Trip","journalText":"Fun","locationName":"Paris","author":"u1"}`))
	rec := httptest.NewRecorder()
	h.CreateEntry(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Entry EntryResponse `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Entry.ID)
	assert.Equal(t, models.Coordinates{Latitude: 48.85, Longitude: 2.35}, created.Entry.Coordinates)
	assert.Equal(t, models.DefaultEntryPhoto, created.Entry.Photo)
	assert.Equal(t, "u1", created.Entry.Author)
	require.Len(t, store.entries, 1)

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/api/entries/"+created.Entry.ID, nil),
		map[string]string{"pid": created.Entry.ID})
	rec = httptest.NewRecorder()
	h.GetEntryByID(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Entry EntryResponse `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.Entry, fetched.Entry)
}

func TestCreateEntryFailures(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		geoErr      error
		saveErr     error
		wantStatus  int
		wantMessage string
		wantGeocode bool
	}{
		{
			name:        "missing headline",
			body:        `{"journalText":"Fun","locationName":"Paris","author":"u1"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Invalid inputs passed, please check your data.",
		},
		{
			name:        "malformed body",
			body:        `{"headline":`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Invalid inputs passed, please check your data.",
		},
		{
			name:        "unknown location",
			body:        `{"headline":"Trip","journalText":"Fun","locationName":"Atlantis","author":"u1"}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantMessage: "Could not find location for the specified address.",
			wantGeocode: true,
		},
		{
			name:        "geocoder down",
			body:        `{"headline":"Trip","journalText":"Fun","locationName":"Paris","author":"u1"}`,
			geoErr:      errors.New("geocode: dial tcp: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unknown error occurred!",
			wantGeocode: true,
		},
		{
			name:        "save fails",
			body:        `{"headline":"Trip","journalText":"Fun","locationName":"Paris","author":"u1"}`,
			saveErr:     errStore,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Creating entry failed, please try again",
			wantGeocode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeEntryStore()
			store.saveErr = tt.saveErr
			geo := &fakeGeocoder{
				locations: map[string]models.LatLng{"Paris": {Lat: 48.85, Lng: 2.35}},
				err:       tt.geoErr,
			}
			h := NewEntryHandler(store, geo, time.Second)

			rec := httptest.NewRecorder()
			h.CreateEntry(rec, httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, messageOf(t, rec))
			assert.Empty(t, store.entries)
			assert.Equal(t, tt.wantGeocode, geo.calls > 0)
			assert.NotContains(t, rec.Body.String(), "connection")
		})
	}
}

func TestGetEntryByID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		findErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "not found", id: "missing", wantStatus: http.StatusNotFound, wantMessage: "Could not find an entry for the provided id."},
		{name: "lookup fails", id: "e1", findErr: errStore, wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong, could not find an entry."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeEntryStore(parisEntry())
			store.findErr = tt.findErr
			h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

			rec := httptest.NewRecorder()
			h.GetEntryByID(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"pid": tt.id}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, messageOf(t, rec))
		})
	}
}

func TestGetEntriesByUserID(t *testing.T) {
	other := parisEntry()
	other.ID, other.Author = "e2", "u2"
	store := newFakeEntryStore(parisEntry(), other)
	h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

	t.Run("lists the author's entries", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetEntriesByUserID(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"uid": "u1"}))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Entries []EntryResponse `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Entries, 1)
		assert.Equal(t, "e1", body.Entries[0].ID)
	})

	t.Run("no entries is an empty list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetEntriesByUserID(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"uid": "nobody"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(decodeBody(t, rec)["entries"]))
	})

	t.Run("lookup fails", func(t *testing.T) {
		failing := newFakeEntryStore()
		failing.listErr = errStore
		h := NewEntryHandler(failing, &fakeGeocoder{}, time.Second)

		rec := httptest.NewRecorder()
		h.GetEntriesByUserID(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"uid": "u1"}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Fetching entries failed, please try again later", messageOf(t, rec))
	})
}

func TestUpdateEntryChangesOnlyText(t *testing.T) {
	store := newFakeEntryStore(parisEntry())
	h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

	req := httptest.NewRequest(http.MethodPatch, "/api/entries/e1",
		strings.NewReader(`{"headline":"Day two","journalText":"Louvre all day","locationName":"Rome","author":"u9"}`))
	rec := httptest.NewRecorder()
	h.UpdateEntry(rec, withURLParams(req, map[string]string{"pid": "e1"}))

	require.Equal(t, http.StatusOK, rec.Code)

	want := parisEntry()
	want.Headline = "Day two"
	want.JournalText = "Louvre all day"
	assert.Equal(t, want, store.entries["e1"])

	var body struct {
		Entry EntryResponse `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, presentEntry(&want), body.Entry)
}

func TestUpdateEntryFailures(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		body        string
		findErr     error
		saveErr     error
		wantStatus  int
		wantMessage string
	}{
		{name: "invalid input", id: "e1", body: `{"headline":""}`, wantStatus: http.StatusUnprocessableEntity, wantMessage: "Invalid inputs passed, please check your data."},
		{name: "not found", id: "missing", body: `{"headline":"A","journalText":"B"}`, wantStatus: http.StatusNotFound, wantMessage: "Could not find entry for this id."},
		{name: "lookup fails", id: "e1", body: `{"headline":"A","journalText":"B"}`, findErr: errStore, wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong, could not update entry."},
		{name: "save fails", id: "e1", body: `{"headline":"A","journalText":"B"}`, saveErr: errStore, wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong, could not update entry."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeEntryStore(parisEntry())
			store.findErr, store.saveErr = tt.findErr, tt.saveErr
			h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.UpdateEntry(rec, withURLParams(req, map[string]string{"pid": tt.id}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, messageOf(t, rec))
			assert.Equal(t, parisEntry(), store.entries["e1"])
			assert.Len(t, store.entries, 1)
		})
	}
}

func TestDeleteEntry(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		store := newFakeEntryStore(parisEntry())
		h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

		rec := httptest.NewRecorder()
		h.DeleteEntry(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"pid": "e1"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Deleted entry."}`, rec.Body.String())
		assert.Empty(t, store.entries)

		rec = httptest.NewRecorder()
		h.GetEntryByID(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"pid": "e1"}))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	tests := []struct {
		name        string
		id          string
		findErr     error
		deleteErr   error
		wantStatus  int
		wantMessage string
	}{
		{name: "not found", id: "missing", wantStatus: http.StatusNotFound, wantMessage: "Could not find entry for this id."},
		{name: "lookup fails", id: "e1", findErr: errStore, wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong, could not delete entry."},
		{name: "delete fails", id: "e1", deleteErr: errStore, wantStatus: http.StatusInternalServerError, wantMessage: "Something went wrong, could not delete entry."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeEntryStore(parisEntry())
			store.findErr, store.deleteErr = tt.findErr, tt.deleteErr
			h := NewEntryHandler(store, &fakeGeocoder{}, time.Second)

			rec := httptest.NewRecorder()
			h.DeleteEntry(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"pid": tt.id}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, messageOf(t, rec))
			assert.Len(t, store.entries, 1)
		})
	}
}
