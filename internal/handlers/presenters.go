package handlers

import "github.com/AnshRaj112/journeys-backend/internal/models"

// EntryResponse is the only shape a journal entry takes on the wire.
type EntryResponse struct {
	ID           string             `json:"id"`
	Headline     string             `json:"headline"`
	JournalText  string             `json:"journalText"`
	Photo        string             `json:"photo"`
	LocationName string             `json:"locationName"`
	Coordinates  models.Coordinates `json:"coordinates"`
	Author       string             `json:"author"`
}

// UserResponse is the only shape a user takes on the wire. It has no password field.
type UserResponse struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	MobileNumber string   `json:"mobileNumber"`
	Email        string   `json:"email"`
	Image        string   `json:"image"`
	Places       []string `json:"places"`
}

func presentEntry(e *models.JournalEntry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Headline:     e.Headline,
		JournalText:  e.JournalText,
		Photo:        e.Photo,
		LocationName: e.LocationName,
		Coordinates:  e.Coordinates,
		Author:       e.Author,
	}
}

func presentEntries(entries []models.JournalEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, presentEntry(&entries[i]))
	}
	return out
}

func presentUser(u *models.User) UserResponse {
	places := u.Places
	if places == nil {
		places = []string{}
	}
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		MobileNumber: u.MobileNumber,
		Email:        u.Email,
		Image:        u.Image,
		Places:       places,
	}
}

func presentUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, presentUser(&users[i]))
	}
	return out
}
