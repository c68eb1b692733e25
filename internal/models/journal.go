package models

// DefaultEntryPhoto is attached to every new entry; callers cannot set it yet.
const DefaultEntryPhoto = "https://encrypted-tbn0.gstatic.com/images?q=tbn:ANd9GcSpPkm3Hhfm2fa7zZFgK0HQrD8yvwSBmnm_Gw&s"

// Coordinates is where an entry was written, resolved once from its location name.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// LatLng is the geocoder's answer for an address.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToCoordinates maps a geocoder result onto an entry's coordinates.
func (l LatLng) ToCoordinates() Coordinates {
	return Coordinates{Latitude: l.Lat, Longitude: l.Lng}
}

// JournalEntry represents a travel journal entry owned by a user
type JournalEntry struct {
	ID           string      `bson:"_id" json:"id"`
	Headline     string      `bson:"headline" json:"headline"`
	JournalText  string      `bson:"journalText" json:"journalText"`
	Photo        string      `bson:"photo" json:"photo"`
	LocationName string      `bson:"locationName" json:"locationName"`
	Coordinates  Coordinates `bson:"coordinates" json:"coordinates"`
	Author       string      `bson:"author" json:"author"`
}
