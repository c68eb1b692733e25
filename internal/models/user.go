package models

// DefaultUserImage is the avatar every new account starts with.
const DefaultUserImage = "https://img.freepik.com/free-vector/user-circles-set_78370-4704.jpg?semt=ais_incoming&w=740&q=80"

type User struct {
	ID           string `bson:"_id" json:"id"`
	FirstName    string `bson:"firstName" json:"firstName"`
	LastName     string `bson:"lastName" json:"lastName"`
	MobileNumber string `bson:"mobileNumber" json:"mobileNumber"`
	Email        string `bson:"email" json:"email"`
	Password     string `bson:"password,omitempty" json:"-"` // argon2id hash; never returned in JSON
	Image        string `bson:"image" json:"image"`

	// Places lists entry ids supplied at signup
	Places []string `bson:"places" json:"places"`
}
