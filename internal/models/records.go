package models

import "time"

// Draft is an unfinished post saved between visits. Drafts older than a day are
// discarded on load.
type Draft struct {
	Author  string    `json:"author"`
	Content string    `json:"content"`
	SavedAt time.Time `json:"savedAt"`
}

// User is the mock account record produced by the signup form. There is no real
// authentication behind it; the record is only echoed back to the page.
type User struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email"`
	BirthMonth string `json:"birthMonth,omitempty"`
	BirthDay   string `json:"birthDay,omitempty"`
	BirthYear  string `json:"birthYear,omitempty"`
	Gender     string `json:"gender,omitempty"`
}
