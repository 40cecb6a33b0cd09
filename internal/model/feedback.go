package model

import "time"

// Feedback records the user's final choice for a suggestion request.
type Feedback struct {
	CreatedAt          time.Time
	Date               time.Time
	ID                 string
	TransactionHash    string
	Fingerprint        string
	Recipient          string
	SelectedCategory   string
	RejectedCategories []string
	Amount             float64
}
