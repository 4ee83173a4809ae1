package model

import "time"

// Review is free-form feedback a user leaves once a plan is done.
type Review struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewSubmission carries a plan review together with the body updates a
// user reports alongside it. Zero Weight and blank Details leave the stored
// values untouched.
type ReviewSubmission struct {
	Review  string
	Weight  float64
	Details string
}
