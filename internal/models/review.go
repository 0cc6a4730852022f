package models

import "time"

type Review struct {
	ReviewID  int       `json:"review_id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewWithAuthor is the listing shape: a review plus the reviewer's
// display name.
type ReviewWithAuthor struct {
	ReviewID  int       `json:"review_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
}

// ReviewAggregate is computed by its own query, never from a listed page,
// so pagination cannot skew it. AverageRating is nil when Count is zero.
type ReviewAggregate struct {
	Count         int      `json:"count"`
	AverageRating *float64 `json:"average_rating"`
}
