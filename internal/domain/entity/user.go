package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone" firestore:"phone"`
	Bio      string `json:"bio" firestore:"bio"`
	Role     string `json:"role" firestore:"role"` // user, admin
	Status   string `json:"status" firestore:"status"`

	// Set by admin fraud review; flagged users keep trading but their
	// withdrawals queue for manual inspection.
	FraudFlagged   bool       `json:"fraud_flagged" firestore:"fraudFlagged"`
	FraudNote      string     `json:"fraud_note,omitempty" firestore:"fraudNote,omitempty"`
	FraudFlaggedAt *time.Time `json:"fraud_flagged_at,omitempty" firestore:"fraudFlaggedAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
