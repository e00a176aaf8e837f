package usecase

import (
	"context"
)

// Notifier pushes a realtime event to a connected user. Implementations must
// never block; events are fire and forget and a disconnected user simply
// misses them.
type Notifier interface {
	Notify(userID string, event string, payload map[string]interface{})
}

// FirebaseAuthClient is the slice of the Firebase Admin SDK the use cases
// need. VerifyToken returns the UID the token was issued for.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
}
