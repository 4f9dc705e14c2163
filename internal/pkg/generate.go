package pkg

import "github.com/google/uuid"

const sessionIDLength = 12

// GenerateNewSessionID - returns a short random session identifier.
func GenerateNewSessionID() string {
	return uuid.NewString()[:sessionIDLength]
}
