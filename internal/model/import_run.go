package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportRun records the outcome of one CSV bill import so operators can
// audit past batches. Individual bills are persisted by the remote billing
// service; only this summary lives in the local database.
type ImportRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename  string    `gorm:"type:varchar(255);not null"`
	TotalRows int       `gorm:"not null"`
	Succeeded int       `gorm:"not null"`
	Failed    int       `gorm:"not null"`
	// Failures is a JSON array of {row, message} entries, empty for clean runs.
	Failures  string `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time
}
