// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides a small aggregate query used for
// conditional responses (ETag generation) on the chat history endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

// MessagesStats returns aggregate metadata for messages within a session:
// the total number of rows and the maximum CreatedAt timestamp among them.
// Messages are immutable, so (count, latest CreatedAt) fully identifies the
// history state.
//
// Return values:
//   - count:        total messages for sessionID
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func MessagesStats(ctx context.Context, db *gorm.DB, sessionID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).Where("session_id = ?", sessionID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
