package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nicxzdev/daily-diet-api/internal/models"
)

// AuditStore keeps a trail of account and meal mutations in MongoDB.
type AuditStore struct {
	col *mongo.Collection
}

func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{col: db.Collection("audit")}
}

func (s *AuditStore) Record(ctx context.Context, e models.AuditEvent) error {
	e.At = time.Now()
	if _, err := s.col.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}
