package repository

import (
	"context"
	"fmt"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReportRepository handles document store operations for reports.
// Reports are append-only.
type ReportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{coll: db.Collection(collReports)}
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}
