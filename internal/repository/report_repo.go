package repository

import (
	"aiinterviewer/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepo archives completed interview reports
type ReportRepo interface {
	Save(ctx context.Context, record *model.ReportRecord) error
	GetBySession(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error)
}

type reportRepo struct {
	reports *mongo.Collection
}

// NewReportRepo creates a MongoDB backed report archive
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		reports: db.Collection("interview_reports"),
	}
}

// EnsureIndexes creates the (owner, sessionId) unique index
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("interview_reports").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *reportRepo) Save(ctx context.Context, record *model.ReportRecord) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"owner": record.Owner, "sessionId": record.SessionID}
	_, err := r.reports.ReplaceOne(ctx, filter, record, opts)
	return err
}

func (r *reportRepo) GetBySession(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error) {
	var record model.ReportRecord
	err := r.reports.FindOne(ctx, bson.M{"owner": owner, "sessionId": sessionID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *reportRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "archivedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.reports.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.ReportRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
