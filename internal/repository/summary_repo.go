package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveylens/internal/model"
)

// SummaryRepo handles MongoDB operations for analysis summaries.
// There is at most one summary per (survey, scope, target).
type SummaryRepo interface {
	// Replace inserts the summary or overwrites the one with the same key
	Replace(ctx context.Context, summary *model.Summary) error
	Delete(ctx context.Context, surveyID string, scope model.SummaryScope, targetID string) error
	ListBySurvey(ctx context.Context, surveyID string) ([]*model.Summary, error)
}

type summaryRepo struct {
	collection *mongo.Collection
}

// NewSummaryRepo creates a new summary repository
func NewSummaryRepo(db *mongo.Database) SummaryRepo {
	return &summaryRepo{
		collection: db.Collection("summaries"),
	}
}

// EnsureSummaryIndexes creates the unique (surveyId, scope, targetId) index
func EnsureSummaryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("summaries").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "surveyId", Value: 1}, {Key: "scope", Value: 1}, {Key: "targetId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *summaryRepo) Replace(ctx context.Context, summary *model.Summary) error {
	summary.ID = model.SummaryKey(summary.SurveyID, summary.Scope, summary.TargetID)
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": summary.ID}, summary, opts)
	return err
}

func (r *summaryRepo) Delete(ctx context.Context, surveyID string, scope model.SummaryScope, targetID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"surveyId": surveyID, "scope": scope, "targetId": targetID})
	return err
}

func (r *summaryRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scope", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"surveyId": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []*model.Summary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
