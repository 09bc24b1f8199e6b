package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mccia-news/pkg/domain"
)

// MongoClient wraps the MongoDB client and the articles collection
type MongoClient struct {
	uri         string
	database    string
	collection  string
	mongoClient *mongo.Client
	articles    *mongo.Collection
	now         func() time.Time
}

var _ ArticleStore = (*MongoClient)(nil)

// NewMongoClient creates a new database client. Call Connect before use.
func NewMongoClient(connectionString, databaseName, collectionName string) *MongoClient {
	if collectionName == "" {
		collectionName = ArticlesTable
	}
	return &MongoClient{
		uri:        connectionString,
		database:   databaseName,
		collection: collectionName,
		now:        time.Now,
	}
}

// Connect establishes the connection and makes sure url is a unique index
func (c *MongoClient) Connect(ctx context.Context) error {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return fmt.Errorf("ping mongo: %w", err)
	}

	articles := mongoClient.Database(c.database).Collection(c.collection)
	_, err = articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "processed_at", Value: -1}}},
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return fmt.Errorf("create indexes: %w", err)
	}

	c.mongoClient = mongoClient
	c.articles = articles
	return nil
}

// Close closes the MongoDB connection
func (c *MongoClient) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// Exists reports whether a document with this URL exists
func (c *MongoClient) Exists(ctx context.Context, url string) (bool, error) {
	if c.articles == nil {
		return false, ErrNotConnected
	}
	n, err := c.articles.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count articles: %w", err)
	}
	return n > 0, nil
}

// InsertIfAbsent upserts with $setOnInsert so an existing document is never modified
func (c *MongoClient) InsertIfAbsent(ctx context.Context, article *domain.Article) (bool, error) {
	if c.articles == nil {
		return false, ErrNotConnected
	}

	doc := *article
	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = c.now()
	}
	if doc.LastUpdatedAt.IsZero() {
		doc.LastUpdatedAt = doc.ProcessedAt
	}

	res, err := c.articles.UpdateOne(ctx,
		bson.M{"url": doc.URL},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race against another writer
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

// Update sets the given fields and last_updated_at
func (c *MongoClient) Update(ctx context.Context, url string, update domain.ArticleUpdate) error {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil
	}
	if c.articles == nil {
		return ErrNotConnected
	}

	set := bson.M{"last_updated_at": c.now()}
	for _, f := range fields {
		set[f.Column] = f.Value
	}
	if _, err := c.articles.UpdateOne(ctx, bson.M{"url": url}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes the document with this URL
func (c *MongoClient) Delete(ctx context.Context, url string) error {
	if c.articles == nil {
		return ErrNotConnected
	}
	if _, err := c.articles.DeleteOne(ctx, bson.M{"url": url}); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// DeleteProcessedBefore removes documents first seen before cutoff
func (c *MongoClient) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if c.articles == nil {
		return 0, ErrNotConnected
	}
	res, err := c.articles.DeleteMany(ctx, bson.M{"processed_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("purge articles: %w", err)
	}
	return res.DeletedCount, nil
}

// ListPublishable returns relevant, categorised articles, newest first
func (c *MongoClient) ListPublishable(ctx context.Context, limit int) ([]domain.Article, error) {
	filter := bson.M{
		"is_relevant": true,
		"category": bson.M{
			"$exists": true,
			"$nin":    bson.A{nil, string(domain.Uncategorized)},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "processed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return c.find(ctx, filter, opts)
}

// ListAll returns every document, oldest first
func (c *MongoClient) ListAll(ctx context.Context) ([]domain.Article, error) {
	return c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "processed_at", Value: 1}}))
}

func (c *MongoClient) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Article, error) {
	if c.articles == nil {
		return nil, ErrNotConnected
	}

	cursor, err := c.articles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []domain.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return articles, nil
}
