package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barekit/orbitai/pkg/ledger/consts"
	"github.com/barekit/orbitai/pkg/ledger/record"
)

type MongoLedger struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type EventDoc struct {
	Kind         string    `bson:"kind"`
	SessionID    string    `bson:"session_id"`
	DeploymentID string    `bson:"deployment_id,omitempty"`
	ConfigID     string    `bson:"config_id,omitempty"`
	ChainName    string    `bson:"chain_name,omitempty"`
	ChainID      int64     `bson:"chain_id,omitempty"`
	ParentChain  string    `bson:"parent_chain,omitempty"`
	Status       string    `bson:"status,omitempty"`
	Progress     int       `bson:"progress"`
	Error        string    `bson:"error,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

// New creates a new MongoLedger.
func New(client *mongo.Client, dbName, collectionName string) *MongoLedger {
	return &MongoLedger{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}
}

func (l *MongoLedger) Append(ctx context.Context, e record.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	doc := EventDoc{
		Kind:         string(e.Kind),
		SessionID:    e.SessionID,
		DeploymentID: e.DeploymentID,
		ConfigID:     e.ConfigID,
		ChainName:    e.ChainName,
		ChainID:      e.ChainID,
		ParentChain:  e.ParentChain,
		Status:       e.Status,
		Progress:     e.Progress,
		Error:        e.Error,
		CreatedAt:    e.CreatedAt,
	}
	_, err := l.collection.InsertOne(ctx, doc)
	return err
}

func (l *MongoLedger) History(ctx context.Context, sessionID string) ([]record.Event, error) {
	filter := bson.M{consts.ColSessionID: sessionID}
	opts := options.Find().SetSort(bson.M{consts.ColCreatedAt: 1})

	cursor, err := l.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []record.Event
	for cursor.Next(ctx) {
		var doc EventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		events = append(events, doc.event())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (l *MongoLedger) Latest(ctx context.Context, deploymentID string) (*record.Event, error) {
	filter := bson.M{consts.ColDeploymentID: deploymentID}
	opts := options.FindOne().SetSort(bson.M{consts.ColCreatedAt: -1})

	var doc EventDoc
	err := l.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e := doc.event()
	return &e, nil
}

func (d EventDoc) event() record.Event {
	return record.Event{
		Kind:         record.Kind(d.Kind),
		SessionID:    d.SessionID,
		DeploymentID: d.DeploymentID,
		ConfigID:     d.ConfigID,
		ChainName:    d.ChainName,
		ChainID:      d.ChainID,
		ParentChain:  d.ParentChain,
		Status:       d.Status,
		Progress:     d.Progress,
		Error:        d.Error,
		CreatedAt:    d.CreatedAt,
	}
}
