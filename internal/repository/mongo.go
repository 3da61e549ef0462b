package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/musician-api/internal/musician"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoRecord is the stored shape: the musician id as _id and the client's
// document as the exact JSON text it sent. Decoding it into BSON would
// reinterpret Extended JSON keys such as $numberInt or $date.
type mongoRecord struct {
	ID       string `bson:"_id"`
	Document string `bson:"document"`
}

func newMongoRecord(id string, body musician.Musician) mongoRecord {
	return mongoRecord{ID: id, Document: string(body)}
}

func (r mongoRecord) musician() musician.Musician {
	return musician.Musician(r.Document)
}

// MongoMusicianRepository stores one MongoDB document per musician.
type MongoMusicianRepository struct {
	collection *mongo.Collection
}

func NewMongoMusicianRepository(collection *mongo.Collection) *MongoMusicianRepository {
	return &MongoMusicianRepository{collection: collection}
}

func (r *MongoMusicianRepository) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mongoError("list", "", err)
	}

	var records []mongoRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, mongoError("list", "", err)
	}

	out := make([]musician.Musician, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.musician())
	}
	return out, nil
}

func (r *MongoMusicianRepository) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	var rec mongoRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, mongoError("get", id, err)
	}
	return rec.musician(), nil
}

func (r *MongoMusicianRepository) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": id},
		newMongoRecord(id, body),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return "", mongoError("put", id, err)
	}
	return id, nil
}

func (r *MongoMusicianRepository) DeleteMusician(ctx context.Context, id string) (string, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return "", mongoError("delete", id, err)
	}
	if res.DeletedCount == 0 {
		return "", musician.NotFound("delete", id)
	}
	return id, nil
}

func (r *MongoMusicianRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// mongoError maps driver failures onto store error kinds.
func mongoError(op, id string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return musician.NotFound(op, id)
	case mongo.IsDuplicateKeyError(err):
		return musician.NewError(musician.KindConflict, op, id, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return musician.NewError(musician.KindUnavailable, op, id, err)
	default:
		return musician.NewError(musician.KindInternal, op, id, err)
	}
}
