package records

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoBackend stores each collection in a MongoDB collection. Ids are the
// hex form of generated ObjectIDs; documents created with an explicit string
// id keep it as their _id.
type MongoBackend struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewMongoBackend(db *mongo.Database, timeout time.Duration) *MongoBackend {
	return &MongoBackend{db: db, timeout: timeout}
}

func (b *MongoBackend) FindAll(ctx context.Context, collection string) ([]Record, error) {
	return b.find(ctx, collection, bson.D{})
}

func (b *MongoBackend) FindWhere(ctx context.Context, collection, field string, value any) ([]Record, error) {
	return b.find(ctx, collection, bson.D{{Key: field, Value: value}})
}

func (b *MongoBackend) FindByID(ctx context.Context, collection, id string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	doc := bson.M{}
	err := b.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(doc), nil
}

func (b *MongoBackend) Insert(ctx context.Context, collection string, doc Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	insertDoc := bson.M{}
	for k, v := range doc {
		if k == "id" || IsUnset(v) {
			continue
		}
		insertDoc[k] = v
	}
	if id := doc.ID(); id != "" {
		insertDoc["_id"] = id
	}

	now := time.Now()
	if _, ok := insertDoc["createdAt"]; !ok {
		insertDoc["createdAt"] = now
	}
	insertDoc["updatedAt"] = now

	result, err := b.db.Collection(collection).InsertOne(ctx, insertDoc)
	if err != nil {
		return nil, err
	}

	insertDoc["_id"] = result.InsertedID
	return fromBSON(insertDoc), nil
}

func (b *MongoBackend) Update(ctx context.Context, collection, id string, doc Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	setDoc := bson.D{}
	unsetDoc := bson.D{}
	for k, v := range doc {
		if k == "id" || k == "_id" || k == "updatedAt" {
			continue
		}
		if IsUnset(v) {
			unsetDoc = append(unsetDoc, bson.E{Key: k, Value: ""})
			continue
		}
		setDoc = append(setDoc, bson.E{Key: k, Value: v})
	}
	setDoc = append(setDoc, bson.E{Key: "updatedAt", Value: time.Now()})

	update := bson.D{{Key: "$set", Value: setDoc}}
	if len(unsetDoc) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unsetDoc})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	updated := bson.M{}
	err := b.db.Collection(collection).FindOneAndUpdate(ctx, idFilter(id), update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(updated), nil
}

func (b *MongoBackend) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	result, err := b.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *MongoBackend) find(ctx context.Context, collection string, filter bson.D) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cursor, err := b.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromBSON(doc))
	}
	return out, nil
}

// idFilter matches both ObjectID and plain string ids, since records
// created through the fallback path or by migrations may carry either.
func idFilter(id string) bson.D {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, id}}}}}
	}
	return bson.D{{Key: "_id", Value: id}}
}

func fromBSON(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			rec["id"] = idString(v)
			continue
		}
		rec[k] = v
	}
	return rec
}

func idString(v any) string {
	switch id := v.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return ""
}
