package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrlokans/lingua/internal/docstore"
)

type collection struct {
	coll *mongo.Collection
	name string
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	if err := c.coll.FindOne(ctx, f).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNoDocuments
		}
		return nil, docstore.Wrap("findOne", c.name, err)
	}
	return fromBSON(raw), nil
}

func (c *collection) Find(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	cursor, err := c.coll.Find(ctx, f, options.Find().SetSort(bson.D{{Key: docstore.IDField, Value: 1}}))
	if err != nil {
		return nil, docstore.Wrap("find", c.name, err)
	}
	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, docstore.Wrap("find", c.name, err)
	}

	docs := make([]docstore.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (c *collection) InsertOne(ctx context.Context, doc docstore.Document) (docstore.InsertResult, error) {
	m, err := toBSON(doc)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	if _, ok := m[docstore.IDField]; !ok {
		m[docstore.IDField] = primitive.NewObjectID()
	}

	res, err := c.coll.InsertOne(ctx, m)
	if err != nil {
		return docstore.InsertResult{}, docstore.Wrap("insertOne", c.name, err)
	}
	return docstore.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter docstore.Filter, update docstore.Update, opts ...docstore.UpdateOption) (docstore.UpdateResult, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	u, err := buildUpdate(filter, update)
	if err != nil {
		return docstore.UpdateResult{}, err
	}

	mopts := options.Update()
	if docstore.ApplyOptions(opts...).Upsert {
		mopts.SetUpsert(true)
	}

	res, err := c.coll.UpdateOne(ctx, f, u, mopts)
	if err != nil {
		return docstore.UpdateResult{}, docstore.Wrap("updateOne", c.name, err)
	}

	result := docstore.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		id := idString(res.UpsertedID)
		result.UpsertedID = &id
	}
	return result, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter docstore.Filter) (docstore.DeleteResult, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return docstore.DeleteResult{}, err
	}

	res, err := c.coll.DeleteOne(ctx, f)
	if err != nil {
		return docstore.DeleteResult{}, docstore.Wrap("deleteOne", c.name, err)
	}
	return docstore.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
