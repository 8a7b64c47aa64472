package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/customerrepo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CustomersMongoRepo stores customer documents in a single collection.
// Documents keep whatever flat fields they were given; CustomerID is the
// lookup key but carries no unique index.
type CustomersMongoRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func New(db *mongo.Database, collection string) CustomersMongoRepo {
	return CustomersMongoRepo{
		db:   db,
		coll: db.Collection(collection),
	}
}

func byCustomerID(id int64) bson.D {
	return bson.D{{Key: models.CustomerIDField, Value: id}}
}

func (cr CustomersMongoRepo) InsertMany(ctx context.Context, records []models.Fields) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Without(models.InternalIDField))
	}

	res, err := cr.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert many error: %w", err)
	}

	return len(res.InsertedIDs), nil
}

func (cr CustomersMongoRepo) List(ctx context.Context) ([]models.Customer, error) {
	cur, err := cr.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	defer cur.Close(ctx)

	customers := make([]models.Customer, 0)

	for cur.Next(ctx) {
		c, err := decode(cur.Current)
		if err != nil {
			return nil, err
		}

		customers = append(customers, c)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return customers, nil
}

func (cr CustomersMongoRepo) GetByCustomerID(ctx context.Context, id int64) (models.Customer, error) {
	raw, err := cr.coll.FindOne(ctx, byCustomerID(id)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Customer{}, customerrepo.ErrNotFound
		}

		return models.Customer{}, fmt.Errorf("find one error: %w", err)
	}

	return decode(raw)
}

func (cr CustomersMongoRepo) Create(ctx context.Context, f models.Fields) (string, error) {
	res, err := cr.coll.InsertOne(ctx, f.Without(models.InternalIDField))
	if err != nil {
		return "", fmt.Errorf("insert one error: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}

	return oid.Hex(), nil
}

func (cr CustomersMongoRepo) Update(ctx context.Context, id int64, f models.Fields) (models.Customer, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	raw, err := cr.coll.FindOneAndUpdate(ctx, byCustomerID(id), bson.D{{Key: "$set", Value: f}}, opts).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Customer{}, customerrepo.ErrNotFound
		}

		return models.Customer{}, fmt.Errorf("find one and update error: %w", err)
	}

	return decode(raw)
}

func (cr CustomersMongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := cr.coll.DeleteOne(ctx, byCustomerID(id))
	if err != nil {
		return fmt.Errorf("delete one error: %w", err)
	}

	if res.DeletedCount == 0 {
		return customerrepo.ErrNotFound
	}

	return nil
}

// SetField sets a single field on the document with the given internal id.
func (cr CustomersMongoRepo) SetField(ctx context.Context, id, field string, v models.Value) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse object id error: %w", err)
	}

	res, err := cr.coll.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: v}}}})
	if err != nil {
		return fmt.Errorf("update by id error: %w", err)
	}

	if res.MatchedCount == 0 {
		return customerrepo.ErrNotFound
	}

	return nil
}

// Wipe drops every collection of the database, not only this repo's one.
func (cr CustomersMongoRepo) Wipe(ctx context.Context) error {
	names, err := cr.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections error: %w", err)
	}

	for _, name := range names {
		if err := cr.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s error: %w", name, err)
		}
	}

	return nil
}

func decode(raw bson.Raw) (models.Customer, error) {
	elems, err := raw.Elements()
	if err != nil {
		return models.Customer{}, fmt.Errorf("read document error: %w", err)
	}

	c := models.Customer{Fields: make(models.Fields, len(elems))}

	for _, e := range elems {
		key := e.Key()
		rv := e.Value()

		if key == models.InternalIDField {
			if oid, ok := rv.ObjectIDOK(); ok {
				c.ID = oid.Hex()
			} else {
				c.ID = rv.String()
			}

			continue
		}

		var v models.Value
		if err := v.UnmarshalBSONValue(rv.Type, rv.Value); err != nil {
			return models.Customer{}, fmt.Errorf("decode field %s error: %w", key, err)
		}

		c.Fields[key] = v
	}

	return c, nil
}
