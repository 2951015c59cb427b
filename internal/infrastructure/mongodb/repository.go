package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/user-service-ext/internal/domain/repository"
)

// Repository stores documents of type T in one collection. T must map its id to
// "_id" and may carry createdAt/updatedAt fields, which are stamped here.
type Repository[T any] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewRepository[T any](db *mongo.Database, collection string) *Repository[T] {
	return &Repository[T]{coll: db.Collection(collection), now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repository[T]) Create(ctx context.Context, doc *T) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	now := r.now()
	m["_id"] = primitive.NewObjectID()
	m["createdAt"] = now
	m["updatedAt"] = now

	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("mongo insert failed: %w", err)
	}

	// decode what was stored so the caller sees the assigned id and timestamps
	stored, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := bson.Unmarshal(stored, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T]) FindWithPagination(ctx context.Context, q repository.Query) (*repository.Page[T], error) {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	page, limit, skip := q.Window()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo count failed: %w", err)
	}

	opts := options.Find().SetSkip(skip).SetLimit(int64(limit))
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, s := range q.Sort {
			dir := 1
			if s.Direction < 0 {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(sort)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find failed: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	items := make([]T, 0, limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo cursor decode failed: %w", err)
	}
	return &repository.Page[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: skip+int64(len(items)) < total,
	}, nil
}

func (r *Repository[T]) Update(ctx context.Context, id string, patch repository.Patch) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q", repository.ErrNotFound, id)
	}
	set := bson.M{}
	for k, v := range patch {
		if k == "_id" || k == "createdAt" {
			continue
		}
		set[k] = v
	}
	set["updatedAt"] = r.now()

	out := new(T)
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: id %q", repository.ErrNotFound, id)
		}
		return nil, fmt.Errorf("mongo update failed: %w", err)
	}
	return out, nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("mongo delete failed: %w", err)
	}
	return res.DeletedCount > 0, nil
}

var _ repository.Repository[struct{}] = (*Repository[struct{}])(nil)
