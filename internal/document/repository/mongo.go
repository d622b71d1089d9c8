package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ArmaanM08/WikiDoCollab/internal/document"
)

// MongoDocumentRepo implements DocumentRepository on a Mongo collection.
// Documents carry their collaboration requests embedded, so every workflow
// mutation is a single-document atomic update.
type MongoDocumentRepo struct {
	col *mongo.Collection
}

func NewMongoDocumentRepo(col *mongo.Collection) *MongoDocumentRepo {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoDocumentRepo{col: col}
}

func (r *MongoDocumentRepo) Create(ctx context.Context, doc *document.Document) (string, error) {
	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.CollaboratorIDs == nil {
		doc.CollaboratorIDs = []string{}
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *MongoDocumentRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	var d document.Document
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *MongoDocumentRepo) ListForUser(ctx context.Context, userID string) ([]*document.Document, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"ownerId": userID},
		bson.M{"collaboratorIds": userID},
	}}
	return r.find(ctx, filter)
}

func (r *MongoDocumentRepo) ListPublic(ctx context.Context) ([]*document.Document, error) {
	return r.find(ctx, bson.M{"isPrivate": bson.M{"$ne": true}})
}

func (r *MongoDocumentRepo) ListOwned(ctx context.Context, ownerID string) ([]*document.Document, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID})
}

func (r *MongoDocumentRepo) find(ctx context.Context, filter bson.M) ([]*document.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var d document.Document
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (r *MongoDocumentRepo) UpdateContent(ctx context.Context, id, content string) error {
	set := bson.M{"content": content, "updatedAt": time.Now().UTC()}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDocumentRepo) AppendRequest(ctx context.Context, id string, req document.CollaborationRequest) error {
	update := bson.M{
		"$push": bson.M{"collaborationRequests": req},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDocumentRepo) SetRequestStatus(ctx context.Context, id, userID, status string) error {
	filter := bson.M{
		"_id": id,
		"collaborationRequests": bson.M{"$elemMatch": bson.M{
			"userId": userID,
			"status": document.StatusPending,
		}},
	}
	update := bson.M{"$set": bson.M{
		"collaborationRequests.$.status": status,
		"updatedAt":                      time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDocumentRepo) AddCollaborator(ctx context.Context, id, userID string) error {
	update := bson.M{
		"$addToSet": bson.M{"collaboratorIds": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoDocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoVersionRepo implements VersionRepository on a Mongo collection.
type MongoVersionRepo struct {
	col *mongo.Collection
}

func NewMongoVersionRepo(col *mongo.Collection) *MongoVersionRepo {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "documentId", Value: 1}, {Key: "createdAt", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoVersionRepo{col: col}
}

func (r *MongoVersionRepo) Create(ctx context.Context, v *document.Version) (string, error) {
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	v.CreatedAt = time.Now().UTC()
	if _, err := r.col.InsertOne(ctx, v); err != nil {
		return "", err
	}
	return v.ID, nil
}

func (r *MongoVersionRepo) ListByDocument(ctx context.Context, documentID string) ([]*document.Version, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"documentId": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Version{}
	for cur.Next(ctx) {
		var v document.Version
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (r *MongoVersionRepo) LatestByDocument(ctx context.Context, documentID string) (*document.Version, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var v document.Version
	if err := r.col.FindOne(ctx, bson.M{"documentId": documentID}, opts).Decode(&v); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *MongoVersionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"documentId": documentID})
	return err
}
