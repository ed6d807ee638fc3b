package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/client-registry/internal/core/domain"
)

const collectionClients = "clients"

// ClientRepository implements ports.ClientRepository using MongoDB. Mail
// uniqueness is enforced by the unique index created in EnsureIndexes.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type mongoClient struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	LastName     string             `bson:"last_name"`
	BirthDate    string             `bson:"birth_date"`
	Direction    string             `bson:"direction"`
	Mail         string             `bson:"mail"`
	Phone        string             `bson:"phone"`
	Status       bool               `bson:"status"`
	CreationDate time.Time          `bson:"creation_date"`
}

func (m mongoClient) toDomain() *domain.Client {
	return &domain.Client{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		LastName:     m.LastName,
		BirthDate:    m.BirthDate,
		Direction:    m.Direction,
		Mail:         m.Mail,
		Phone:        m.Phone,
		Status:       m.Status,
		CreationDate: m.CreationDate.UTC(),
	}
}

// newMongoClient builds the document for c with a fresh id. The creation
// date is cut to the millisecond BSON stores, so the value returned from
// Create equals what later reads see.
func newMongoClient(c *domain.Client) mongoClient {
	return mongoClient{
		ID:           primitive.NewObjectID(),
		Name:         c.Name,
		LastName:     c.LastName,
		BirthDate:    c.BirthDate,
		Direction:    c.Direction,
		Mail:         c.Mail,
		Phone:        c.Phone,
		Status:       c.Status,
		CreationDate: bsonTime(c.CreationDate),
	}
}

// FindAll returns every client sorted by _id. ObjectIDs start with their
// creation second, so this approximates insertion order.
func (r *ClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoClient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	out := make([]*domain.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ClientRepository) FindByMail(ctx context.Context, mail string) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"mail": mail})
}

func (r *ClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoClient
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts a new client. A duplicate mail surfaces as domain.ErrMailTaken.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newMongoClient(c)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMailTaken
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets only the fields present in patch.
func (r *ClientRepository) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	set := patchSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoClient
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrClientNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrMailTaken
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return doc.toDomain(), nil
}

// patchSet returns the $set document for the fields present in patch.
func patchSet(patch domain.ClientPatch) bson.M {
	set := bson.M{}
	for field, v := range map[string]*string{
		"name":       patch.Name,
		"last_name":  patch.LastName,
		"birth_date": patch.BirthDate,
		"direction":  patch.Direction,
		"mail":       patch.Mail,
		"phone":      patch.Phone,
	} {
		if v != nil {
			set[field] = *v
		}
	}
	return set
}

// Deactivate flips status from true to false in a single conditional update.
// When nothing matched, a follow-up read tells unknown from already inactive.
func (r *ClientRepository) Deactivate(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	uctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoClient
	err = r.col.FindOneAndUpdate(uctx,
		bson.M{"_id": oid, "status": true},
		bson.M{"$set": bson.M{"status": false}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("deactivate client: %w", err)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrClientInactive
}

// EnsureIndexes creates the unique mail index backing the uniqueness rule.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mail", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_client_mail"),
	})
	return err
}
