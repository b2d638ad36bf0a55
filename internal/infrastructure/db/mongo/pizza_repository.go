package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mipipizza/order-system/internal/core/domain"
)

const collectionPizzas = "pizzas"

type PizzaRepository struct {
	col *mongo.Collection
}

func NewPizzaRepository(db *mongo.Database) *PizzaRepository {
	return &PizzaRepository{col: db.Collection(collectionPizzas)}
}

type mongoPizza struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Ingredients []string           `bson:"ingredients"`
	Price       float64            `bson:"price"`
	Available   bool               `bson:"available"`
}

func (m *mongoPizza) toDomain() *domain.Pizza {
	return &domain.Pizza{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Ingredients: m.Ingredients,
		Price:       m.Price,
		Available:   m.Available,
	}
}

func (r *PizzaRepository) Create(ctx context.Context, p *domain.Pizza) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPizza{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Ingredients: p.Ingredients,
		Price:       p.Price,
		Available:   p.Available,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *PizzaRepository) List(ctx context.Context) ([]*domain.Pizza, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pizzas := []*domain.Pizza{}
	for cursor.Next(ctx) {
		var doc mongoPizza
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		pizzas = append(pizzas, doc.toDomain())
	}
	return pizzas, cursor.Err()
}

func (r *PizzaRepository) Update(ctx context.Context, p *domain.Pizza) (*domain.Pizza, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrPizzaNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"ingredients": p.Ingredients,
		"price":       p.Price,
		"available":   p.Available,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPizza
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPizzaNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PizzaRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPizzaNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPizzaNotFound
	}
	return nil
}
