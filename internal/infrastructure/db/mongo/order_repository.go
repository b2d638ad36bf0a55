package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mipipizza/order-system/internal/core/domain"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoCartItem struct {
	Name        string   `bson:"name"`
	Size        string   `bson:"size"`
	Price       float64  `bson:"price"`
	Quantity    int      `bson:"quantity"`
	Ingredients []string `bson:"ingredients,omitempty"`
	Sauce       string   `bson:"sauce"`
	IsCustom    bool     `bson:"is_custom"`
}

type mongoOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName  string             `bson:"customer_name"`
	Address       string             `bson:"address"`
	References    string             `bson:"references,omitempty"`
	Phone         string             `bson:"phone"`
	PaymentMethod string             `bson:"payment_method"`
	Total         float64            `bson:"total"`
	CartItems     []mongoCartItem    `bson:"cart_items"`
	Status        string             `bson:"status"`
	UserID        primitive.ObjectID `bson:"user_id"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toMongoOrder(o *domain.Order) (*mongoOrder, error) {
	userOID, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := &mongoOrder{
		CustomerName:  o.CustomerName,
		Address:       o.Address,
		References:    o.References,
		Phone:         o.Phone,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Status:        string(o.Status),
		UserID:        userOID,
		CreatedAt:     o.CreatedAt.UTC(),
		UpdatedAt:     o.UpdatedAt.UTC(),
	}
	for _, item := range o.CartItems {
		doc.CartItems = append(doc.CartItems, mongoCartItem(item))
	}
	return doc, nil
}

func (m *mongoOrder) toDomain() *domain.Order {
	o := &domain.Order{
		ID:            m.ID.Hex(),
		CustomerName:  m.CustomerName,
		Address:       m.Address,
		References:    m.References,
		Phone:         m.Phone,
		PaymentMethod: m.PaymentMethod,
		Total:         m.Total,
		Status:        domain.OrderStatus(m.Status),
		UserID:        m.UserID.Hex(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.CartItems {
		o.CartItems = append(o.CartItems, domain.CartItem(item))
	}
	return o
}

// Create inserts a new order document and writes the generated id back.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoOrder(o)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var doc mongoOrder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindActiveByUser returns the user's single order still in flight. Orders
// in a terminal status (Delivered, or Canceled in place) do not count.
func (r *OrderRepository) FindActiveByUser(ctx context.Context, userID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	filter := bson.M{
		"user_id": userOID,
		"status": bson.M{"$nin": []string{
			string(domain.StatusDelivered),
			string(domain.StatusCanceled),
		}},
	}

	var doc mongoOrder
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.list(ctx, bson.M{"user_id": userOID})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	for cursor.Next(ctx) {
		var doc mongoOrder
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, doc.toDomain())
	}
	return orders, cursor.Err()
}

// UpdateStatus overwrites the status and returns the updated document.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoOrder
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the order queries depend on.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
