package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mipipizza/order-system/internal/core/domain"
)

const (
	collectionCompleted = "completed_orders"
	collectionCanceled  = "canceled_orders"
)

// ArchiveRepository persists completed and canceled orders. Writes are
// upserts keyed by the source order id: re-running an interrupted archive
// produces the same single document.
type ArchiveRepository struct {
	completed *mongo.Collection
	canceled  *mongo.Collection
}

func NewArchiveRepository(db *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{
		completed: db.Collection(collectionCompleted),
		canceled:  db.Collection(collectionCanceled),
	}
}

type mongoArchivedOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OrderID       primitive.ObjectID `bson:"order_id"`
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
	CompletedAt   *time.Time         `bson:"completed_at,omitempty"`
	CanceledAt    *time.Time         `bson:"canceled_at,omitempty"`
	CanceledBy    string             `bson:"canceled_by,omitempty"`
}

func toMongoArchived(a *domain.ArchivedOrder) (*mongoArchivedOrder, error) {
	base, err := toMongoOrder(&a.Order)
	if err != nil {
		return nil, err
	}
	orderOID, err := primitive.ObjectIDFromHex(a.OrderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	return &mongoArchivedOrder{
		OrderID:       orderOID,
		CustomerName:  base.CustomerName,
		Address:       base.Address,
		References:    base.References,
		Phone:         base.Phone,
		PaymentMethod: base.PaymentMethod,
		Total:         base.Total,
		CartItems:     base.CartItems,
		Status:        string(a.Status),
		UserID:        base.UserID,
		CreatedAt:     base.CreatedAt,
		UpdatedAt:     base.UpdatedAt,
		CompletedAt:   a.CompletedAt,
		CanceledAt:    a.CanceledAt,
		CanceledBy:    string(a.CanceledBy),
	}, nil
}

func (m *mongoArchivedOrder) toDomain() *domain.ArchivedOrder {
	order := mongoOrder{
		ID:            m.ID,
		CustomerName:  m.CustomerName,
		Address:       m.Address,
		References:    m.References,
		Phone:         m.Phone,
		PaymentMethod: m.PaymentMethod,
		Total:         m.Total,
		CartItems:     m.CartItems,
		Status:        m.Status,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	return &domain.ArchivedOrder{
		Order:       *order.toDomain(),
		OrderID:     m.OrderID.Hex(),
		CompletedAt: m.CompletedAt,
		CanceledAt:  m.CanceledAt,
		CanceledBy:  domain.CancelActor(m.CanceledBy),
	}
}

func (r *ArchiveRepository) UpsertCompleted(ctx context.Context, a *domain.ArchivedOrder) error {
	return r.upsert(ctx, r.completed, a)
}

func (r *ArchiveRepository) UpsertCanceled(ctx context.Context, a *domain.ArchivedOrder) error {
	return r.upsert(ctx, r.canceled, a)
}

func (r *ArchiveRepository) upsert(ctx context.Context, col *mongo.Collection, a *domain.ArchivedOrder) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoArchived(a)
	if err != nil {
		return err
	}

	filter := bson.M{"order_id": doc.OrderID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err = col.UpdateOne(ctx, filter, update, opts)
	return err
}

// ListCompleted returns the completed archive sorted by completion time
// descending.
func (r *ArchiveRepository) ListCompleted(ctx context.Context) ([]*domain.ArchivedOrder, error) {
	return r.list(ctx, r.completed, bson.D{{Key: "completed_at", Value: -1}})
}

func (r *ArchiveRepository) ListCanceled(ctx context.Context) ([]*domain.ArchivedOrder, error) {
	return r.list(ctx, r.canceled, bson.D{{Key: "canceled_at", Value: -1}})
}

func (r *ArchiveRepository) list(ctx context.Context, col *mongo.Collection, sort bson.D) ([]*domain.ArchivedOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []*domain.ArchivedOrder{}
	for cursor.Next(ctx) {
		var doc mongoArchivedOrder
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, doc.toDomain())
	}
	return orders, cursor.Err()
}

// SalesSummary folds revenue and count over the completed collection with a
// single aggregation.
func (r *ArchiveRepository) SalesSummary(ctx context.Context) (float64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.completed.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
		Count int64   `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, err
		}
	}
	return result.Total, result.Count, cursor.Err()
}

// EnsureIndexes enforces one archive document per source order.
func (r *ArchiveRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := r.completed.Indexes().CreateOne(ctx, unique); err != nil {
		return err
	}
	_, err := r.canceled.Indexes().CreateOne(ctx, unique)
	return err
}
