// internal/repository/mongostore/inventory.go
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type inventoryRepository struct {
	store *Store
	coll  *mongo.Collection
}

func (r *inventoryRepository) Create(ctx context.Context, record *models.InventoryRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(r.store.bind(ctx), newRecordDocument(record))
	return translate(err)
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var doc recordDocument
	if err := r.coll.FindOne(r.store.bind(ctx), bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	record := doc.model()
	return &record, nil
}

func (r *inventoryRepository) LastSequence(ctx context.Context, productID uuid.UUID) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "sequence", Value: -1}}).
		SetProjection(bson.M{"sequence": 1})

	var doc struct {
		Sequence int64 `bson:"sequence"`
	}
	err := r.coll.FindOne(r.store.bind(ctx), bson.M{"product_id": productID.String()}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, translate(err)
	}
	return doc.Sequence, nil
}

func (r *inventoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	return r.find(ctx, bson.M{"product_id": productID.String()}, options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}}))
}

// History pages through the ledger newest first, then joins product and
// operator summaries with two follow-up lookups.
func (r *inventoryRepository) History(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.InventoryHistoryEntry, int64, error) {
	params = params.Normalize()
	filter := bson.M{"product_id": productID.String()}

	total, err := r.coll.CountDocuments(r.store.bind(ctx), filter)
	if err != nil {
		return nil, 0, translate(err)
	}

	records, err := r.find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "sequence", Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit)))
	if err != nil {
		return nil, 0, err
	}

	product, err := r.productSummary(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	operators, err := r.operatorSummaries(ctx, records)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]models.InventoryHistoryEntry, 0, len(records))
	for _, record := range records {
		operator, ok := operators[record.OperatorID]
		if !ok {
			operator = models.OperatorSummary{ID: record.OperatorID}
		}
		entries = append(entries, models.InventoryHistoryEntry{
			InventoryRecord: record,
			ProductSummary:  product,
			OperatorSummary: operator,
		})
	}
	return entries, total, nil
}

func (r *inventoryRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.InventoryRecord, error) {
	ctx = r.store.bind(ctx)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []recordDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	records := make([]models.InventoryRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.model())
	}
	return records, nil
}

// productSummary ignores soft deletion: history outlives the product.
func (r *inventoryRepository) productSummary(ctx context.Context, productID uuid.UUID) (models.ProductSummary, error) {
	opts := options.FindOne().SetProjection(bson.M{"name": 1, "category": 1, "price": 1})

	var doc productDocument
	err := r.store.db.Collection(productsCollection).
		FindOne(r.store.bind(ctx), bson.M{"_id": productID.String()}, opts).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProductSummary{ID: productID}, nil
	}
	if err != nil {
		return models.ProductSummary{}, translate(err)
	}
	return doc.model().Summary(), nil
}

func (r *inventoryRepository) operatorSummaries(ctx context.Context, records []models.InventoryRecord) (map[uuid.UUID]models.OperatorSummary, error) {
	summaries := make(map[uuid.UUID]models.OperatorSummary)
	if len(records) == 0 {
		return summaries, nil
	}

	seen := make(map[string]bool)
	ids := bson.A{}
	for _, record := range records {
		id := record.OperatorID.String()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	ctx = r.store.bind(ctx)
	opts := options.Find().SetProjection(bson.M{"username": 1, "display_name": 1})
	cursor, err := r.store.db.Collection(usersCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	for _, doc := range docs {
		user := doc.model()
		summaries[user.ID] = user.Summary()
	}
	return summaries, nil
}

var _ repository.InventoryRepository = (*inventoryRepository)(nil)
