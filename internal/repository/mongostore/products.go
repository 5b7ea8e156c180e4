// internal/repository/mongostore/products.go
package mongostore

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
)

type productRepository struct {
	store *Store
	coll  *mongo.Collection
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	product.EnsureID()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	doc := newProductDocument(product)
	doc.Reviews = []reviewDocument{}
	_, err := r.coll.InsertOne(r.store.bind(ctx), doc)
	return translate(err)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}, notDeleted})
}

// LockByID reads the product. Concurrent writers inside transactions are
// caught by the write conflict on the document and by UpdateStock's guard.
func (r *productRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}, notDeleted})
}

func (r *productRepository) Search(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	params := query.PaginationParams.Normalize()
	filter := productFilter(query)
	ctx = r.store.bind(ctx)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}

	direction := -1
	if params.Order == "asc" {
		direction = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: params.SortField(repository.ProductSortFields), Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit)).
		SetProjection(bson.M{"reviews": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, *doc.model())
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.D{{Key: "_id", Value: product.ID.String()}, notDeleted},
		bson.M{"$set": bson.M{
			"name":          product.Name,
			"slug":          product.Slug,
			"description":   product.Description,
			"price":         product.Price,
			"category":      string(product.Category),
			"images":        append([]string{}, product.Images...),
			"primary_image": product.PrimaryImage,
			"featured":      product.Featured,
			"discount":      product.Discount,
			"updated_at":    now,
		}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	product.UpdatedAt = now
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.D{{Key: "_id", Value: id.String()}, notDeleted},
		bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	ctx = r.store.bind(ctx)
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{notDeleted}, opts)
	if err != nil {
		return nil, translate(err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, parseID(doc.ID))
	}
	return ids, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id uuid.UUID, expected, next int) error {
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.D{{Key: "_id", Value: id.String()}, {Key: "quantity", Value: expected}, notDeleted},
		bson.M{"$set": bson.M{
			"quantity":   next,
			"in_stock":   next > 0,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 1 {
		return nil
	}
	return r.missOrConflict(ctx, id, repository.ErrStockConflict)
}

// AddReview pushes the review and sets the aggregates in one document update.
// The filter refuses a second review by the same author.
func (r *productRepository) AddReview(ctx context.Context, productID uuid.UUID, review *models.Review, average float64, count int) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	review.ProductID = productID

	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.D{
			{Key: "_id", Value: productID.String()},
			notDeleted,
			{Key: "reviews.user_id", Value: bson.M{"$ne": review.UserID.String()}},
		},
		bson.M{
			"$push": bson.M{"reviews": newReviewDocument(review)},
			"$set":  bson.M{"average_rating": average, "ratings_count": count},
		},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 1 {
		return nil
	}
	return r.missOrConflict(ctx, productID, repository.ErrDuplicate)
}

func (r *productRepository) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID, average float64, count int) error {
	result, err := r.coll.UpdateOne(r.store.bind(ctx),
		bson.D{
			{Key: "_id", Value: productID.String()},
			notDeleted,
			{Key: "reviews._id", Value: reviewID.String()},
		},
		bson.M{
			"$pull": bson.M{"reviews": bson.M{"_id": reviewID.String()}},
			"$set":  bson.M{"average_rating": average, "ratings_count": count},
		},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) findOne(ctx context.Context, filter bson.D) (*models.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(r.store.bind(ctx), filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	product := doc.model()
	sort.SliceStable(product.Reviews, func(i, j int) bool {
		return product.Reviews[i].CreatedAt.After(product.Reviews[j].CreatedAt)
	})
	return product, nil
}

// missOrConflict explains a guarded update that matched nothing: either the
// product is gone or the guard failed.
func (r *productRepository) missOrConflict(ctx context.Context, id uuid.UUID, conflict error) error {
	n, err := r.coll.CountDocuments(r.store.bind(ctx), bson.D{{Key: "_id", Value: id.String()}, notDeleted})
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return conflict
}

func productFilter(query repository.ProductQuery) bson.D {
	filter := bson.D{notDeleted}

	if query.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: query.Category})
	}

	if query.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}})
	}

	if query.Featured != nil {
		filter = append(filter, bson.E{Key: "featured", Value: *query.Featured})
	}

	if query.InStock != nil {
		filter = append(filter, bson.E{Key: "in_stock", Value: *query.InStock})
	}

	price := bson.M{}
	if query.PriceMin != nil {
		price["$gte"] = *query.PriceMin
	}
	if query.PriceMax != nil {
		price["$lte"] = *query.PriceMax
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "price", Value: price})
	}

	if query.StockBelow != nil {
		filter = append(filter, bson.E{Key: "quantity", Value: bson.M{"$lt": *query.StockBelow}})
	}

	return filter
}
