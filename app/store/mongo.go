package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
)

const productCounter = "products"

// Mongo stores records in MongoDB. Product ids come from an atomic $inc on
// a document in the counters collection.
type Mongo struct {
	client   *mongo.Client
	products *mongo.Collection
	users    *mongo.Collection
	counters *mongo.Collection
	opts     options
}

// ConnectMongo dials uri and opens the store on database name.
func ConnectMongo(ctx context.Context, uri, name string, opts ...Option) (*Mongo, error) {
	client, err := mongo.Connect(ctx, mongoOptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}

	m, err := NewMongo(ctx, client.Database(name), opts...)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	m.client = client
	return m, nil
}

// NewMongo opens the store on db and ensures its indexes exist. Close does
// not disconnect a client it did not dial.
func NewMongo(ctx context.Context, db *mongo.Database, opts ...Option) (*Mongo, error) {
	m := &Mongo{
		products: db.Collection("products"),
		users:    db.Collection("users"),
		counters: db.Collection("counters"),
		opts:     buildOptions(opts),
	}

	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: mongoOptions.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("store: users index: %w", err)
	}

	_, err = m.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("store: products index: %w", err)
	}
	return m, nil
}

func (m *Mongo) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		mongoOptions.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(mongoOptions.After),
	).Decode(&counter)
	return counter.Seq, err
}

func (m *Mongo) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := catalog.CheckInput(in); err != nil {
		return models.Product{}, err
	}
	defer metrics.ObserveDBQuery("insert", time.Now())

	id, err := m.nextID(ctx)
	if err != nil {
		return models.Product{}, catalog.Unexpected("mongo.next_id", err)
	}

	p := models.Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		StockStatus: in.StockStatus,
		// BSON dates hold milliseconds.
		CreatedAt: m.opts.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := m.products.InsertOne(ctx, p); err != nil {
		return models.Product{}, catalog.Unexpected("mongo.create_product", err)
	}
	return p, nil
}

func (m *Mongo) GetProductByID(ctx context.Context, id int64) (models.Product, bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, catalog.Unexpected("mongo.get_product", err)
	}
	return p, true, nil
}

func (m *Mongo) GetProducts(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	filter := productFilter(q)
	total, err := m.products.CountDocuments(ctx, filter)
	if err != nil {
		return catalog.Page{}, catalog.Unexpected("mongo.count_products", err)
	}

	page := catalog.Page{Items: []models.Product{}, Total: int(total)}
	start, end := q.Bounds(page.Total)
	if start >= end {
		// A zero limit means "no limit" to the server.
		return page, nil
	}

	cur, err := m.products.Find(ctx, filter, mongoOptions.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(start)).
		SetLimit(int64(end-start)))
	if err != nil {
		return catalog.Page{}, catalog.Unexpected("mongo.list_products", err)
	}
	if err := cur.All(ctx, &page.Items); err != nil {
		return catalog.Page{}, catalog.Unexpected("mongo.list_products", err)
	}
	return page, nil
}

// productFilter expresses the category and search filters as a query
// document. Search text is matched literally.
func productFilter(q catalog.Query) bson.M {
	filter := bson.M{}
	if q.HasCategory() {
		filter["category"] = q.Category
	}
	if q.HasSearch() {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"category": re},
		}
	}
	return filter
}

func (m *Mongo) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())

	u := models.User{ID: uuid.NewString(), Username: in.Username, Password: in.Password}
	_, err := m.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return models.User{}, catalog.ErrDuplicateUsername
	}
	if err != nil {
		return models.User{}, catalog.Unexpected("mongo.create_user", err)
	}
	return u, nil
}

func (m *Mongo) GetUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var u models.User
	err := m.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, catalog.Unexpected("mongo.get_user", err)
	}
	return u, true, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.products.Database().Client().Ping(ctx, nil)
}

func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
