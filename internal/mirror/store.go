// Package mirror tur, kayıt ve müşteri verisinin MongoDB'deki kopyasını tutar.
// Ana veri PostgreSQL'dedir; buradaki koleksiyonlar yalnızca okunmak içindir.
package mirror

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionTours     = "tours"
	CollectionLedger    = "ledger_entries"
	CollectionCustomers = "customers"
)

// Sink belgeleri _id üzerinden yazan hedef.
type Sink interface {
	Upsert(ctx context.Context, collection string, docs []bson.M) (int64, error)
}

// Store MongoDB bağlantısı
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect bağlanır ve ping ile doğrular.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo adresi boş")
	}
	if dbName == "" {
		return nil, fmt.Errorf("mongo veritabanı adı boş")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo bağlantısı kurulamadı: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping başarısız: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Upsert her belgeyi _id ile değiştirir, yoksa ekler. Sırasız toplu yazma yapar.
func (s *Store) Upsert(ctx context.Context, collection string, docs []bson.M) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc["_id"]}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	res, err := s.db.Collection(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("%s koleksiyonuna yazılamadı: %w", collection, err)
	}
	return res.UpsertedCount + res.ModifiedCount, nil
}
