package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

type CustomerRepository struct {
	customers *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{customers: db.Collection(database.CustomersCollection)}
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	cursor, err := r.customers.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := make([]*models.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := r.customers.FindOne(ctx, bson.M{"_id": objID}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	customer.ID = primitive.NewObjectID()
	if customer.Membership == "" {
		customer.Membership = models.MembershipBronze
	}

	if _, err := r.customers.InsertOne(ctx, customer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update no toca user_id: un cliente no cambia de identidad
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.customers.UpdateOne(ctx, bson.M{"_id": customer.ID}, bson.M{"$set": bson.M{
		"phone":      customer.Phone,
		"birth_date": customer.BirthDate,
		"membership": customer.Membership,
	}})
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.customers.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreateByUser devuelve el cliente de la identidad y lo crea si no existe.
// El upsert sobre el índice único user_id evita duplicados con peticiones concurrentes.
func (r *CustomerRepository) GetOrCreateByUser(ctx context.Context, userID string) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        primitive.NewObjectID(),
		"membership": models.MembershipBronze,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	upsert := func() error {
		var existing models.Customer
		return r.customers.FindOneAndUpdate(ctx, filter, update, opts).Decode(&existing)
	}

	err := upsert()
	if mongo.IsDuplicateKeyError(err) {
		err = upsert()
	}

	created := false
	switch {
	case err == mongo.ErrNoDocuments:
		// no había documento previo: lo acabamos de insertar
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("get or create customer: %w", err)
	}

	var customer models.Customer
	if err := r.customers.FindOne(ctx, filter).Decode(&customer); err != nil {
		return nil, false, fmt.Errorf("load customer: %w", err)
	}
	return &customer, created, nil
}
