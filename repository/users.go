package repository

import (
	"context"
	"log/slog"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollection = "users"

// UserRepository stores users. Password hashes are only read by FindCredentials.
type UserRepository struct {
	docs *Collection[models.User, *models.User]
}

func NewUserRepository(db *mongo.Database, log *slog.Logger) *UserRepository {
	return &UserRepository{
		docs: newCollection[models.User](db.Collection(UsersCollection), log,
			[]string{"name", "email", "phoneNumber"}, []string{"password"}),
	}
}

// Create inserts u; an email already in use yields ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.docs.Create(ctx, u); err != nil {
		return nil, err
	}
	created := *u
	created.Password = ""
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.docs.FindOne(ctx, bson.M{"_id": id}, nil)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.docs.FindOne(ctx, bson.M{"email": email}, nil)
}

// FindCredentials returns the user with its password hash
func (r *UserRepository) FindCredentials(ctx context.Context, email string) (*models.User, error) {
	return r.docs.FindOne(ctx, bson.M{"email": email}, allFields)
}

// FindOrCreateByEmail returns the user owning u.Email, inserting u when there is none
func (r *UserRepository) FindOrCreateByEmail(ctx context.Context, u *models.User) (*models.User, bool, error) {
	return r.docs.FindOrCreate(ctx, bson.M{"email": u.Email}, u)
}

func (r *UserRepository) Paginate(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	return r.docs.Paginate(ctx, PaginateOptions{Query: q})
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, in models.UpdateUserInput) (*models.User, error) {
	update, err := r.docs.setUpdate(in)
	if err != nil {
		return nil, err
	}
	return r.docs.FindOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.docs.DeleteOne(ctx, bson.M{"_id": id})
}
