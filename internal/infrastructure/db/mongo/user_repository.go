package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acme/accounts-api/internal/core/authz"
	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

const usersCollection = "users"

// MongoUserRepository implements ports.UserRepository on MongoDB.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index. Call once at startup.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email,omitempty"`
	FirstName    string             `bson:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedBy    string             `bson:"created_by,omitempty"`
	Capabilities []string           `bson:"capabilities,omitempty"`
	IsActive     bool               `bson:"is_active"`
	IsStaff      bool               `bson:"is_staff"`
	IsSuperuser  bool               `bson:"is_superuser"`
	DateJoined   int64              `bson:"date_joined"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func toDoc(u *domain.User) mongoUser {
	return mongoUser{
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedBy:    u.CreatedBy,
		Capabilities: u.Capabilities,
		IsActive:     u.IsActive,
		IsStaff:      u.IsStaff,
		IsSuperuser:  u.IsSuperuser,
		DateJoined:   u.DateJoined.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func toDomain(mu mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		CreatedBy:    mu.CreatedBy,
		Capabilities: mu.Capabilities,
		IsActive:     mu.IsActive,
		IsStaff:      mu.IsStaff,
		IsSuperuser:  mu.IsSuperuser,
		DateJoined:   unixToTime(mu.DateJoined),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.InsertOne(ctx, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return r.FindByUsername(ctx, user.Username)
	}
	return r.findByObjectID(ctx, oid)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findByObjectID(ctx, oid)
}

func (r *MongoUserRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(mu), nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(mu), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"created_by":    user.CreatedBy,
		"capabilities":  user.Capabilities,
		"is_active":     user.IsActive,
		"is_staff":      user.IsStaff,
		"is_superuser":  user.IsSuperuser,
		"updated_at":    user.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.findByObjectID(ctx, oid)
}

// List applies the caller's visibility scope plus an optional search term
// and returns one page of rows, newest first.
func (r *MongoUserRepository) List(ctx context.Context, query ports.ListUsersQuery) ([]domain.User, int64, error) {
	filter := buildListFilter(query)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date_joined", Value: -1}}).
		SetSkip(int64((query.Page - 1) * query.Limit)).
		SetLimit(int64(query.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *toDomain(mu))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func buildListFilter(query ports.ListUsersQuery) bson.M {
	var clauses []bson.M

	if scope := scopeFilter(query.Scope); scope != nil {
		clauses = append(clauses, scope)
	}
	if query.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"username": pattern},
			{"email": pattern},
			{"first_name": pattern},
			{"last_name": pattern},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// scopeFilter translates the row-visibility scope into a query filter.
// Returns nil for the unrestricted (admin) scope.
func scopeFilter(scope authz.Scope) bson.M {
	if scope.All {
		return nil
	}

	// An unparseable owner id matches nothing rather than everything.
	ownClause := bson.M{"_id": bson.M{"$exists": false}}
	if oid, err := primitive.ObjectIDFromHex(scope.OwnerID); err == nil {
		ownClause = bson.M{"_id": oid}
	}

	if !scope.IncludeCreated {
		return ownClause
	}
	return bson.M{"$or": []bson.M{
		ownClause,
		{"created_by": scope.OwnerID},
	}}
}

func (r *MongoUserRepository) FindFriendsCreatedBy(ctx context.Context, creatorID string) ([]domain.User, error) {
	filter := bson.M{"created_by": creatorID, "role": string(domain.RoleFriend)}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date_joined", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find friends: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *toDomain(mu))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find friends: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *MongoUserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
