package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/encore-live/backstage-api/internal/core/domain"
)

const (
	accountCollection = "accounts"
	counterCollection = "counters"
	accountSequence   = "account_id"
)

// UserDirectory is the MongoDB-backed account store. Account ids are int64
// values allocated from a counter document, so they are unique and immutable
// across the collection.
type UserDirectory struct {
	accounts *mongo.Collection
	counters *mongo.Collection
}

func NewUserDirectory(db *mongo.Database) *UserDirectory {
	return &UserDirectory{
		accounts: db.Collection(accountCollection),
		counters: db.Collection(counterCollection),
	}
}

type accountDoc struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Suspended    bool   `bson:"suspended"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// EnsureIndexes creates the unique username and email indexes. Call once at
// startup; the duplicate-key mapping below depends on these index names.
func (d *UserDirectory) EnsureIndexes(ctx context.Context) error {
	_, err := d.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

func (d *UserDirectory) Create(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	id, err := d.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := accountDoc{
		ID:           id,
		Username:     acct.Username,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		Role:         string(acct.Role),
		Suspended:    acct.Suspended,
		CreatedAt:    acct.CreatedAt.Unix(),
		UpdatedAt:    acct.UpdatedAt.Unix(),
	}

	if _, err := d.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *acct
	created.ID = id
	return &created, nil
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return d.findOne(ctx, bson.M{"email": email})
}

func (d *UserDirectory) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return d.findOne(ctx, bson.M{"username": username})
}

func (d *UserDirectory) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return d.findOne(ctx, bson.M{"_id": id})
}

func (d *UserDirectory) Update(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	doc := accountDoc{
		ID:           acct.ID,
		Username:     acct.Username,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		Role:         string(acct.Role),
		Suspended:    acct.Suspended,
		CreatedAt:    acct.CreatedAt.Unix(),
		UpdatedAt:    acct.UpdatedAt.Unix(),
	}

	res, err := d.accounts.ReplaceOne(ctx, bson.M{"_id": acct.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return acct, nil
}

func (d *UserDirectory) Delete(ctx context.Context, id int64) error {
	res, err := d.accounts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (d *UserDirectory) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := d.accounts.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		ID:           doc.ID,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         domain.Role(doc.Role),
		Suspended:    doc.Suspended,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}, nil
}

// nextID atomically increments and returns the account id sequence.
func (d *UserDirectory) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := d.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": accountSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next account id: %w", err)
	}
	return counter.Seq, nil
}

// duplicateError picks the sentinel matching the violated unique index.
func duplicateError(err error) error {
	if strings.Contains(err.Error(), "uniq_username") {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
