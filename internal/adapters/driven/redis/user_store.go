package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/credentials-core/internal/core/domain"
	"github.com/custodia-labs/credentials-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

const (
	// Key prefixes for Redis
	userPrefix      = "user:"
	userEmailPrefix = "user:email:"
)

// userRecord is the stored form of a user. Unlike domain.User it
// serialises the password hash.
type userRecord struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Name      string      `json:"name"`
	BirthDate domain.Date `json:"birthDate"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	DeletedAt *time.Time  `json:"deletedAt"`
}

func toRecord(u *domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func (r userRecord) toUser() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Password:  r.Password,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DeletedAt: r.DeletedAt,
	}
}

// UserStore implements driven.UserStore using Redis.
// Each user is a JSON value under user:{id}; user:email:{email} points at
// the active account for that address.
type UserStore struct {
	client *redis.Client
}

// NewUserStore creates a new Redis-backed UserStore
func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

// FindActiveByEmail retrieves the non-deleted user with the given email
func (s *UserStore) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, userEmailPrefix+email).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email index: %w", err)
	}

	data, err := s.client.Get(ctx, userPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	if rec.DeletedAt != nil || rec.Email != email {
		return nil, domain.ErrNotFound
	}

	return rec.toUser(), nil
}

// createScript writes the user and claims the email index unless it
// already points at an active user. Returns 1 on success, 0 on conflict.
//
// KEYS[1] = user:{id}, KEYS[2] = user:email:{email}
// ARGV[1] = user JSON, ARGV[2] = id, ARGV[3] = user key prefix
//
// The script also reads the user key the email index already points at,
// which is not declared in KEYS. Redis Cluster rejects that access, so the
// store supports single-node (or primary/replica) Redis only.
var createScript = redis.NewScript(`
	local existing = redis.call("get", KEYS[2])
	if existing then
		local data = redis.call("get", ARGV[3] .. existing)
		if data then
			local rec = cjson.decode(data)
			if rec.deletedAt == nil or rec.deletedAt == cjson.null then
				return 0
			end
		end
	end
	redis.call("set", KEYS[1], ARGV[1])
	redis.call("set", KEYS[2], ARGV[2])
	return 1
`)

// Create stores a new user with a generated UUID.
// The email check and both writes happen in one script, so concurrent
// creates for the same address cannot both succeed.
func (s *UserStore) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		Password:  nu.Password,
		Name:      nu.Name,
		BirthDate: nu.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(toRecord(user))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	keys := []string{userPrefix + user.ID, userEmailPrefix + user.Email}
	created, err := createScript.Run(ctx, s.client, keys, data, user.ID, userPrefix).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if created == 0 {
		return nil, fmt.Errorf("email %s: %w", nu.Email, domain.ErrAlreadyExists)
	}

	return user, nil
}

// Ping checks if Redis is reachable
func (s *UserStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
