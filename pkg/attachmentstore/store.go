package attachmentstore

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/freeflowuniverse/heromail/pkg/message"
)

const (
	dataKeyPrefix = "attach:data:"
	metaKeyPrefix = "attach:meta:"
)

// Meta is the stored metadata record of one extracted attachment.
type Meta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Mailbox     string `json:"mailbox"`
	MessageUID  uint32 `json:"message_uid"`
	PartPath    string `json:"part_path"`
}

// Store persists extracted attachment bytes and metadata in Redis.
// Entries are keyed by a content hash, so saving the same attachment
// twice is idempotent.
type Store struct {
	client *redis.Client
}

// New creates a store talking to the Redis server at addr.
func New(addr string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			DB:           db,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}),
	}
}

// ContentKey returns the Blake2b-192 hex digest used as the storage
// key for a payload.
func ContentKey(content []byte) (string, error) {
	hash, err := blake2b.New(24, nil)
	if err != nil {
		return "", fmt.Errorf("creating Blake2b hash: %w", err)
	}
	if _, err := hash.Write(content); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Save fetches an attachment's decoded content through its message and
// stores the bytes (base64 encoded) plus a metadata record. It returns
// the content key.
func (s *Store) Save(ctx context.Context, msg *message.Message, att *message.Attachment) (string, error) {
	content, err := att.Content()
	if err != nil {
		return "", fmt.Errorf("reading attachment %q: %w", att.Filename(), err)
	}

	key, err := ContentKey(content)
	if err != nil {
		return "", err
	}

	meta := Meta{
		Filename:    att.Filename(),
		ContentType: att.ContentType(),
		Size:        len(content),
		Mailbox:     msg.Mailbox(),
		MessageUID:  msg.UID(),
		PartPath:    att.PartPath(),
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata for %q: %w", att.Filename(), err)
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	if err := s.client.Set(ctx, dataKeyPrefix+key, encoded, 0).Err(); err != nil {
		return "", fmt.Errorf("storing attachment data: %w", err)
	}
	if err := s.client.Set(ctx, metaKeyPrefix+key, string(metaJSON), 0).Err(); err != nil {
		return "", fmt.Errorf("storing attachment metadata: %w", err)
	}

	return key, nil
}

// Load returns the decoded content and metadata stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, *Meta, error) {
	encoded, err := s.client.Get(ctx, dataKeyPrefix+key).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("loading attachment data for %s: %w", key, err)
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding attachment data for %s: %w", key, err)
	}

	metaJSON, err := s.client.Get(ctx, metaKeyPrefix+key).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("loading attachment metadata for %s: %w", key, err)
	}
	var meta Meta
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling attachment metadata for %s: %w", key, err)
	}

	return content, &meta, nil
}

// List returns the content keys of every stored attachment, collected
// with SCAN to avoid blocking the server on large keyspaces.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := s.client.Scan(ctx, cursor, metaKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning attachment keys: %w", err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, metaKeyPrefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Delete removes one stored attachment's data and metadata.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, dataKeyPrefix+key, metaKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("deleting attachment %s: %w", key, err)
	}
	return nil
}
