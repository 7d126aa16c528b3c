// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/staranto/awspcgo/internal/policy"
)

// Name is the fixed logical name of the cache, used both as the local
// filename and as the S3 object key.
const Name = "policy_cache.bin"

// ObjectAPI is the slice of the S3 surface the store needs. *s3.Client
// satisfies it; tests substitute a fake.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// State is the explicit lifecycle of the store. Distinguishing Unloaded from
// Empty is what lets Load be a no-op after the first call even when the
// backing store held nothing.
type State int

const (
	// Unloaded means Load has not been called yet.
	Unloaded State = iota
	// Empty means the backing store was read and held no entries.
	Empty
	// Loaded means at least one entry is in memory.
	Loaded
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// LoadError wraps a remote read failure that is not the "key missing"
// bootstrap case. It is fatal; there is no retry built in.
type LoadError struct {
	Bucket string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load policy cache from bucket %s: %v", e.Bucket, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store maps policy ARNs to their resolved details. It is constructed once
// at startup and passed by pointer; there is no package-level state. Single
// writer, single process: concurrent processes sharing a bucket race on
// Save with last-writer-wins.
type Store struct {
	path    string
	bucket  string
	s3      ObjectAPI
	state   State
	entries map[string]policy.Detail
}

// Option customizes a Store.
type Option func(*Store)

// WithBucket switches the store to remote mode: loads read the cache object
// from the bucket, and saves upload the local file to it.
func WithBucket(bucket string, api ObjectAPI) Option {
	return func(s *Store) {
		s.bucket = bucket
		s.s3 = api
	}
}

// WithPath overrides the local file path.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// NewStore constructs an unloaded Store backed by DefaultPath, adjusted by
// any options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		path:    DefaultPath(),
		entries: map[string]policy.Detail{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath resolves the local cache file location.
// Precedence:
//  1. AWSPC_CACHE_DIR, if set and non-empty
//  2. the current working directory
func DefaultPath() string {
	if dir, ok := os.LookupEnv("AWSPC_CACHE_DIR"); ok && dir != "" {
		return filepath.Join(dir, Name)
	}
	return Name
}

// Load reads the backing store into memory. Once the store is loaded
// (empty or not) further calls return the in-memory mapping without I/O, so
// entries written by this process are never clobbered by a stale re-read.
// A missing backing object is the first-run case, not an error.
func (s *Store) Load(ctx context.Context) (map[string]policy.Detail, error) {
	if s.state != Unloaded {
		return s.entries, nil
	}

	if s.bucket != "" {
		if err := s.loadRemote(ctx); err != nil {
			return nil, err
		}
	} else {
		if err := s.loadLocal(); err != nil {
			return nil, err
		}
	}

	s.state = Empty
	if len(s.entries) > 0 {
		s.state = Loaded
	}
	log.Debugf("policy cache loaded: %d entries (%s)", len(s.entries), s.state)

	return s.entries, nil
}

func (s *Store) loadRemote(ctx context.Context) error {
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			// First run against this bucket.
			return nil
		}
		return &LoadError{Bucket: s.bucket, Err: err}
	}
	defer out.Body.Close()

	if err := s.decode(out.Body); err != nil {
		return &LoadError{Bucket: s.bucket, Err: err}
	}
	return nil
}

func (s *Store) loadLocal() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// First run on this machine.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open policy cache %s: %w", s.path, err)
	}
	defer f.Close()

	if err := s.decode(f); err != nil {
		return fmt.Errorf("failed to decode policy cache %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	// Tolerate an empty backing object.
	if len(data) == 0 {
		return nil
	}

	entries := map[string]policy.Detail{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}

// Save serializes the full mapping to the local file and, in remote mode,
// uploads that file to the bucket (creating it if needed). Every save is a
// complete rewrite, which is fine for a periodic audit and nothing hotter.
func (s *Store) Save(ctx context.Context) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.entries); err != nil {
		return fmt.Errorf("failed to encode policy cache: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write policy cache %s: %w", s.path, err)
	}

	if s.bucket == "" {
		return nil
	}

	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to reopen policy cache %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(Name),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("failed to upload policy cache to bucket %s: %w", s.bucket, err)
	}

	log.Debugf("policy cache saved: %d entries", len(s.entries))
	return nil
}

// ensureBucket creates the cache bucket if it does not already exist.
func (s *Store) ensureBucket(ctx context.Context) error {
	_, err := s.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to create cache bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Get returns the detail for arn, if present.
func (s *Store) Get(arn string) (policy.Detail, bool) {
	d, ok := s.entries[arn]
	return d, ok
}

// Put inserts the detail for arn. Entries are immutable: a second Put for
// the same ARN is ignored. Put requires a prior Load; inserting into an
// Unloaded store would let a later Load clobber the backing file.
func (s *Store) Put(arn string, d policy.Detail) {
	if s.state == Unloaded {
		panic("cache: Put called before Load")
	}
	if _, ok := s.entries[arn]; ok {
		return
	}
	s.entries[arn] = d
	s.state = Loaded
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// State returns the store lifecycle state.
func (s *Store) State() State {
	return s.state
}

// Path returns the local backing file path.
func (s *Store) Path() string {
	return s.path
}

// Bucket returns the remote bucket name, or "" in local mode.
func (s *Store) Bucket() string {
	return s.bucket
}
