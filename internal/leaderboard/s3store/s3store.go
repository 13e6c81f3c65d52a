// Package s3store is a leaderboard.Store on an S3 bucket. Put documents live
// at {prefix}/{path}.json and list children at {prefix}/{path}/{id}.json.
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/tomz197/runner/internal/leaderboard"
)

// ObjectAPI is the subset of the S3 client the store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store keeps leaderboard documents as JSON objects in a bucket.
type Store struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// New creates a store using api.
func New(api ObjectAPI, bucket, prefix string) *Store {
	return &Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Open loads the default AWS configuration for region and returns a store on bucket.
func Open(ctx context.Context, region, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, errors.New("s3store: bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3store: load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *Store) key(p string) string {
	return path.Join(s.prefix, strings.Trim(p, "/"))
}

// Put writes the document at path.
func (s *Store) Put(ctx context.Context, p string, record any) error {
	return s.putJSON(ctx, s.key(p)+".json", record)
}

// PushUnique writes record as a new child object of path.
func (s *Store) PushUnique(ctx context.Context, p string, record any) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("s3store: generate id: %w", err)
	}
	if err := s.putJSON(ctx, s.key(p)+"/"+id.String()+".json", record); err != nil {
		return "", err
	}
	return id.String(), nil
}

// Get reads the document at path. If there is none, the children under path
// are collected into one id → child object.
func (s *Store) Get(ctx context.Context, p string) (leaderboard.Snapshot, bool, error) {
	raw, ok, err := s.getObject(ctx, s.key(p)+".json")
	if err != nil {
		return leaderboard.Snapshot{}, false, err
	}
	if ok {
		return leaderboard.NewSnapshot(raw), true, nil
	}

	children, err := s.listChildren(ctx, s.key(p)+"/")
	if err != nil {
		return leaderboard.Snapshot{}, false, err
	}
	if len(children) == 0 {
		return leaderboard.Snapshot{}, false, nil
	}
	raw, err = json.Marshal(children)
	if err != nil {
		return leaderboard.Snapshot{}, false, fmt.Errorf("s3store: encode children: %w", err)
	}
	return leaderboard.NewSnapshot(raw), true, nil
}

func (s *Store) putJSON(ctx context.Context, key string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("s3store: encode %s: %w", key, err)
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3store: put %s: %w", key, err)
	}
	return nil
}

func (s *Store) getObject(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3store: get %s: %w", key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("s3store: read %s: %w", key, err)
	}
	return b, true, nil
}

// listChildren reads every direct .json child under prefix.
func (s *Store) listChildren(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	children := map[string]json.RawMessage{}
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket:    &s.bucket,
		Prefix:    &prefix,
		Delimiter: aws.String("/"),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3store: list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || !strings.HasSuffix(*obj.Key, ".json") {
				continue
			}
			raw, ok, err := s.getObject(ctx, *obj.Key)
			if err != nil {
				return nil, err
			}
			if !ok || !json.Valid(raw) {
				continue
			}
			id := strings.TrimSuffix(path.Base(*obj.Key), ".json")
			children[id] = raw
		}
	}
	return children, nil
}

var _ leaderboard.Store = (*Store)(nil)
