// Package history archives executions into a lode dataset.
//
// Each Execute call becomes one JSONL record, partitioned by day and
// outcome. The dataset can live on the local filesystem or in S3 (or an
// S3-compatible store such as MinIO or R2).
package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/justapithecus/lode/lode"
	lodes3 "github.com/justapithecus/lode/lode/s3"
)

// DefaultDataset is the default dataset name.
const DefaultDataset = "pesto_history"

// partitionKeys is the Hive layout of the dataset.
var partitionKeys = []string{"day", "outcome"}

// S3Config holds configuration for the S3 storage backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not subdomain).
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a path in format "bucket/prefix" or "bucket".
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// Recorder writes and reads execution records.
type Recorder struct {
	dataset lode.Dataset
	name    string
	mu      sync.Mutex
}

// NewRecorder creates a recorder over the given store factory.
// Use lode.NewMemoryFactory() for testing.
func NewRecorder(dataset string, factory lode.StoreFactory) (*Recorder, error) {
	if dataset == "" {
		dataset = DefaultDataset
	}
	ds, err := lode.NewDataset(
		lode.DatasetID(dataset),
		factory,
		lode.WithHiveLayout(partitionKeys...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, wrap("init", dataset, err)
	}
	return &Recorder{dataset: ds, name: dataset}, nil
}

// NewFSRecorder creates a recorder storing the dataset under root.
func NewFSRecorder(dataset, root string) (*Recorder, error) {
	return NewRecorder(dataset, lode.NewFSFactory(root))
}

// NewS3Recorder creates a recorder storing the dataset in S3.
// Uses AWS SDK default credential chain (env vars, shared config, IAM role).
func NewS3Recorder(ctx context.Context, dataset string, s3cfg S3Config) (*Recorder, error) {
	if err := s3cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(s3cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if s3cfg.Endpoint != "" {
		endpoint := s3cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if s3cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	s3Client := s3.NewFromConfig(awsConfig, s3Opts...)

	factory := func() (lode.Store, error) {
		return lodes3.New(s3Client, lodes3.Config{
			Bucket: s3cfg.Bucket,
			Prefix: s3cfg.Prefix,
		})
	}
	return NewRecorder(dataset, factory)
}

// Dataset returns the dataset name.
func (r *Recorder) Dataset() string { return r.name }

// Record appends records as one snapshot.
func (r *Recorder) Record(ctx context.Context, recs ...Record) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([]any, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, toRecordMap(rec))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.dataset.Write(ctx, rows, lode.Metadata{}); err != nil {
		return wrap("write", r.name, err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit <= 0 returns
// every record. Rows that cannot be decoded are skipped.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	snapshots, err := r.dataset.Snapshots(ctx)
	if err != nil {
		return nil, wrap("read", r.name, err)
	}

	var out []Record
	// Snapshots are ordered by creation time; walk latest first.
	for i := len(snapshots) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		data, err := r.dataset.Read(ctx, snapshots[i].ID)
		if err != nil {
			return nil, wrap("read", r.name, err)
		}
		for _, item := range data {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rec, err := fromRecordMap(row)
			if err != nil {
				continue
			}
			out = append(out, rec)
		}
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
