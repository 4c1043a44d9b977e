package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// objectStore is the part of *minio.Client the sink uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectSink uploads each batch as one CSV object using the history line
// format, named after the batch's first and last timestamps.
type ObjectSink struct {
	store  objectStore
	bucket string
	prefix string
}

func NewObjectSink(store objectStore, bucket, prefix string) *ObjectSink {
	return &ObjectSink{store: store, bucket: bucket, prefix: prefix}
}

func OpenObjectSink(cfg ObjectConfig) (*ObjectSink, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return NewObjectSink(client, cfg.Bucket, cfg.Prefix), nil
}

func (o *ObjectSink) Name() string { return "s3://" + o.bucket }

func (o *ObjectSink) EnsureBucket(ctx context.Context) error {
	ok, err := o.store.BucketExists(ctx, o.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if ok {
		return nil
	}
	if err := o.store.MakeBucket(ctx, o.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

func (o *ObjectSink) WriteBatch(ctx context.Context, samples []domain.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, s := range samples {
		buf.WriteString(s.Line())
		buf.WriteByte('\n')
	}

	name := path.Join(o.prefix, fmt.Sprintf("samples-%d-%d.csv", samples[0].Timestamp, samples[len(samples)-1].Timestamp))
	_, err := o.store.PutObject(ctx, o.bucket, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

var _ ports.Sink = (*ObjectSink)(nil)
