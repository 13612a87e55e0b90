package sink

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/epark/newsharvest/article"
)

// scraperName tags every uploaded object's user metadata.
const scraperName = "guardian-lambda"

// ObjectUploader abstracts the object-storage client so the sink can be
// tested without a live endpoint.
type ObjectUploader interface {
	Upload(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error
}

// MinioUploader uploads objects through an S3-compatible endpoint using the
// MinIO client. AWS S3 itself works with endpoint "s3.amazonaws.com" and
// SSL enabled.
type MinioUploader struct {
	client *minio.Client
}

// NewMinioUploader creates an uploader with static credentials.
func NewMinioUploader(endpoint, accessKey, secretKey string, useSSL bool) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return &MinioUploader{client: client}, nil
}

// NewMinioUploaderFromEnvironment creates an uploader that picks up
// credentials from the standard AWS environment variables, which is how the
// Lambda execution role surfaces them.
func NewMinioUploaderFromEnvironment(endpoint string, useSSL bool) (*MinioUploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvAWS(),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return &MinioUploader{client: client}, nil
}

// Upload stores one object.
func (u *MinioUploader) Upload(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	_, err := u.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: metadata,
		})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// ObjectSink uploads a CSV summary blob plus one text blob per article.
// Keys are derived from the UTC run time:
//
//	<root>/YYYY/MM/DD/metadata/guardian_articles_summary_<YYYYMMDD>_<epoch-ms>.csv
//	<root>/YYYY/MM/DD/articles/<article-id>.txt
type ObjectSink struct {
	uploader   ObjectUploader
	bucket     string
	prefix     string
	dateStamp  string
	epochMilli int64
	logger     *log.Logger
}

// DefaultPrefixRoot is the key-prefix root used when none is configured.
const DefaultPrefixRoot = "english-news"

// NewObjectSink creates a sink writing under bucket with keys derived from
// the given run time. prefixRoot falls back to DefaultPrefixRoot when empty.
func NewObjectSink(uploader ObjectUploader, bucket, prefixRoot string, runTime time.Time) *ObjectSink {
	if prefixRoot == "" {
		prefixRoot = DefaultPrefixRoot
	}
	utc := runTime.UTC()
	return &ObjectSink{
		uploader:   uploader,
		bucket:     bucket,
		prefix:     fmt.Sprintf("%s/%04d/%02d/%02d", prefixRoot, utc.Year(), utc.Month(), utc.Day()),
		dateStamp:  utc.Format("20060102"),
		epochMilli: utc.UnixMilli(),
		logger:     log.Default(),
	}
}

// SetLogger replaces the sink's logger.
func (s *ObjectSink) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SummaryKey returns the object key of the summary CSV blob.
func (s *ObjectSink) SummaryKey() string {
	return fmt.Sprintf("%s/metadata/guardian_articles_summary_%s_%d.csv", s.prefix, s.dateStamp, s.epochMilli)
}

// articleKey returns the object key of one article's text blob.
func (s *ObjectSink) articleKey(r *article.Record) string {
	return fmt.Sprintf("%s/articles/%s.txt", s.prefix, r.ID)
}

// StoreSummary builds the summary CSV in memory and uploads it as a single
// blob. Failure here is fatal for the run.
func (s *ObjectSink) StoreSummary(ctx context.Context, records []article.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no articles to upload")
	}

	data, err := SummaryCSV(records)
	if err != nil {
		return "", err
	}

	key := s.SummaryKey()
	err = s.uploader.Upload(ctx, s.bucket, key, data, "text/csv", map[string]string{
		"scraper":       scraperName,
		"article-count": fmt.Sprintf("%d", len(records)),
		"scraped-at":    s.dateStamp,
	})
	if err != nil {
		return "", err
	}

	s.logger.Printf("Uploaded %d articles to s3://%s/%s", len(records), s.bucket, key)
	return key, nil
}

// StoreArticleTexts uploads one plain-text blob per record. A single
// record's failure is logged and skipped; the keys of the successful
// uploads are returned.
func (s *ObjectSink) StoreArticleTexts(ctx context.Context, records []article.Record) []string {
	uploaded := make([]string, 0, len(records))
	for i := range records {
		r := &records[i]
		key := s.articleKey(r)
		err := s.uploader.Upload(ctx, s.bucket, key, []byte(r.TextBlob()), "text/plain", map[string]string{
			"scraper":    scraperName,
			"article-id": r.ID.String(),
			"headline":   truncate(r.Headline, 100),
			"scraped-at": s.dateStamp,
		})
		if err != nil {
			s.logger.Printf("Failed to upload text blob for %s: %v", r.ID, err)
			continue
		}
		uploaded = append(uploaded, key)
	}

	s.logger.Printf("Uploaded %d article text files", len(uploaded))
	return uploaded
}

// truncate shortens s to at most n bytes for object metadata values.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
