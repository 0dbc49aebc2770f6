package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"surveylens/internal/model"
)

// ArchivedReport is the document written to object storage after a run
type ArchivedReport struct {
	Run       *model.AnalysisRun `json:"run"`
	Summaries []*model.Summary   `json:"summaries"`
}

// ReportArchive stores finished analysis reports outside the database
type ReportArchive interface {
	// Archive writes the report and returns its object key
	Archive(ctx context.Context, report *ArchivedReport) (string, error)
}

// S3Config configures an S3-compatible archive
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type s3Archive struct {
	client     *minio.Client
	bucketName string
	region     string
	initMu     sync.Mutex
	ready      bool
}

// NewS3Archive creates a MinIO-backed report archive
func NewS3Archive(cfg S3Config) (ReportArchive, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &s3Archive{client: client, bucketName: bucket, region: region}, nil
}

// ensureBucket checks for (or creates) the bucket until it succeeds once
func (s *s3Archive) ensureBucket(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

func (s *s3Archive) Archive(ctx context.Context, report *ArchivedReport) (string, error) {
	if report == nil || report.Run == nil {
		return "", fmt.Errorf("report is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	content, err := json.Marshal(report)
	if err != nil {
		return "", err
	}

	key := ArchiveKey(report.Run.SurveyID, report.Run.FinishedAt)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// ArchiveKey is the object key of a survey report finished at t
func ArchiveKey(surveyID string, t time.Time) string {
	return fmt.Sprintf("surveys/%s/analysis/%s.json", surveyID, t.UTC().Format("20060102T150405.000Z"))
}

type noopArchive struct{}

// NewNoopArchive returns an archive that stores nothing
func NewNoopArchive() ReportArchive {
	return noopArchive{}
}

func (noopArchive) Archive(ctx context.Context, report *ArchivedReport) (string, error) {
	return "", nil
}
