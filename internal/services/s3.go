package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"garrison/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReportStore uploads ledger reports to object storage.
type ReportStore struct {
	client     *s3.Client
	bucketName string
	logger     *logger.Logger
}

func NewReportStore(bucketName, endpoint, region, accessKey, secretKey string) (*ReportStore, error) {
	log := logger.New("report_store")

	if accessKey == "" || secretKey == "" {
		return nil, log.Error("S3 credentials are empty ❌", fmt.Errorf("accessKey or secretKey is empty"))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("Unable to load SDK config ❌", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &ReportStore{
		client:     client,
		bucketName: bucketName,
		logger:     log,
	}, nil
}

// UploadReport stores a rendered report under reports/<baseID>/<date>.csv
// and returns the object key.
func (r *ReportStore) UploadReport(ctx context.Context, baseID string, asOf time.Time, body []byte) (string, error) {
	key := fmt.Sprintf("reports/%s/%s.csv", baseID, asOf.Format("2006-01-02"))

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", r.logger.Error("Failed to upload report", err)
	}

	r.logger.Success("Uploaded report %s", key)
	return key, nil
}
