// Package ingest reads raw order exports (local CSV files or S3 objects) and
// hands them to the normalizer. It owns no validation semantics of its own:
// header mapping and value checks live in the orders package.
package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

// ReadOrders decodes a CSV stream into normalized order records. The first
// row is the header; LazyQuotes tolerates the mixed quoting of spreadsheet
// exports.
func ReadOrders(r io.Reader) ([]orders.OrderRecord, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 256*1024))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &orders.SchemaError{Field: "header", Reason: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	mapping, err := orders.MapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	recs, err := orders.Normalize(mapping, rows)
	if err != nil {
		return nil, err
	}
	log.Printf("[ingest] normalized %d order records", len(recs))
	return recs, nil
}

// ReadOrdersFile loads a local CSV export.
func ReadOrdersFile(path string) ([]orders.OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open orders file: %w", err)
	}
	defer f.Close()
	return ReadOrders(f)
}

// S3Loader fetches order exports from an S3 bucket.
type S3Loader struct {
	client *s3.Client
	bucket string
}

// NewS3Loader builds an S3-backed loader using the default credential chain,
// or a shared profile when one is configured.
func NewS3Loader(ctx context.Context, region, profile, bucket string) (*S3Loader, error) {
	var awsCfg aws.Config
	var err error
	if profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Loader{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

// Load fetches one object and decodes it as an order CSV.
func (l *S3Loader) Load(ctx context.Context, key string) ([]orders.OrderRecord, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get S3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	log.Printf("[ingest] loading s3://%s/%s", l.bucket, key)
	return ReadOrders(out.Body)
}
