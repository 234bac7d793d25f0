package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/disgoorg/auction-bot/auctionbot/economy/auction"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReceiptService archives settlement receipts as JSON objects in a Spaces bucket.
type ReceiptService struct {
	client objectPutter
	bucket string
	root   string
}

var _ auction.ReceiptSink = (*ReceiptService)(nil)

func NewReceiptService(key, secret, region, bucket, root string) (*ReceiptService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return newReceiptService(s3.NewFromConfig(cfg), bucket, root), nil
}

func newReceiptService(client objectPutter, bucket, root string) *ReceiptService {
	return &ReceiptService{
		client: client,
		bucket: bucket,
		root:   strings.Trim(root, "/"),
	}
}

// ObjectKey builds the key of a receipt, e.g. receipts/42/12-<uuid>.json.
func (s *ReceiptService) ObjectKey(r auction.Receipt) string {
	name := fmt.Sprintf("%s/%d-%s.json", r.GuildID, r.AuctionID, uuid.NewString())
	if s.root == "" {
		return name
	}
	return s.root + "/" + name
}

func (s *ReceiptService) StoreReceipt(ctx context.Context, r auction.Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	key := s.ObjectKey(r)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload receipt %s: %w", key, err)
	}

	slog.Debug("Auction receipt stored",
		slog.String("type", "auction"),
		slog.String("bucket", s.bucket),
		slog.String("key", key))
	return nil
}
