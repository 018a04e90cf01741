package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService resolves images hosted in a DigitalOcean Spaces bucket.
type SpacesService struct {
	client *s3.Client
	bucket string
	region string
	root   string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, root string) *SpacesService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &SpacesService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		root:   strings.Trim(root, "/"),
	}
}

func (s *SpacesService) key(name string) string {
	if s.root == "" {
		return name
	}
	return s.root + "/" + name
}

// PublicURL builds the CDN URL for an object, without checking existence.
func (s *SpacesService) PublicURL(name string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.key(name))
}

// Exists checks whether the object is present in the bucket.
func (s *SpacesService) Exists(ctx context.Context, name string) bool {
	key := s.key(name)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	return err == nil
}
