// This file contains write operations for the S3 content store.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/treepack/pkg/store/content"
)

// WriteContent uploads data as a single PutObject, replacing any existing
// object under the same key.
func (s *S3ContentStore) WriteContent(ctx context.Context, id content.ContentID, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getObjectKey(id)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put object for %s: %w", id, err)
	}

	return nil
}

// Delete removes the object. S3 DeleteObject succeeds for missing keys,
// which matches the idempotent contract.
func (s *S3ContentStore) Delete(ctx context.Context, id content.ContentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getObjectKey(id)),
	})
	if err != nil {
		return fmt.Errorf("delete object for %s: %w", id, err)
	}

	return nil
}
