package filestore

import (
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type S3FileStore struct {
	bucket    string
	cdnPrefix string
	uploader  *s3manager.Uploader
	svc       *s3.S3
}

// NewS3FileStore creates a store backed by the given bucket. Uploaded objects
// are publicly readable and served through the CDN prefix configured by
// MEDIA_CDN_PREFIX.
func NewS3FileStore(bucket string) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, err
	}

	return &S3FileStore{
		bucket:    bucket,
		cdnPrefix: os.Getenv("MEDIA_CDN_PREFIX"),
		uploader:  s3manager.NewUploader(sess),
		svc:       s3.New(sess),
	}, nil
}

// S3 key is a fresh uuid plus the original file extension, uploads never
// collide with each other.
func (s *S3FileStore) generateKey(fileName string) string {
	return uuid.New().String() + path.Ext(fileName)
}

func (s *S3FileStore) Store(fileName string, body io.Reader) (key string, url string, err error) {
	key = s.generateKey(fileName)
	_, err = s.uploader.Upload(&s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", "", err
	}
	return key, s.GetUrlFromKey(key), nil
}

func (s *S3FileStore) Delete(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := []*s3.ObjectIdentifier{}
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}
	// DeleteObjects treats missing keys as deleted, which is exactly the
	// idempotency the cleanup job needs.
	_, err := s.svc.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{Objects: objects},
	})
	return err
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	return s.cdnPrefix + key
}
