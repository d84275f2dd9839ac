package media

import (
	"context"
	"errors"
	"io"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testS3Config = S3Config{
	Region:       "us-east-1",
	AccessKey:    "minioadmin",
	SecretKey:    "minioadmin",
	BaseEndpoint: "http://127.0.0.1:9000",
	Bucket:       "covers",
}

// stubAWSConfig replaces the AWS config loader with one that needs no
// environment or network and records the load options.
func stubAWSConfig(t *testing.T) *awsconfig.LoadOptions {
	t.Helper()
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{
			Region:      lo.Region,
			Credentials: lo.Credentials,
		}, nil
	}
	return &lo
}

func TestNewS3Storage_AppliesConfig(t *testing.T) {
	lo := stubAWSConfig(t)

	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)
	assert.Equal(t, "covers", s.bucket)

	assert.Equal(t, "us-east-1", lo.Region)
	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minioadmin", creds.AccessKeyID)

	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(s.client.Options().BaseEndpoint))
	assert.True(t, s.client.Options().UsePathStyle)
}

func TestNewS3Storage_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Storage(context.Background(), testS3Config)
	assert.ErrorContains(t, err, "no config")
}

func TestS3Storage_Store(t *testing.T) {
	stubAWSConfig(t)
	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 5, 7, 23, 0, 0, 0, time.UTC) }

	orig := putObject
	t.Cleanup(func() { putObject = orig })

	var got *s3.PutObjectInput
	var body string
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		b, _ := io.ReadAll(in.Body)
		body = string(b)
		return &s3.PutObjectOutput{}, nil
	}

	ref, err := s.Store(context.Background(), Upload{
		Filename:    "Sunset.JPG",
		ContentType: "image/jpeg",
		Size:        5,
		Content:     strings.NewReader("pixel"),
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/covers/2024/5/7/[0-9a-f-]{36}\.jpg$`), ref)
	require.NotNil(t, got)
	assert.Equal(t, "covers", aws.ToString(got.Bucket))
	assert.Equal(t, strings.TrimPrefix(ref, RefPrefix), aws.ToString(got.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(got.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "pixel", body)
}

func TestS3Storage_Store_Error(t *testing.T) {
	stubAWSConfig(t)
	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)

	orig := putObject
	t.Cleanup(func() { putObject = orig })
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket gone")
	}

	_, err = s.Store(context.Background(), Upload{Filename: "a.png", Content: strings.NewReader("x")})
	assert.ErrorContains(t, err, "put object: bucket gone")
}

func TestS3Storage_Remove(t *testing.T) {
	stubAWSConfig(t)
	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)

	orig := deleteObject
	t.Cleanup(func() { deleteObject = orig })

	var got *s3.DeleteObjectInput
	deleteObject = func(_ *s3.Client, _ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		got = in
		return &s3.DeleteObjectOutput{}, nil
	}

	require.NoError(t, s.Remove(context.Background(), "uploads/covers/2024/5/7/a.png"))
	require.NotNil(t, got)
	assert.Equal(t, "covers", aws.ToString(got.Bucket))
	assert.Equal(t, "covers/2024/5/7/a.png", aws.ToString(got.Key))

	got = nil
	for _, bad := range []string{"covers/a.png", "uploads/other/a.png", "uploads/covers/../x"} {
		assert.ErrorIs(t, s.Remove(context.Background(), bad), ErrBadRef, bad)
	}
	assert.Nil(t, got, "no request for a foreign reference")

	deleteObject = func(*s3.Client, context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("access denied")
	}
	assert.ErrorContains(t, s.Remove(context.Background(), "uploads/covers/a.png"), "delete object: access denied")
}

func TestS3Storage_PresignGet_RealSigner(t *testing.T) {
	stubAWSConfig(t)
	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)

	raw, err := s.PresignGet(context.Background(), "covers/2024/5/7/abc.jpg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/covers/covers/2024/5/7/abc.jpg", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Storage_PresignGet_Errors(t *testing.T) {
	stubAWSConfig(t)
	s, err := NewS3Storage(context.Background(), testS3Config)
	require.NoError(t, err)

	for _, key := range []string{"", "etc/passwd", "covers/../secret"} {
		_, err := s.PresignGet(context.Background(), key)
		assert.ErrorIs(t, err, ErrBadKey, key)
	}

	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signer broke")
	}

	_, err = s.PresignGet(context.Background(), "/covers/x.png")
	assert.ErrorContains(t, err, "signer broke")
}
