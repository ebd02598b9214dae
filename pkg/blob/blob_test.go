package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocal(root, "http://localhost:3000/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "receipts/25MAR-001.html", []byte("<html></html>"), "text/html"))
	data, err := d.Get(ctx, "/receipts/25MAR-001.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
	assert.FileExists(t, filepath.Join(root, "receipts", "25MAR-001.html"))
	assert.Equal(t, "http://localhost:3000/storage/receipts/25MAR-001.html", d.URL("receipts/25MAR-001.html"))

	require.NoError(t, d.Delete(ctx, "receipts/25MAR-001.html"))
	require.NoError(t, d.Delete(ctx, "receipts/25MAR-001.html"))
	_, err = d.Get(ctx, "receipts/25MAR-001.html")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_RejectsEscapingPaths(t *testing.T) {
	d, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	err = d.Put(context.Background(), "../outside.txt", []byte("x"), "")
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Options{Driver: "ftp"})
	assert.Error(t, err)
}

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, _ := io.ReadAll(in.Body)
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
	d := NewS3WithClient(api, "shop", "https://cdn.example.com/")

	require.NoError(t, d.Put(ctx, "/images/pen.png", []byte("png"), "image/png"))
	assert.Equal(t, "image/png", api.types["shop/images/pen.png"])

	data, err := d.Get(ctx, "images/pen.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "https://cdn.example.com/images/pen.png", d.URL("images/pen.png"))

	require.NoError(t, d.Delete(ctx, "images/pen.png"))
	_, err = d.Get(ctx, "images/pen.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3_PutError(t *testing.T) {
	api := &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}, putErr: errors.New("access denied")}
	d := NewS3WithClient(api, "shop", "")
	err := d.Put(context.Background(), "a.txt", []byte("x"), "")
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{})
	assert.Error(t, err)
}
