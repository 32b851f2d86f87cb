package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveDeleteURL(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/media/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "recipes/images/a.png", []byte("png"), "image/png"))
	data, err := os.ReadFile(filepath.Join(root, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	assert.Equal(t, "http://localhost:8080/media/recipes/images/a.png", store.URL("recipes/images/a.png"))
	assert.Empty(t, store.URL(""))

	require.NoError(t, store.Delete(ctx, "recipes/images/a.png"))
	require.NoError(t, store.Delete(ctx, "recipes/images/a.png"))
	_, err = os.Stat(filepath.Join(root, "recipes", "images", "a.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media")
	for _, key := range []string{"", "../secret", "a/../../b"} {
		assert.ErrorIs(t, store.Save(context.Background(), key, nil, ""), ErrInvalidKey, key)
	}
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestS3Store_Save(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3Store(api, "foodgram", "https://cdn.example.com/")
	ctx := context.Background()

	api.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		if aws.ToString(in.Bucket) != "foodgram" || aws.ToString(in.Key) != "recipes/images/x.jpg" {
			return false
		}
		body, err := io.ReadAll(in.Body)
		return err == nil && string(body) == "jpeg" && aws.ToString(in.ContentType) == "image/jpeg"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, store.Save(ctx, "recipes/images/x.jpg", []byte("jpeg"), "image/jpeg"))
	assert.Equal(t, "https://cdn.example.com/recipes/images/x.jpg", store.URL("recipes/images/x.jpg"))
	api.AssertExpectations(t)
}

func TestS3Store_DeleteError(t *testing.T) {
	api := new(mockObjectAPI)
	store := NewS3Store(api, "foodgram", "https://cdn.example.com")
	ctx := context.Background()

	boom := errors.New("boom")
	api.On("DeleteObject", ctx, mock.AnythingOfType("*s3.DeleteObjectInput")).Return(nil, boom).Once()

	err := store.Delete(ctx, "recipes/images/x.jpg")
	assert.ErrorIs(t, err, boom)
	api.AssertExpectations(t)
}
