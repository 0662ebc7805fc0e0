package objectclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseS3URI(t *testing.T) {
	t.Run("Should split bucket and nested key", func(t *testing.T) {
		bucket, key, ok := ParseS3URI("s3://harvest-docs/articles/2021/moby-dick.txt")

		assert.True(t, ok)
		assert.Equal(t, "harvest-docs", bucket)
		assert.Equal(t, "articles/2021/moby-dick.txt", key)
	})

	t.Run("Should reject local paths and incomplete URIs", func(t *testing.T) {
		for _, in := range []string{"in.txt", "/tmp/in.txt", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
			_, _, ok := ParseS3URI(in)
			assert.False(t, ok, in)
		}
	})

	t.Run("Should detect the scheme without validating the rest", func(t *testing.T) {
		assert.True(t, IsS3URI("s3://bucket"))
		assert.False(t, IsS3URI("https://bucket.s3.amazonaws.com/key"))
	})
}
