package objectclient

import "strings"

const s3Scheme = "s3://"

// IsS3URI reports whether s names an object as s3://bucket/key.
func IsS3URI(s string) bool {
	return strings.HasPrefix(s, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
// ok is false when s is not an S3 URI or either part is empty.
func ParseS3URI(s string) (bucket, key string, ok bool) {
	if !IsS3URI(s) {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(s, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
