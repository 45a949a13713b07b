package storage

import "strings"

// PublicURL rewrites Supabase S3-protocol URLs into their public object form.
// Files uploaded through the S3 endpoint are served from the object endpoint,
// so stored URLs of the form .../storage/v1/s3/<bucket>/<key> are not directly
// fetchable by browsers.
func PublicURL(url string) string {
	if url == "" {
		return url
	}
	return strings.Replace(url, "/storage/v1/s3/", "/storage/v1/object/public/", 1)
}

// PublicURLPtr is PublicURL for optional fields
func PublicURLPtr(url *string) *string {
	if url == nil {
		return nil
	}
	rewritten := PublicURL(*url)
	return &rewritten
}
