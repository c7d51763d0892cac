// Package pypi provides an HTTP client for the PyPI JSON API.
//
// # Usage
//
//	client := pypi.NewClient(cache.NewNullCache(), 0, "")
//	doc, err := client.FetchRelease(ctx, "requests", "2.31.0", false)
//
// Names are normalized following PEP 503 (lowercase, underscores become
// hyphens) before the request is made, so "Django_Rest" and "django-rest"
// share a cache entry.
package pypi
