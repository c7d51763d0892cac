// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches the metadata document of one published version from
// the npm registry (https://registry.npmjs.org) or a compatible mirror.
//
// # Usage
//
//	client := npm.NewClient(cache.NewNullCache(), 0, "")
//	doc, err := client.FetchVersion(ctx, "left-pad", "1.3.0", false)
//
// # Scoped Packages
//
// Names such as "@babel/core" are resolved through the full packument with
// the slash encoded, and the requested version is cut out of its
// "versions" map. The returned bytes have the same shape in both cases.
package npm
