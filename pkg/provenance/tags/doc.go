// Package tags matches a published version to a repository tag.
//
// Projects spell versions in tag names in many ways: "1.2.3", "v1.2.3",
// "release-1_2_3", "rel/1-2-3-final". [InferConvention] recovers the
// dominant spelling from a repository's tag set, and [Resolve] uses it as
// a second pass after a separator-insensitive exact comparison.
//
// A convention is derived from the tags it is applied to. It is never
// cached or shared between repositories.
package tags
