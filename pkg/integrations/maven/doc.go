// Package maven provides an HTTP client for Maven repositories.
//
// # Overview
//
// This package fetches POM documents for an exact artifact version from
// Maven Central (https://repo1.maven.org/maven2) or any repository that
// serves the standard directory layout.
//
// # Usage
//
//	client := maven.NewClient(cache.NewNullCache(), 0, "")
//	pom, err := client.FetchPOM(ctx, "org.apache.commons:commons-lang3", "3.14.0", false)
//
// # Coordinates
//
// Maven artifacts are identified by coordinates in the format "groupId:artifactId".
// For example: "com.google.guava:guava", "org.apache.commons:commons-lang3".
// The POM path is derived by turning dots in the groupId into path segments:
//
//	org/apache/commons/commons-lang3/3.14.0/commons-lang3-3.14.0.pom
//
// # Raw Documents
//
// The client does not interpret the POM. Licenses and the SCM URL are read
// by pkg/provenance/metadata so that parse failures degrade to absent
// fields instead of failed requests.
package maven
