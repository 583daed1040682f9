// Package images uploads pet photos to an S3-compatible bucket and returns
// the URL the catalogue should reference them by.
package images
