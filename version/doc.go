// Package version exposes the SDK version and build metadata.
package version
