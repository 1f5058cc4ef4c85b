// Package client is the gRPC client for the vault service. It attaches the
// bearer token and opaque key to every call, replaces an expired key once by
// calling RefreshKey, and maps status errors back to the sentinels in
// internal/common.
package client
