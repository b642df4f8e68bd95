// Package integrations provides the shared HTTP client behind remote
// lyric lookups.
//
// [Client] adds default headers, retries transient failures through
// [httputil.Retry] and caches decoded responses in a [cache.Cache] under a
// per-service key prefix. Service clients embed it:
//
//	type Client struct {
//		*integrations.Client
//		baseURL string
//	}
//
// The lrclib subpackage is the only service client today.
//
// [httputil.Retry]: github.com/matzehuels/obscura/pkg/httputil.Retry
// [cache.Cache]: github.com/matzehuels/obscura/pkg/cache.Cache
package integrations
