package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The CLI scopes keys
// by lookup host so lyrics fetched from different services never collide:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "lrclib.net:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LyricsKey(query string) string {
	return k.prefix + k.inner.LyricsKey(query)
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}
