package cache

// ScopedKeyer wraps a Keyer with a prefix so that entries fetched with
// different credentials never collide. GitHub responses depend on the token
// that fetched them, so the GitHub client is given a keyer scoped by
// [TokenScope].
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), TokenScope(token))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// TokenScope returns a key prefix derived from a credential. The credential
// itself never appears in a key. An empty token yields an empty prefix.
func TokenScope(token string) string {
	if token == "" {
		return ""
	}
	return "tok:" + Hash([]byte(token))[:12] + ":"
}
