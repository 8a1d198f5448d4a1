package cache

// ScopedKeyer wraps a Keyer with a prefix so that several consumers can share
// one backend without colliding. The CLI scopes keys by build version, which
// invalidates every entry when the layout algorithm changes.
//
//	keyer := NewScopedKeyer(nil, "mindcanvas:v0.3.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(treeHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(treeHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}
