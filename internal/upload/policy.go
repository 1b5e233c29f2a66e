package upload

// Defaults applied when no policy is configured.
const (
	DefaultDirectory    = "upload"
	DefaultMaxSizeBytes = int64(200_000)
)

var DefaultAllowedMediaTypes = []string{"image/gif", "image/jpeg", "image/pjpeg", "image/png"}

// Policy decides whether an attempt is acceptable from its declared
// metadata alone. The bytes are never inspected.
type Policy struct {
	AllowedMediaTypes []string
	MaxSizeBytes      int64
}

func DefaultPolicy() Policy {
	return Policy{
		AllowedMediaTypes: append([]string(nil), DefaultAllowedMediaTypes...),
		MaxSizeBytes:      DefaultMaxSizeBytes,
	}
}

// AllowsMediaType checks the declared media type against the allow-list.
func (p Policy) AllowsMediaType(mediaType string) bool {
	for _, allowed := range p.AllowedMediaTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// Accepts reports whether both the media type and the size checks pass.
// The size limit is exclusive.
func (p Policy) Accepts(a *Attempt) bool {
	return p.AllowsMediaType(a.DeclaredMediaType) && a.DeclaredSizeBytes < p.MaxSizeBytes
}
