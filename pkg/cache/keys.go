package cache

// Keyer builds cache keys. Every backend shares the same key layout.
type Keyer interface {
	// UploadKey generates a key for a style-transfer upload result.
	UploadKey(opts UploadKeyOpts) string
}

// UploadKeyOpts identifies one style-transfer request.
type UploadKeyOpts struct {
	ImageHash string  `json:"image"`
	Prompt    string  `json:"prompt"`
	Canny     bool    `json:"canny"`
	Strength  float64 `json:"strength"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// UploadKey hashes all request parameters so that changing any of them
// produces a different key.
func (DefaultKeyer) UploadKey(opts UploadKeyOpts) string {
	return hashKey("upload", opts)
}
