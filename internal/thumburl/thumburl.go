// Package thumburl builds thumbnail-service request URLs from source
// image URLs and sizing/format options.
package thumburl

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults for the AvantStay asset pipeline. Both are overridable via
// Resolver fields (and the config file at the CLI level).
const (
	DefaultBaseURL   = "https://thumbs.avantstay.com/"
	DefaultCDNPrefix = "https://ik.imagekit.io/avantstay/"
)

// Options describe one thumbnail request. Zero/empty members are
// omitted from the serialized query string.
type Options struct {
	Fit     string
	Gravity string
	Width   int
	Height  int
	Quality int
	Sharpen string
	WebP    bool
}

// Resolver maps source URLs to thumbnail-service URLs. The zero value
// is not usable; call New for production defaults.
type Resolver struct {
	// BaseURL is the thumbnail service endpoint, with trailing slash.
	BaseURL string
	// CDNPrefix is stripped from sources already hosted on the CDN, so
	// the service receives the bare asset path.
	CDNPrefix string
	// DevMode short-circuits non-absolute URLs to avoid proxying local
	// development assets through the remote service.
	DevMode bool
}

// New returns a Resolver with production defaults.
func New() *Resolver {
	return &Resolver{
		BaseURL:   DefaultBaseURL,
		CDNPrefix: DefaultCDNPrefix,
	}
}

// Resolve returns the URL to display for src under opts.
//
// Passthrough cases return src unchanged: empty source, non-absolute
// sources in dev mode, SVG sources (vectors are not raster-thumbnailed)
// and blob:/data: URIs (already local, nothing to proxy). Otherwise the
// source path is percent-encoded onto the service base with the
// non-empty options as a sorted query string, so identical inputs
// always produce the identical URL.
func (r *Resolver) Resolve(src string, opts Options) string {
	if src == "" {
		return src
	}
	if r.DevMode && !isAbsolute(src) {
		return src
	}
	lower := strings.ToLower(src)
	if strings.HasSuffix(lower, ".svg") {
		return src
	}
	if strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "data:") {
		return src
	}

	path := src
	if r.CDNPrefix != "" {
		path = strings.TrimPrefix(path, r.CDNPrefix)
	}
	path = strings.TrimPrefix(path, "/")

	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	u := base + escapePath(path)
	if q := opts.encode(); q != "" {
		u += "?" + q
	}
	return u
}

// encode serializes the non-empty options. url.Values.Encode sorts by
// key, which keeps resolved URLs reproducible.
func (o Options) encode() string {
	q := url.Values{}
	if o.Fit != "" {
		q.Set("fit", o.Fit)
	}
	if o.Gravity != "" {
		q.Set("gravity", o.Gravity)
	}
	if o.Width > 0 {
		q.Set("width", strconv.Itoa(o.Width))
	}
	if o.Height > 0 {
		q.Set("height", strconv.Itoa(o.Height))
	}
	if o.Quality > 0 {
		q.Set("quality", strconv.Itoa(o.Quality))
	}
	if o.Sharpen != "" {
		q.Set("sharpen", o.Sharpen)
	}
	if o.WebP {
		q.Set("webp", "true")
	}
	return q.Encode()
}

func isAbsolute(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// escapePath percent-encodes the source path as a single URL segment,
// slashes included, matching the service's expectation of one opaque
// encoded path component.
func escapePath(p string) string {
	return url.PathEscape(p)
}
