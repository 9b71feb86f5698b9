// Package payload computes the string encoded into the QR code.
package payload

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/settings"
)

// Builder turns settings into a QR payload for one process run.
type Builder struct {
	runID string
}

// NewBuilder creates a Builder that tags info page URLs with runID.
func NewBuilder(runID string) *Builder {
	return &Builder{runID: runID}
}

// RunID returns the per-process run identifier.
func (b *Builder) RunID() string {
	return b.runID
}

// ForRequest builds the payload using baseURL, the externally visible root
// of the current request (see RequestBaseURL).
func (b *Builder) ForRequest(cfg settings.Settings, baseURL string) string {
	return b.build(cfg, baseURL)
}

// ForStartup builds the payload when no request is available. The info page
// is addressed through public_base_url, or the local listen address.
func (b *Builder) ForStartup(cfg settings.Settings) string {
	base := cfg.PublicBaseURL()
	if base == "" {
		base = constant.DefaultLocalBaseURL
	}
	return b.build(cfg, base)
}

// InfoURL is the info page under baseURL with the run id attached.
func (b *Builder) InfoURL(baseURL string) string {
	return WithQuery(strings.TrimRight(baseURL, "/")+constant.RouteInfo, map[string]interface{}{
		constant.RunIDQueryParam: b.runID,
	})
}

func (b *Builder) build(cfg settings.Settings, baseURL string) string {
	if cfg.Mode() != constant.ModeTargetURL {
		return b.InfoURL(baseURL)
	}

	target := cfg.TargetURL()
	if target == "" {
		return b.InfoURL(baseURL)
	}
	if cfg.AppendRunID() {
		return WithQuery(target, map[string]interface{}{
			constant.RunIDQueryParam: b.runID,
		})
	}
	return target
}

// WithQuery merges extra into the query string of rawURL. Pairs whose key
// is not in extra are kept as written, including blank values and text that
// does not decode. An overridden key takes the place of its first
// occurrence; new keys are appended in sorted order. Nil extras are skipped.
// An unparseable rawURL is returned unchanged.
func WithQuery(rawURL string, extra map[string]interface{}) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	values := make(map[string]string, len(extra))
	for k, v := range extra {
		if v == nil {
			continue
		}
		values[k] = fmt.Sprint(v)
	}

	pairs := make([]string, 0)
	placed := make(map[string]bool, len(values))
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		key := queryKey(part)
		v, ok := values[key]
		if !ok {
			pairs = append(pairs, part)
			continue
		}
		if !placed[key] {
			pairs = append(pairs, encodePair(key, v))
			placed[key] = true
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !placed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, encodePair(k, values[k]))
	}

	u.RawQuery = strings.Join(pairs, "&")
	u.ForceQuery = false
	return u.String()
}

// queryKey decodes the key of a raw key=value pair, falling back to the
// literal text when it is not valid escaping.
func queryKey(part string) string {
	key, _, _ := strings.Cut(part, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}

func encodePair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// RequestBaseURL derives the externally visible root URL of r, honouring
// X-Forwarded-Proto, X-Forwarded-Host and X-Forwarded-Prefix.
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstHeaderValue(r, constant.HeaderForwardedProto); proto != "" {
		scheme = strings.ToLower(proto)
	}

	host := r.Host
	if fwd := firstHeaderValue(r, constant.HeaderForwardedHost); fwd != "" {
		host = fwd
	}

	prefix := strings.Trim(firstHeaderValue(r, constant.HeaderForwardedPfx), "/")
	base := scheme + "://" + host
	if prefix != "" {
		base += "/" + prefix
	}
	return base
}

func firstHeaderValue(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
