package utils

import (
	"net/url"
	"path"
	"strings"
)

// ResolveURL turns ref into an absolute URL using base. Absolute refs are
// returned unchanged. Unparseable input falls back to a plain join.
func ResolveURL(base, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return joinLoosely(base, ref)
	}
	if refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return joinLoosely(base, ref)
	}
	return baseURL.ResolveReference(refURL).String()
}

func joinLoosely(base, ref string) string {
	if ref == "" {
		return base
	}
	if strings.HasSuffix(base, "/") || strings.HasPrefix(ref, "/") {
		return base + ref
	}
	return base[:strings.LastIndex(base, "/")+1] + ref
}

// Basename returns the final segment of the URL path as written in the URL,
// extension included. Percent-escapes are kept, so "a%2Fb.png" stays one name.
func Basename(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.EscapedPath()
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	return path.Base(p)
}
