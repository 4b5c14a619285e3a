// Package youtube extracts canonical video identifiers from the URL
// shapes the platform accepts.
package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractVideoID returns the canonical video id for a YouTube URL, or
// "" when the URL is malformed or not a recognized shape. Accepted
// shapes: youtu.be/<id>, youtube.com/watch?v=<id>, .../embed/<id>,
// .../shorts/<id>. Trailing query strings are stripped.
func ExtractVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())

	if host == "youtu.be" {
		return firstPathSegment(u.Path)
	}

	if strings.HasSuffix(host, "youtube.com") {
		if id := u.Query().Get("v"); id != "" {
			return id
		}
		if id := segmentAfter(u.Path, "embed"); id != "" {
			return id
		}
		return segmentAfter(u.Path, "shorts")
	}

	return ""
}

// ThumbnailURL derives the deterministic thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

func firstPathSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

func segmentAfter(path, marker string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if seg == marker && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}
