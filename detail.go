package deadlinks

import "strings"

// DetailKind classifies the reason recorded for a broken link.
type DetailKind string

// Detail kinds, one per detail format.
const (
	DetailStatus  DetailKind = "status"
	DetailError   DetailKind = "error"
	DetailInvalid DetailKind = "invalid"
)

const (
	statusSep     = " - Status: "
	errorSep      = " - Error: "
	invalidPrefix = "Invalid URL: "
)

// ParseDetail splits a detail produced by StatusDetail, ErrorDetail, or
// InvalidDetail back into its kind, link URL, and reason. A detail in no
// known format has an empty kind and URL, and is returned whole as reason.
func ParseDetail(detail string) (kind DetailKind, url, reason string) {
	if rest, ok := strings.CutPrefix(detail, invalidPrefix); ok {
		return DetailInvalid, rest, "invalid URL"
	}
	if u, r, ok := strings.Cut(detail, statusSep); ok {
		return DetailStatus, u, r
	}
	if u, r, ok := strings.Cut(detail, errorSep); ok {
		return DetailError, u, r
	}
	return "", "", detail
}

// Target returns the URL of the broken link itself, parsed from Detail.
func (l BrokenLink) Target() string {
	_, url, _ := ParseDetail(l.Detail)
	return url
}
