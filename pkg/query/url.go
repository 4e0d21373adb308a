package query

import (
	"net/url"
	"strings"
)

// Param is the URL query parameter that carries an encoded query.
const Param = "pkgs"

// "+" separates group members and must survive as a literal plus.
// "," "@" and "/" are left readable; everything else is percent-encoded.
var paramEscaper = strings.NewReplacer("%2B", "+", "%2C", ",", "%40", "@", "%2F", "/")

// EscapeParam escapes an [Encode]d query for use as the pkgs value.
// Encoded queries never contain spaces, so the output is unambiguous.
func EscapeParam(encoded string) string {
	return paramEscaper.Replace(url.QueryEscape(encoded))
}

// QueryString returns the shareable "pkgs=..." form of groups.
func QueryString(groups []Group) string {
	return Param + "=" + EscapeParam(Encode(groups))
}

// RawParam extracts the pkgs value from a raw URL query string. Unlike
// form decoding, "+" is kept as a literal plus; percent escapes are decoded.
// ok is false when the parameter is absent.
func RawParam(rawQuery string) (value string, ok bool) {
	for part := range strings.SplitSeq(rawQuery, "&") {
		key, v, _ := strings.Cut(part, "=")
		if key != Param {
			continue
		}
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped, true
		}
		return v, true
	}
	return "", false
}
