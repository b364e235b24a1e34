package url

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsDataURI reports whether location is an inline data: URI.
func IsDataURI(location string) bool {
	return strings.HasPrefix(location, "data:")
}

// DecodeDataURI handles data: URIs (inline sourcemaps)
func DecodeDataURI(dataURI string) ([]byte, error) {
	// Split the data URI into header and content parts
	parts := strings.SplitN(dataURI, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URI format")
	}

	if strings.Contains(parts[0], ";base64") {
		return base64.StdEncoding.DecodeString(parts[1])
	}

	decoded, err := url.PathUnescape(parts[1])
	if err != nil {
		return []byte(parts[1]), nil
	}
	return []byte(decoded), nil
}
