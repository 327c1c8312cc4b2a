package ai

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data uri")

// ParseDataURI decodes "data:<mime>[;base64],<payload>".
func ParseDataURI(s string) (Media, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return Media{}, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Media{}, ErrInvalidDataURI
	}
	params := strings.Split(meta, ";")
	mime := strings.ToLower(strings.TrimSpace(params[0]))
	if mime == "" {
		mime = "text/plain"
	}
	isB64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isB64 = true
		}
	}

	if !isB64 {
		raw, err := url.PathUnescape(payload)
		if err != nil {
			return Media{}, ErrInvalidDataURI
		}
		return Media{MIMEType: mime, Data: []byte(raw)}, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return Media{}, ErrInvalidDataURI
		}
	}
	if len(data) == 0 {
		return Media{}, ErrInvalidDataURI
	}
	return Media{MIMEType: mime, Data: data}, nil
}

// EncodeDataURI returns a base64 data URI for the given payload.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
