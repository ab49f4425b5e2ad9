package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// BodyKind names the response variants
type BodyKind string

const (
	BodyText   BodyKind = "text"
	BodyHTML   BodyKind = "html"
	BodyXML    BodyKind = "xml"
	BodyJSON   BodyKind = "json"
	BodyBinary BodyKind = "binary"
)

var contentTypes = map[BodyKind]string{
	BodyText:   "text/plain",
	BodyHTML:   "text/html",
	BodyXML:    "application/xml",
	BodyJSON:   "application/json",
	BodyBinary: "application/octet-stream",
}

// Body is the payload of an Exchange response. Exactly one variant is
// chosen by the constructor used to build it.
type Body struct {
	kind  BodyKind
	text  string
	value any
	data  []byte
}

// Text responds with text/plain
func Text(s string) *Body {
	return &Body{kind: BodyText, text: s}
}

// HTML responds with text/html
func HTML(s string) *Body {
	return &Body{kind: BodyHTML, text: s}
}

// XML responds with application/xml
func XML(s string) *Body {
	return &Body{kind: BodyXML, text: s}
}

// JSONBody responds with application/json. Strings, byte slices and
// json.RawMessage are written verbatim; anything else is marshalled.
func JSONBody(v any) *Body {
	return &Body{kind: BodyJSON, value: v}
}

// Binary responds with application/octet-stream and no charset
func Binary(data []byte) *Body {
	return &Body{kind: BodyBinary, data: data}
}

// Kind returns the body variant
func (b *Body) Kind() BodyKind {
	return b.kind
}

// ContentType returns the content type without charset
func (b *Body) ContentType() string {
	return contentTypes[b.kind]
}

// Bytes serializes the body
func (b *Body) Bytes() ([]byte, error) {
	switch b.kind {
	case BodyBinary:
		return b.data, nil
	case BodyJSON:
		switch v := b.value.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		case json.RawMessage:
			return v, nil
		default:
			return json.Marshal(v)
		}
	default:
		return []byte(b.text), nil
	}
}

// writeResponse writes ex.Response to w. It reports false when ex has no
// response to write.
func writeResponse(w http.ResponseWriter, ex Exchange) (bool, error) {
	if ex.Response == nil {
		return false, nil
	}

	data, err := ex.Response.Bytes()
	if err != nil {
		return false, fmt.Errorf("encoding %s response: %w", ex.Response.Kind(), err)
	}

	contentType := ex.Response.ContentType()
	if ex.Response.Kind() != BodyBinary {
		charset := ex.Charset
		if charset == "" {
			charset = "utf-8"
		}
		contentType += "; charset=" + charset
	}

	header := w.Header()
	header.Set("Content-Type", contentType)
	for key, value := range ex.Headers {
		header.Set(key, value)
	}
	header.Set("Content-Length", strconv.Itoa(len(data)))

	status := ex.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
	return true, nil
}
