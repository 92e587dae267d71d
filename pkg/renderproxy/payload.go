package renderproxy

import (
	"bytes"
	"encoding/json"
	"html"
	"mime"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// PayloadKind tells how the proxy delivered the markup.
type PayloadKind int

const (
	// PayloadRawHTML means the response body is the rendered document itself.
	PayloadRawHTML PayloadKind = iota
	// PayloadJSONEnvelope means the document arrived HTML-escaped in the
	// "data" field of a JSON object.
	PayloadJSONEnvelope
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSONEnvelope:
		return "json_envelope"
	default:
		return "raw_html"
	}
}

// Payload is a decoded proxy response. HTML always holds entity-decoded
// markup ready for parsing, whatever the Kind.
type Payload struct {
	Kind PayloadKind
	HTML string
}

// DecodePayload resolves a response body into HTML. A JSON object with a
// "data" field must carry non-blank markup there; any other body (invalid
// JSON, or JSON without "data") is taken as the document itself.
func DecodePayload(body []byte, contentType string) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Payload{}, &MalformedResponseError{Reason: "empty body"}
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			if raw, ok := envelope["data"]; ok {
				var data *string
				if err := json.Unmarshal(raw, &data); err != nil {
					return Payload{}, &MalformedResponseError{Reason: "data field is not a string"}
				}
				if data == nil {
					return Payload{}, &MalformedResponseError{Reason: "data field is null"}
				}
				if strings.TrimSpace(*data) == "" {
					return Payload{}, &MalformedResponseError{Reason: "data field is blank"}
				}
				return Payload{Kind: PayloadJSONEnvelope, HTML: html.UnescapeString(*data)}, nil
			}
		}
	}

	text, err := decodeCharset(body, contentType)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: PayloadRawHTML, HTML: html.UnescapeString(text)}, nil
}

// decodeCharset converts a raw body to UTF-8 using the charset parameter of
// the Content-Type header, when one other than UTF-8 is declared.
func decodeCharset(body []byte, contentType string) (string, error) {
	if contentType == "" {
		return string(body), nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body), nil
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return string(body), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", eris.Wrapf(err, "renderproxy: unsupported charset %q", charset)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", eris.Wrapf(err, "renderproxy: decode %s body", charset)
	}
	return string(decoded), nil
}
