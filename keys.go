package main

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// a keyStrategy looks for an object key in a JSON object body
type keyStrategy struct {
	name    string
	extract func(body []byte) (string, bool)
}

// tried in order, first match wins
var keyStrategies = []keyStrategy{
	{name: "s3_key", extract: directKey},
	{name: "s3_event", extract: s3EventKey},
}

func directKey(body []byte) (string, bool) {
	var payload struct {
		S3Key string `json:"s3_key"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	return payload.S3Key, payload.S3Key != ""
}

func s3EventKey(body []byte) (string, bool) {
	var event struct {
		Records []struct {
			S3 struct {
				Object struct {
					Key string `json:"key"`
				} `json:"object"`
			} `json:"s3"`
		} `json:"Records"`
	}
	if err := json.Unmarshal(body, &event); err != nil || len(event.Records) == 0 {
		return "", false
	}
	key := event.Records[0].S3.Object.Key
	return key, key != ""
}

// resolveKey returns the decoded object key a message body refers to.
//
// A body that is not JSON at all is taken to be the key itself. A body that
// is JSON but matches none of the strategies is rejected.
func resolveKey(body string) (string, error) {
	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		if body == "" {
			return "", &MissingKeyError{Reason: "empty body"}
		}
		return decodeKey(body), nil
	}

	if _, ok := payload.(map[string]any); !ok {
		return "", &MissingKeyError{Reason: "body is not a JSON object"}
	}

	for _, s := range keyStrategies {
		if key, ok := s.extract([]byte(body)); ok {
			log.Debug().Str("strategy", s.name).Msg("Resolved object key")
			return decodeKey(key), nil
		}
	}
	return "", &MissingKeyError{Reason: "no key field or Records entry"}
}

// decodeKey undoes the form encoding S3 applies to keys in event
// notifications: '+' is a space and each valid %XX is a byte. A '%' that does
// not start a valid escape is kept as is and decoding carries on.
func decodeKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]):
			b.WriteByte(unhex(raw[i+1])<<4 | unhex(raw[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
