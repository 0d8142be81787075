package archive

import (
	"bytes"
	"encoding/json"
)

// Envelope keys recognized by the extractor.
const (
	keyStatuses = "statuses"
	keyMaxID    = "max_id"
	keyCount    = "count"
)

// Metadata carries the pagination fields of one response page.
type Metadata struct {
	// MaxID is the highest post ID in the page, used as the since_id
	// cursor for the next request.
	MaxID int64 `json:"max_id"`
	// Count is the number of posts in the page.
	Count int `json:"count"`
}

// Extract scans a raw response payload in a single forward pass and pulls
// out the archivable fragment and the pagination metadata.
//
// The fragment is the interior of the top-level "statuses" array with the
// surrounding brackets stripped, preserved byte for byte. When appending is
// true and the fragment is non-empty, a single comma is prefixed so the
// fragment extends the element list already on disk.
//
// Extraction never fails: missing keys yield an empty fragment and zero
// metadata, and a malformed payload stops the scan with whatever was
// accumulated up to that point. Keys are matched only at the top level of
// the envelope object; values of unrecognized keys are skipped wholesale.
func Extract(payload []byte, appending bool) ([]byte, Metadata) {
	var meta Metadata
	var fragment []byte

	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, meta
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, meta
	}

	for dec.More() {
		keyTok, tokErr := dec.Token()
		if tokErr != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}

		switch key {
		case keyStatuses:
			var raw json.RawMessage
			if decErr := dec.Decode(&raw); decErr != nil {
				return withComma(fragment, appending), meta
			}
			fragment = arrayInterior(raw)
		case keyMaxID:
			id, done := decodeInt(dec)
			if done {
				return withComma(fragment, appending), meta
			}
			meta.MaxID = id
		case keyCount:
			n, done := decodeInt(dec)
			if done {
				return withComma(fragment, appending), meta
			}
			meta.Count = int(n)
		default:
			var skip json.RawMessage
			if decErr := dec.Decode(&skip); decErr != nil {
				return withComma(fragment, appending), meta
			}
		}
	}

	return withComma(fragment, appending), meta
}

// decodeInt consumes the next value and converts it to an int64. A value of
// the wrong type is consumed and ignored; done reports a syntax error that
// ends the scan.
func decodeInt(dec *json.Decoder) (n int64, done bool) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return 0, true
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, false
	}
	id, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return id, false
}

// arrayInterior strips the outer brackets of a raw JSON array and returns
// the interior bytes unchanged. Non-array values and empty or
// whitespace-only interiors yield nil.
func arrayInterior(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return nil
	}
	interior := trimmed[1 : len(trimmed)-1]
	if len(bytes.TrimSpace(interior)) == 0 {
		return nil
	}
	return interior
}

// withComma prefixes the separating comma when a non-empty fragment extends
// an archive that already holds elements.
func withComma(fragment []byte, appending bool) []byte {
	if !appending || len(fragment) == 0 {
		return fragment
	}
	out := make([]byte, 0, len(fragment)+1)
	out = append(out, ',')
	return append(out, fragment...)
}
