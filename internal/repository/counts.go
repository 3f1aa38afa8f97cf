package repository

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// countTransport rewrites the "statistics" object of every list item so that
// each count is a decimal string the SDK can decode. Missing values stay
// missing; a value that is not a non-negative integer becomes "0". Booleans
// such as hiddenSubscriberCount are left alone.
type countTransport struct {
	base http.RoundTripper
}

func (t *countTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode/100 != 2 || resp.Header.Get("Content-Encoding") != "" {
		return resp, err
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if fixed, ok := normalizeCounts(raw); ok {
		raw = fixed
		resp.Header.Del("Content-Length")
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	resp.ContentLength = int64(len(raw))
	return resp, nil
}

// normalizeCounts returns the rewritten body and true when anything changed.
// Bodies that are not a JSON object with an items array are returned as-is.
func normalizeCounts(body []byte) ([]byte, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return body, false
	}
	items, ok := doc["items"].([]any)
	if !ok {
		return body, false
	}

	changed := false
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		stats, ok := item["statistics"].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range stats {
			var s string
			switch v := v.(type) {
			case string:
				s = v
			case json.Number:
				s = v.String()
			default:
				continue
			}
			c := lenientCount(s)
			if _, isString := v.(string); !isString || c != s {
				stats[k] = c
				changed = true
			}
		}
	}
	if !changed {
		return body, false
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return body, false
	}
	return out, true
}

// lenientCount keeps s when it parses as a uint64 and yields "0" otherwise.
func lenientCount(s string) string {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatUint(n, 10)
}
