package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// errStopScan is returned by a scan callback to end pagination early
// without surfacing an error.
var errStopScan = errors.New("stop scan")

// scanOptions bounds a cursor scan. Zero means unbounded.
type scanOptions struct {
	maxPages int
	maxItems int
}

// scan walks a cursor-paginated collection method, invoking fn for each
// raw item under itemKey. An empty next_cursor ends the scan; so does a
// cursor the scan has already followed, so a server echoing the same
// cursor forever costs at most one extra page. The caller's params map
// is never mutated.
func (c *Client) scan(ctx context.Context, method string, params Params, itemKey string, opts scanOptions, fn func(json.RawMessage) error) error {
	cursor := ""
	seen := make(map[string]struct{})
	pages := 0
	items := 0
	for {
		request := make(Params, len(params)+1)
		for key, value := range params {
			request[key] = value
		}
		if cursor != "" {
			request["cursor"] = cursor
		}
		payload, err := c.Call(ctx, method, request)
		if err != nil {
			return err
		}
		pages++

		var page struct {
			ResponseMetadata ResponseMetadata `json:"response_metadata"`
		}
		if err := json.Unmarshal(payload, &page); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, method, err)
		}
		for _, item := range pageItems(payload, itemKey) {
			if err := fn(item); err != nil {
				if errors.Is(err, errStopScan) {
					return nil
				}
				return err
			}
			items++
			if opts.maxItems > 0 && items >= opts.maxItems {
				return nil
			}
		}

		next := page.ResponseMetadata.NextCursor
		if next == "" {
			return nil
		}
		if _, repeated := seen[next]; repeated {
			return nil
		}
		seen[next] = struct{}{}
		cursor = next
		if opts.maxPages > 0 && pages >= opts.maxPages {
			return nil
		}
	}
}

// pageItems extracts the raw item list under key, tolerating a missing
// or empty collection.
func pageItems(payload json.RawMessage, key string) []json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(fields[key], &items); err != nil {
		return nil
	}
	return items
}
