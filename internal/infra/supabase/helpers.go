package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ============================================================
// PostgREST helpers
// ============================================================

// eq builds a PostgREST filter value.
func eq(v string) string { return "eq." + v }

// query renders a table path with encoded PostgREST parameters.
func query(table string, params url.Values) string {
	if len(params) == 0 {
		return table
	}
	return table + "?" + params.Encode()
}

// insert posts rows and decodes the representation PostgREST returns.
func insert[T any](ctx context.Context, c *Client, table string, rows any) ([]T, error) {
	body, err := c.doRequest(ctx, http.MethodPost, table, rows, "return=representation")
	if err != nil {
		return nil, err
	}
	var out []T
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return out, nil
}

// selectRows runs a GET and decodes the row array.
func selectRows[T any](ctx context.Context, c *Client, table string, params url.Values) ([]T, error) {
	body, err := c.doRequest(ctx, http.MethodGet, query(table, params), nil, "")
	if err != nil {
		return nil, err
	}
	var out []T
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return out, nil
}

// patch updates the rows matching params.
func (c *Client) patch(ctx context.Context, table string, params url.Values, data map[string]any) error {
	_, err := c.doRequest(ctx, http.MethodPatch, query(table, params), data, "return=minimal")
	return err
}
