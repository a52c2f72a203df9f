package whoop

import (
	"context"
	"iter"
	"net/url"
	"strconv"
	"time"
)

// ListOptions specifies the optional filters accepted by collection endpoints.
// Zero-valued fields are left out of the query string entirely.
type ListOptions struct {
	// Maximum number of items to return. The API limits this to 25.
	Limit int

	// Earliest date of data to fetch (inclusive). Time is ISO-8601 formatted.
	Start *time.Time

	// Latest date of data to fetch (exclusive). Time is ISO-8601 formatted.
	End *time.Time

	// Token used to fetch the next page of results. Usually handled automatically by the paginator.
	NextToken string
}

// encode writes the set options into u's query. A nil receiver leaves u untouched.
func (o *ListOptions) encode(u *url.URL) {
	if o == nil {
		return
	}

	q := u.Query()
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Start != nil {
		q.Set("start", o.Start.UTC().Format(time.RFC3339))
	}
	if o.End != nil {
		q.Set("end", o.End.UTC().Format(time.RFC3339))
	}
	if o.NextToken != "" {
		q.Set("nextToken", o.NextToken)
	}

	u.RawQuery = q.Encode()
}

// collection is the raw JSON wrapping a WHOOP collection array.
// Both fields may be absent.
type collection[T any] struct {
	Records   []T    `json:"records,omitempty"`
	NextToken string `json:"next_token,omitempty"`
}

// Page is one page of a collection endpoint.
type Page[T any] struct {
	Records   []T
	NextToken string

	opts  *ListOptions
	fetch func(ctx context.Context, opts *ListOptions) (*Page[T], error)
}

// HasNext reports whether another page can be requested.
func (p *Page[T]) HasNext() bool {
	return p.NextToken != ""
}

// NextPage fetches the subsequent page using NextToken and the original filters.
// It returns ErrNoNextPage when there is no continuation cursor.
func (p *Page[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if p.NextToken == "" {
		return nil, ErrNoNextPage
	}

	nextOpts := &ListOptions{}
	if p.opts != nil {
		*nextOpts = *p.opts
	}
	nextOpts.NextToken = p.NextToken

	return p.fetch(ctx, nextOpts)
}

// All iterates over the records of this page and every following page.
// Iteration stops at the first error, which is yielded with a zero record.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		page := p
		for {
			for _, rec := range page.Records {
				if !yield(rec, nil) {
					return
				}
			}
			if !page.HasNext() {
				return
			}

			next, err := page.NextPage(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			page = next
		}
	}
}

// list fetches one page of the collection at path.
func list[T any](ctx context.Context, c *Client, path string, opts *ListOptions) (*Page[T], error) {
	raw, err := get[collection[T]](ctx, c, path, opts)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Records:   raw.Records,
		NextToken: raw.NextToken,
		opts:      opts,
		fetch: func(ctx context.Context, next *ListOptions) (*Page[T], error) {
			return list[T](ctx, c, path, next)
		},
	}, nil
}
