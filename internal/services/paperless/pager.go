package paperless

import (
	"context"
	"iter"
	"net/url"

	"paperarchive/internal/services"
)

// Pager walks a paginated listing one page at a time. It is not safe for
// concurrent use.
type Pager struct {
	client *Client
	next   string
	err    error
}

// Documents returns a pager over /api/documents/ filtered by query. No
// request is made until the first call to Next.
func (c *Client) Documents(query url.Values) *Pager {
	return &Pager{client: c, next: c.documentsURL(query)}
}

// Next fetches the following page. It returns nil results and false once the
// listing is exhausted. After a failure the pager is finished and every later
// call returns the same error without another request.
func (p *Pager) Next(ctx context.Context) ([]Document, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.next == "" {
		return nil, false, nil
	}
	page, err := p.client.getList(ctx, p.next)
	p.next = ""
	if err != nil {
		p.err = err
		return nil, false, err
	}
	if page.Next != nil && *page.Next != "" {
		next, err := forceHTTPS(*page.Next)
		if err != nil {
			p.err = services.Wrap(services.ErrBackend, "paperless", "paginate", "invalid next link", err)
			return nil, false, p.err
		}
		p.next = next
	}
	return page.Results, true, nil
}

// All yields every document across all remaining pages.
func (p *Pager) All(ctx context.Context) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		for {
			docs, ok, err := p.Next(ctx)
			if err != nil {
				yield(Document{}, err)
				return
			}
			if !ok {
				return
			}
			for _, doc := range docs {
				if !yield(doc, nil) {
					return
				}
			}
		}
	}
}

// ArchiveSerialNumbers yields the serial number of every document that has
// one, in ascending order.
func (c *Client) ArchiveSerialNumbers(ctx context.Context) iter.Seq2[int64, error] {
	query := url.Values{}
	query.Set("archive_serial_number__isnull", "false")
	query.Set("ordering", "archive_serial_number")
	pager := c.Documents(query)
	return func(yield func(int64, error) bool) {
		for doc, err := range pager.All(ctx) {
			if err != nil {
				yield(0, err)
				return
			}
			if doc.ArchiveSerialNumber == nil {
				continue
			}
			if !yield(*doc.ArchiveSerialNumber, nil) {
				return
			}
		}
	}
}

func forceHTTPS(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	u.Scheme = "https"
	return u.String(), nil
}
