package loader

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/timmy/brunca/internal/domain"
)

type item struct {
	ID   string
	Name string
}

func (i item) ItemID() string { return i.ID }

type query struct {
	Category string
	Location int
}

func (q query) Valid() bool { return q.Category != "" && q.Location > 0 }

func items(prefix string, from, n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: fmt.Sprintf("%s-%d", prefix, from+i)}
	}
	return out
}

// pagedFetcher serves totalPages pages of perPage items each and counts calls.
func pagedFetcher(totalPages, perPage int, calls *int32) FetcherFunc[item, query] {
	return func(_ context.Context, req Request[query]) (domain.Page[item], error) {
		atomic.AddInt32(calls, 1)
		return domain.Page[item]{
			Items: items(req.Query.Category, (req.Page-1)*perPage, perPage),
			Meta:  domain.PageMeta{CurrentPage: req.Page, TotalPages: totalPages},
		}, nil
	}
}

type reply struct {
	page domain.Page[item]
	err  error
}

type pending struct {
	req   Request[query]
	reply chan reply
}

// gatedFetcher hands every request to the test, which decides when and
// how it resolves.
type gatedFetcher struct {
	requests chan pending
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{requests: make(chan pending, 16)}
}

func (f *gatedFetcher) FetchPage(ctx context.Context, req Request[query]) (domain.Page[item], error) {
	p := pending{req: req, reply: make(chan reply, 1)}
	f.requests <- p
	select {
	case r := <-p.reply:
		return r.page, r.err
	case <-ctx.Done():
		return domain.Page[item]{}, ctx.Err()
	}
}

func (p pending) resolve(its []item, meta domain.PageMeta) {
	p.reply <- reply{page: domain.Page[item]{Items: its, Meta: meta}}
}

func (p pending) fail(err error) {
	p.reply <- reply{err: err}
}
