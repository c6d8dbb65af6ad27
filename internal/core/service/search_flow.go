package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/metrics"
)

const (
	// DefaultSearchMinChars is the shortest query that triggers a request.
	DefaultSearchMinChars = 2
	// SearchRoute is the full results view.
	SearchRoute = "/search"
)

// SearchFlow drives the header's live-search panel. Every Input is tagged with
// a sequence number and cancels the request before it; a response is applied
// only if its sequence is still the latest issued, so the panel always
// reflects the last query typed regardless of response order.
type SearchFlow struct {
	api      ports.SearchAPI
	sample   func() domain.SearchResultSet
	notifier ports.Notifier
	minChars int
	log      zerolog.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	panel  domain.SearchPanel
}

// NewSearchFlow returns a flow with a closed panel. sample supplies the
// results shown when a search fails outright.
func NewSearchFlow(api ports.SearchAPI, sample func() domain.SearchResultSet, notifier ports.Notifier, minChars int, log zerolog.Logger) *SearchFlow {
	if minChars <= 0 {
		minChars = DefaultSearchMinChars
	}
	return &SearchFlow{
		api:      api,
		sample:   sample,
		notifier: notifier,
		minChars: minChars,
		log:      log,
	}
}

// Input handles the query box changing to query. Short queries clear the panel
// without a request. Longer ones search for the full query and block until
// the response is applied or superseded; the returned panel is the state at
// that moment.
func (f *SearchFlow) Input(ctx context.Context, query string) domain.SearchPanel {
	f.mu.Lock()
	seq := f.advanceLocked()

	if utf8.RuneCountInString(strings.TrimSpace(query)) < f.minChars {
		f.panel = domain.SearchPanel{Query: query, Seq: seq}
		f.mu.Unlock()
		metrics.SearchRequestsTotal.WithLabelValues("skipped").Inc()
		return f.Panel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.panel.Open = true
	f.panel.Query = query
	f.panel.Pending = true
	f.panel.Seq = seq
	f.mu.Unlock()

	start := time.Now()
	res, err := f.api.Search(reqCtx, ports.SearchParams{Query: query, Quiet: true})
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		metrics.SearchRequestsTotal.WithLabelValues("stale").Inc()
		f.log.Debug().Uint64("seq", seq).Uint64("latest", f.seq).Msg("discarding stale search response")
		return f.copyLocked()
	}
	f.cancel = nil
	f.panel.Pending = false

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// The caller gave up; results of an earlier query must not be
			// shown under this one.
			f.panel.Results = nil
			f.panel.Provenance = ""
			return f.copyLocked()
		}
		results := f.sample()
		f.panel.Results = &results
		f.panel.Provenance = domain.ProvenanceFallback
		f.warn("Search failed: " + domain.MessageOf(err) + ". Showing sample results")
		metrics.SearchRequestsTotal.WithLabelValues("fallback").Inc()
		return f.copyLocked()
	}

	results := res.Data
	f.panel.Results = &results
	f.panel.Provenance = res.Provenance
	if res.Degraded() {
		metrics.SearchRequestsTotal.WithLabelValues("fallback").Inc()
	} else {
		metrics.SearchRequestsTotal.WithLabelValues("applied").Inc()
	}
	f.log.Debug().Str("query", query).Int("results", results.Total()).Dur("took", time.Since(start)).Msg("search applied")
	return f.copyLocked()
}

// Dismiss closes the panel, as when the user clicks outside it. Any request
// still in flight is cancelled and its response discarded.
func (f *SearchFlow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.advanceLocked()
	f.panel = domain.SearchPanel{Query: f.panel.Query, Seq: seq}
}

// Select closes the panel and returns the detail route of the chosen result
// for a user with role.
func (f *SearchFlow) Select(role domain.Role, category domain.SearchCategory, id string) string {
	f.Dismiss()
	return domain.DetailRoute(role, category, url.PathEscape(id))
}

// Submit closes the panel and returns the full results route carrying the
// raw query.
func (f *SearchFlow) Submit() string {
	f.mu.Lock()
	query := f.panel.Query
	f.mu.Unlock()

	f.Dismiss()
	return SearchRoute + "?" + url.Values{"query": {query}}.Encode()
}

// Panel returns the current panel state.
func (f *SearchFlow) Panel() domain.SearchPanel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copyLocked()
}

// Close cancels any request in flight.
func (f *SearchFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advanceLocked()
}

// advanceLocked issues a new sequence number and cancels the request it
// supersedes.
func (f *SearchFlow) advanceLocked() uint64 {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.seq++
	return f.seq
}

func (f *SearchFlow) copyLocked() domain.SearchPanel {
	p := f.panel
	if p.Results != nil {
		r := *p.Results
		p.Results = &r
	}
	return p
}

func (f *SearchFlow) warn(msg string) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(domain.Notification{Level: domain.LevelWarning, Message: msg, At: time.Now()})
}
