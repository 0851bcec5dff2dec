package browser

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/kinoshelf/kinopoisk"
	"github.com/s0up4200/kinoshelf/live"
	"github.com/s0up4200/kinoshelf/movie"
)

// FilterSource streams the persisted filter settings
type FilterSource interface {
	Subscribe(ctx context.Context) <-chan movie.FilterSettings
}

// ListModel is the paged movie list. It browses rating-sorted movies page by
// page, runs single-page searches and reloads from page one whenever the
// filters change.
//
// Every fetch takes a new generation and cancels the request it replaces.
// A response is applied only while its generation is still the latest.
type ListModel struct {
	catalog  kinopoisk.Catalog
	pageSize int
	logger   zerolog.Logger

	state *live.Value[ListState]

	mu            sync.Mutex
	gen           uint64
	cancel        context.CancelFunc
	filters       movie.FilterSettings
	filtersActive bool
	currentPage   int
	last          *ListSuccess
}

// NewListModel creates a list model in the loading state
func NewListModel(catalog kinopoisk.Catalog, pageSize int, logger zerolog.Logger) *ListModel {
	if pageSize <= 0 {
		pageSize = kinopoisk.DefaultPageSize
	}
	return &ListModel{
		catalog:     catalog,
		pageSize:    pageSize,
		logger:      logger,
		state:       live.NewValue[ListState](ListLoading{}),
		currentPage: 1,
	}
}

// State returns the current list state
func (l *ListModel) State() ListState {
	return l.state.Get()
}

// Watch streams the list state until ctx is done
func (l *ListModel) Watch(ctx context.Context) <-chan ListState {
	return l.state.Subscribe(ctx)
}

// FiltersActive reports whether the filters last applied have any field set
func (l *ListModel) FiltersActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filtersActive
}

// Filters returns the filters last applied
func (l *ListModel) Filters() movie.FilterSettings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters
}

// CurrentPage returns the last page successfully loaded in browse mode
func (l *ListModel) CurrentPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentPage
}

// pageRequest is a popular-list fetch prepared under the lock
type pageRequest struct {
	ctx     context.Context
	cancel  context.CancelFunc
	gen     uint64
	page    int
	filters movie.FilterSettings
	prior   *ListSuccess
}

// LoadPopular fetches page of the rating-sorted list. Page one replaces the
// list, later pages append to it. With useFilters false the stored filters
// are ignored for this request.
func (l *ListModel) LoadPopular(ctx context.Context, page int, useFilters bool) error {
	l.mu.Lock()
	req := l.preparePageLocked(ctx, page, useFilters)
	l.mu.Unlock()

	return l.fetchPage(req)
}

// ApplyFilters records fs and reloads from page one
func (l *ListModel) ApplyFilters(ctx context.Context, fs movie.FilterSettings) error {
	l.mu.Lock()
	l.setFiltersLocked(fs)
	req := l.preparePageLocked(ctx, 1, true)
	l.mu.Unlock()

	return l.fetchPage(req)
}

// Run applies every filter emission from source until ctx is done. Each
// emission starts a reload that supersedes the one before it.
func (l *ListModel) Run(ctx context.Context, source FilterSource) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for fs := range source.Subscribe(ctx) {
		l.mu.Lock()
		l.setFiltersLocked(fs)
		req := l.preparePageLocked(ctx, 1, true)
		l.mu.Unlock()

		l.logger.Debug().
			Bool("active", fs.HasActiveFilters).
			Uint64("generation", req.gen).
			Msg("Filters changed, reloading")

		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.fetchPage(req)
		}()
	}

	return nil
}

// Search replaces the list with the first page of results for query. A blank
// query goes back to browsing.
func (l *ListModel) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return l.LoadPopular(ctx, 1, true)
	}

	l.mu.Lock()
	reqCtx, cancel, gen := l.beginLocked(ctx)
	l.state.Set(ListLoading{})
	l.mu.Unlock()
	defer cancel()

	page, err := l.catalog.Search(reqCtx, kinopoisk.SearchQuery{
		Page:  1,
		Limit: l.pageSize,
		Query: query,
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.latestLocked(gen) {
		return ErrSuperseded
	}
	if err != nil {
		l.logger.Error().Err(err).Str("query", query).Msg("Search failed")
		l.state.Set(ListError{Message: ErrorMessage(err)})
		return err
	}

	l.setSuccessLocked(ListSuccess{
		Movies:      page.Movies,
		CanLoadMore: false,
		IsSearching: true,
		SearchQuery: query,
	})
	return nil
}

// SetSearchState switches between search entry and browsing without losing
// the current list. Entering search mode lets a page in flight land under the
// search flag; leaving it supersedes that page and reloads page one.
func (l *ListModel) SetSearchState(ctx context.Context, isSearching bool, query string) error {
	l.mu.Lock()
	if !isSearching {
		l.supersedeLocked()
	}

	next := ListSuccess{CanLoadMore: true}
	if cur, ok := l.state.Get().(ListSuccess); ok {
		next.Movies = cur.Movies
		next.CanLoadMore = cur.CanLoadMore
	}
	next.IsSearching = isSearching
	if isSearching {
		next.SearchQuery = query
	}
	l.setSuccessLocked(next)
	l.mu.Unlock()

	if !isSearching {
		return l.LoadPopular(ctx, 1, true)
	}
	return nil
}

// LoadNextPage requests the page after the current one. It reports false
// without fetching unless the list is browsing, idle and not exhausted.
func (l *ListModel) LoadNextPage(ctx context.Context) (bool, error) {
	l.mu.Lock()
	cur, ok := l.state.Get().(ListSuccess)
	if !ok || !cur.CanLoadMore || cur.IsSearching || cur.IsLoadingMore {
		l.mu.Unlock()
		return false, nil
	}
	req := l.preparePageLocked(ctx, l.currentPage+1, true)
	l.mu.Unlock()

	return true, l.fetchPage(req)
}

// ClearError returns to the last successful list, or to an empty one
func (l *ListModel) ClearError() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.supersedeLocked()
	restored := ListSuccess{CanLoadMore: true}
	if l.last != nil {
		restored = *l.last
	}
	l.state.Set(restored)
}

func (l *ListModel) setFiltersLocked(fs movie.FilterSettings) {
	l.filters = fs
	l.filtersActive = fs.HasActiveFilters
}

// preparePageLocked starts a new generation and moves the state to loading
func (l *ListModel) preparePageLocked(ctx context.Context, page int, useFilters bool) *pageRequest {
	if page < 1 {
		page = 1
	}

	req := &pageRequest{page: page}
	if useFilters {
		req.filters = l.filters
	}
	if cur, ok := l.state.Get().(ListSuccess); ok {
		req.prior = &cur
	} else if l.last != nil {
		prior := *l.last
		req.prior = &prior
	}
	req.ctx, req.cancel, req.gen = l.beginLocked(ctx)

	if page == 1 || req.prior == nil {
		l.state.Set(ListLoading{})
	} else {
		loading := *req.prior
		loading.IsLoadingMore = true
		loading.Notice = ""
		loading.IsSearching = false
		loading.SearchQuery = ""
		l.state.Set(loading)
	}
	return req
}

func (l *ListModel) fetchPage(req *pageRequest) error {
	defer req.cancel()

	result, err := l.catalog.Movies(req.ctx, kinopoisk.MoviesQuery{
		Page:      req.page,
		Limit:     l.pageSize,
		Year:      req.filters.Year,
		MinRating: req.filters.MinRating,
		Genre:     req.filters.Genre,
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.latestLocked(req.gen) {
		l.logger.Debug().Int("page", req.page).Uint64("generation", req.gen).Msg("Discarding superseded page")
		return ErrSuperseded
	}

	if err != nil {
		msg := ErrorMessage(err)
		l.logger.Error().Err(err).Int("page", req.page).Msg("Failed to load movies")

		if req.prior != nil && len(req.prior.Movies) > 0 {
			kept := *req.prior
			kept.IsLoadingMore = false
			kept.Notice = msg
			l.keepSearchLocked(&kept)
			if req.page == 1 {
				// The kept pages were fetched for the previous request, so
				// appending to them would mix results.
				kept.CanLoadMore = false
				if l.last != nil {
					last := *l.last
					last.CanLoadMore = false
					l.last = &last
				}
			}
			l.state.Set(kept)
		} else {
			l.state.Set(ListError{Message: msg})
		}
		return err
	}

	movies := result.Movies
	if req.page > 1 && req.prior != nil {
		movies = append(slices.Clone(req.prior.Movies), result.Movies...)
	}

	l.currentPage = req.page
	next := ListSuccess{
		Movies:      movies,
		CanLoadMore: len(result.Movies) > 0,
	}
	l.keepSearchLocked(&next)
	l.setSuccessLocked(next)

	l.logger.Debug().
		Int("page", req.page).
		Int("received", len(result.Movies)).
		Int("total", len(movies)).
		Msg("Loaded movies")

	return nil
}

// beginLocked cancels the in-flight request and returns the context and
// generation for a new one
func (l *ListModel) beginLocked(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	l.supersedeLocked()
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	return reqCtx, cancel, l.gen
}

func (l *ListModel) supersedeLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

func (l *ListModel) latestLocked(gen uint64) bool {
	if gen != l.gen {
		return false
	}
	l.cancel = nil
	return true
}

// keepSearchLocked carries over search mode entered while the page was loading
func (l *ListModel) keepSearchLocked(s *ListSuccess) {
	if cur, ok := l.state.Get().(ListSuccess); ok && cur.IsSearching {
		s.IsSearching = true
		s.SearchQuery = cur.SearchQuery
	}
}

// setSuccessLocked publishes s and remembers it for ClearError
func (l *ListModel) setSuccessLocked(s ListSuccess) {
	s.IsLoadingMore = false
	s.Notice = ""
	last := s
	l.last = &last
	l.state.Set(s)
}

// IsSuperseded reports whether err only means a newer request won
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
