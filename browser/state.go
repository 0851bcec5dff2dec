// Package browser holds the catalog browsing state machines: the paged movie
// list with search and filters, the single movie detail view and the
// favorites list.
//
// Each model publishes its state through a live.Value. Operations block until
// their fetch resolves and return the error they also fold into state, so a
// caller can either watch the state stream or act on the return value.
package browser

import "github.com/s0up4200/kinoshelf/movie"

// ListState is one of ListLoading, ListSuccess or ListError
type ListState interface {
	isListState()
}

// ListLoading is shown while the first page or a search is in flight
type ListLoading struct{}

// ListSuccess holds the accumulated movie list
type ListSuccess struct {
	Movies        []movie.Movie
	CanLoadMore   bool
	IsSearching   bool
	SearchQuery   string
	IsLoadingMore bool
	// Notice carries the message of a failed load that kept the list on screen
	Notice string
}

// ListError is shown when a load failed and there was no list to keep
type ListError struct {
	Message string
}

func (ListLoading) isListState() {}
func (ListSuccess) isListState() {}
func (ListError) isListState()   {}

// DetailState is one of DetailLoading, DetailSuccess or DetailError
type DetailState interface {
	isDetailState()
}

type DetailLoading struct{}

type DetailSuccess struct {
	Movie movie.Movie
}

type DetailError struct {
	Message string
}

func (DetailLoading) isDetailState() {}
func (DetailSuccess) isDetailState() {}
func (DetailError) isDetailState()   {}
