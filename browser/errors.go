package browser

import (
	"context"
	"errors"
	"net"

	"github.com/s0up4200/kinoshelf/kinopoisk"
)

// Common errors
var (
	// ErrSuperseded is returned by an operation whose result was discarded
	// because a newer operation replaced it
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrMissingID indicates the detail view was opened without a usable movie id
	ErrMissingID = errors.New("movie id not provided")
	// ErrNotLoaded indicates an action that needs a loaded movie
	ErrNotLoaded = errors.New("movie not loaded")
)

// User-facing messages
const (
	MsgNotFound      = "data not found"
	MsgMovieNotFound = "movie not found"
	MsgUnauthorized  = "authorization error"
	MsgServerError   = "server error"
	MsgOffline       = "check your internet connection"
	MsgTimeout       = "request timed out"
	MsgCanceled      = "request cancelled"
	MsgDataError     = "movie data error"
	MsgMissingID     = "movie id not provided"
	MsgUnknown       = "unknown error occurred"
)

// ErrorMessage maps a failure to the message shown to the user
func ErrorMessage(err error) string {
	if err == nil {
		return MsgUnknown
	}

	var apiErr *kinopoisk.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsNotFound():
			return MsgNotFound
		case apiErr.IsUnauthorized():
			return MsgUnauthorized
		case apiErr.IsServerError():
			return MsgServerError
		}
	}

	switch {
	case errors.Is(err, ErrMissingID):
		return MsgMissingID
	case errors.Is(err, kinopoisk.ErrInvalidResponse):
		return MsgDataError
	case isTimeout(err):
		return MsgTimeout
	case errors.Is(err, context.Canceled):
		return MsgCanceled
	case isUnreachable(err):
		return MsgOffline
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknown
}

// DetailErrorMessage is ErrorMessage with the not-found case naming the movie
func DetailErrorMessage(err error) string {
	var apiErr *kinopoisk.APIError
	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
		return MsgMovieNotFound
	}
	return ErrorMessage(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
