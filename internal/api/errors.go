package api

import (
	"errors"
	"fmt"
	"net/http"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

// SourceUnavailableError means a remote text could not be fetched, either
// because the request failed or the server answered with a non-2xx status.
type SourceUnavailableError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *SourceUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *SourceUnavailableError) UserMessage() string {
	return "Could not load the URL. Check the link."
}

type CatalogErrorKind int

const (
	CatalogOther CatalogErrorKind = iota
	CatalogConnection
	CatalogNotFound
	CatalogServer
	CatalogBadRequest
)

func (k CatalogErrorKind) String() string {
	switch k {
	case CatalogConnection:
		return "connection"
	case CatalogNotFound:
		return "not found"
	case CatalogServer:
		return "server"
	case CatalogBadRequest:
		return "bad request"
	default:
		return "other"
	}
}

// CatalogError is a failed call to the catalog service.
type CatalogError struct {
	Kind       CatalogErrorKind
	Endpoint   string
	BaseURL    string
	StatusCode int
	Err        error
}

func (e *CatalogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: %v", e.Endpoint, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// UserMessage is a specific, actionable message for the kind of failure.
func (e *CatalogError) UserMessage() string {
	switch e.Kind {
	case CatalogConnection:
		return fmt.Sprintf("Cannot reach the catalog server. Check that it is running at %s.", e.BaseURL)
	case CatalogNotFound:
		return "Catalog endpoint not found (404). Check the API URL."
	case CatalogServer:
		return fmt.Sprintf("Catalog server error (%d). Check the server logs.", e.StatusCode)
	case CatalogBadRequest:
		return "Invalid catalog request (400). Check the search pattern."
	}
	return fmt.Sprintf("Catalog error: %v", e.Err)
}

// newCatalogError classifies err. HTTP status failures arrive as
// *ghAPI.HTTPError, anything else returned by the transport is a
// connection failure.
func newCatalogError(baseURL, endpoint string, err error) *CatalogError {
	ce := &CatalogError{Endpoint: endpoint, BaseURL: baseURL, Err: err}

	var httpErr *ghAPI.HTTPError
	if !errors.As(err, &httpErr) {
		ce.Kind = CatalogConnection
		return ce
	}
	ce.StatusCode = httpErr.StatusCode
	switch {
	case httpErr.StatusCode == http.StatusNotFound:
		ce.Kind = CatalogNotFound
	case httpErr.StatusCode == http.StatusBadRequest:
		ce.Kind = CatalogBadRequest
	case httpErr.StatusCode >= 500:
		ce.Kind = CatalogServer
	default:
		ce.Kind = CatalogOther
	}
	return ce
}
