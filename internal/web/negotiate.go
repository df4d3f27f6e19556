package web

import (
	"net/http"
	"strings"
)

const (
	// MarkerHeader flags a request that expects a fragment.
	MarkerHeader = "X-Requested-With"
	// MarkerValue is the value of [MarkerHeader] sent by XMLHttpRequest callers.
	MarkerValue = "XMLHttpRequest"
	// HTMXHeader is set to "true" on every htmx request.
	HTMXHeader = "HX-Request"
)

// Shape selects between whole-page and partial rendering.
type Shape int

const (
	Full Shape = iota
	Fragment
)

func (s Shape) String() string {
	if s == Fragment {
		return "fragment"
	}
	return "full"
}

// Negotiate returns [Fragment] for requests carrying the fragment marker and [Full] otherwise.
func Negotiate(r *http.Request) Shape {
	if r.Header.Get(MarkerHeader) == MarkerValue {
		return Fragment
	}
	if strings.EqualFold(r.Header.Get(HTMXHeader), "true") {
		return Fragment
	}
	return Full
}
