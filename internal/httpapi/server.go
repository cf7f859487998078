// Package httpapi realizes the HTTP adapter contract described in the
// core design: it extracts store name and key from the URL, borrows a
// store from the registry for the duration of a request, and maps store
// errors to HTTP status codes. None of the storage engine or content
// negotiation logic lives here; this package only wires them to net/http.
package httpapi

import (
	"net/http"
	"regexp"

	"github.com/0xRadioAc7iv/kvstore/internal/accept"
	"github.com/0xRadioAc7iv/kvstore/internal/registry"
)

// storeNamePattern matches the router contract: any non-empty run of
// characters other than the ones filesystems (or this server's own path
// routing) can't safely carry in a store name.
var storeNamePattern = regexp.MustCompile(`^[^/<>:"\\|?*]+$`)

func validStoreName(name string) bool {
	return name != "" && storeNamePattern.MatchString(name)
}

// listCandidates are the two representations the all-keys endpoint can
// produce, most preferred first for the purposes of the JSON default.
var listCandidates = []accept.Candidate{
	{Type: "application", Subtype: "json"},
	{Type: "text", Subtype: "html"},
}

// handler holds the dependencies shared by every route.
type handler struct {
	registry *registry.Registry
}

// NewServer builds the HTTP handler exposing the routes described in the
// design's external interfaces: GET/POST /kv/{store}/{key}, GET
// /merge/{store}, GET /all-keys/{store}, and GET /help.
func NewServer(reg *registry.Registry) http.Handler {
	h := &handler{registry: reg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /kv/{store}/{key}", h.handleGet)
	mux.HandleFunc("POST /kv/{store}/{key}", h.handlePut)
	mux.HandleFunc("GET /merge/{store}", h.handleMerge)
	mux.HandleFunc("GET /all-keys/{store}", h.handleAllKeys)
	mux.HandleFunc("GET /help", h.handleHelp)

	return mux
}
