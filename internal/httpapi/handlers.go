package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"sort"

	"github.com/0xRadioAc7iv/kvstore/internal/accept"
	"github.com/0xRadioAc7iv/kvstore/internal/store"
)

func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("store")
	key := r.PathValue("key")

	if !validStoreName(name) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	st, ok := h.registry.Lookup(name)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	value, mime, err := st.Get(key)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(value)
}

func (h *handler) handlePut(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("store")
	key := r.PathValue("key")

	if !validStoreName(name) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	mime := r.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	st, err := h.registry.GetOrCreate(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := st.Put([]byte(key), body, mime); err != nil {
		writeStoreError(w, err)
		return
	}

	fmt.Fprint(w, "OK")
}

func (h *handler) handleMerge(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("store")

	if !validStoreName(name) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	st, ok := h.registry.Lookup(name)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	before, err := st.Size()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := st.Merge(); err != nil {
		writeStoreError(w, err)
		return
	}

	after, err := st.Size()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "merged %s: %d bytes (%.2f MiB) -> %d bytes (%.2f MiB)\n",
		name, before, float64(before)/store.OneMegabyte, after, float64(after)/store.OneMegabyte)
}

func (h *handler) handleAllKeys(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("store")

	if !validStoreName(name) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	st, ok := h.registry.Lookup(name)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	keys := st.Keys()
	sort.Strings(keys)

	ranges := accept.Parse(r.Header.Get("Accept"))
	best := accept.HighestIn(ranges, listCandidates)
	if best == accept.Any {
		best = accept.Candidate{Type: "application", Subtype: "json"}
	}

	if best.Type == "text" && best.Subtype == "html" {
		writeKeysHTML(w, keys)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(keys)
}

func writeKeysHTML(w http.ResponseWriter, keys []string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<table>\n")
	for _, k := range keys {
		fmt.Fprintf(w, "<tr><td>%s</td></tr>\n", html.EscapeString(k))
	}
	fmt.Fprint(w, "</table>\n")
}

// writeStoreError maps a store error to the HTTP status spec.md assigns it:
// not-found -> 404, everything else -> 500 with a strerror-style message.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
