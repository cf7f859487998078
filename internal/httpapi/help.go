package httpapi

import "net/http"

const helpHTML = `<!DOCTYPE html>
<html>
<head><title>kvstore help</title></head>
<body>
<h1>kvstore</h1>
<p>A networked key-value store organized as named stores, each backed by one append-only file.</p>

<h2>GET /kv/{store}/{key}</h2>
<p>Retrieve the value stored under key. Responds with the value's bytes and its recorded MIME type, 404 if absent.</p>

<h2>POST /kv/{store}/{key}</h2>
<p>Store the request body under key, using the Content-Type header as its MIME type (default application/octet-stream). Creates the store on first use.</p>

<h2>GET /merge/{store}</h2>
<p>Compact the store's file down to the latest record per key. Responds with the size before and after.</p>

<h2>GET /all-keys/{store}</h2>
<p>List every key currently in the store, as a JSON array or an HTML table depending on the Accept header.</p>

<h2>GET /help</h2>
<p>This page.</p>
</body>
</html>
`

func (h *handler) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(helpHTML))
}
