// Package kvclient provides a client for interacting with a kvstore server
// over HTTP.
//
// Example:
//
//	client := kvclient.New(kvclient.WithHost("127.0.0.1"), kvclient.WithPort(8080))
//
//	err := client.Put("widgets", "foo", []byte("bar"), "text/plain")
//	value, mime, err := client.Get("widgets", "foo")
package kvclient
