// Package tlsroots provides TLS trust material for the flexstore HTTP
// client.
//
// Services embedding flexstore often talk to upstreams behind private
// certificate authorities or requiring mutual TLS. This package covers
// both sides of that:
//
//   - roots.go: root certificate pools (system roots + custom CAs)
//   - watcher.go: client certificate hot-reload via fsnotify
//
// Features:
//
//   - System certificate pool with custom CA additions
//   - PEM loading from bytes, files, or whole directories
//   - Client-side mutual TLS configs
//   - Certificate reload on file change, debounced
package tlsroots
