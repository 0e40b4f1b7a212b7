package storage

import "strings"

// Namespace key codec. A namespaced key has the raw form
// "{namespace}:{key}"; an empty namespace leaves keys untouched, which
// means such a store sees every key on its backend.

// encodeKey returns the raw backend form of key for the namespace.
func encodeKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

// decodeKey strips the namespace prefix from a raw backend key.
// The second return reports whether raw belongs to the namespace;
// with an empty namespace every key belongs and is returned as-is.
func decodeKey(namespace, raw string) (string, bool) {
	if namespace == "" {
		return raw, true
	}
	prefix := namespace + ":"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	return raw[len(prefix):], true
}

// namespacePrefix returns the raw-key prefix owned by the namespace,
// empty for the empty namespace.
func namespacePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + ":"
}
