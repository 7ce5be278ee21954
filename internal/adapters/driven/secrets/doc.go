// Package secrets provides the SecretStore implementations: a file-backed
// directory of JSON blobs, an HTTP key-value store speaking the vault KV
// v2 protocol, and an in-memory store for tests.
package secrets
