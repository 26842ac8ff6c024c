// Package accesslog feeds client addresses extracted from newline
// delimited JSON access logs into the counting structures and compares the
// exact and the estimated distinct counts.
package accesslog

import (
	"bufio"
	"io"
	"net/netip"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	forwardedForField = "http_x_forwarded_for"
	remoteAddrField   = "remote_addr"
)

func validIP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if _, err := netip.ParseAddr(s); err != nil {
		return "", false
	}
	return s, true
}

// ClientIP extracts the client address from a parsed log record. A
// non-empty forwarded-for header wins, taking its first comma-separated
// token; otherwise the remote address is used. Either source must parse as
// a syntactically valid IPv4 or IPv6 address or the record contributes
// nothing.
func ClientIP(record map[string]any) (string, bool) {
	if xff, ok := record[forwardedForField].(string); ok && strings.TrimSpace(xff) != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := validIP(first); ok {
			return ip, true
		}
	}
	if remoteAddr, ok := record[remoteAddrField].(string); ok {
		if ip, ok := validIP(remoteAddr); ok {
			return ip, true
		}
	}
	return "", false
}

// ScanClientIPs makes one lazy pass over newline-delimited JSON records
// from _r_ and calls _fn_ with every valid client address found. Blank
// lines, lines that don't parse as JSON, and records without a valid
// address are skipped silently. A non-nil error from _fn_ aborts the scan.
func ScanClientIPs(r io.Reader, fn func(ip string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		ip, ok := ClientIP(record)
		if !ok {
			continue
		}
		if err := fn(ip); err != nil {
			return err
		}
	}
	return scanner.Err()
}
