package mcpserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/edgelog/internal/media"
)

var imageClient = &http.Client{
	Timeout: 30 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects (max 5)")
		}
		return checkBlockedHost(req.URL.Hostname())
	},
}

// resolveImage turns a data URI or an http(s) URL into a validated image
// data URI.
func resolveImage(ctx context.Context, raw string) (string, error) {
	if strings.HasPrefix(raw, "data:") {
		blob, err := media.DecodeImage(raw)
		if err != nil {
			return "", err
		}
		if err := validateMagicBytes(blob); err != nil {
			return "", err
		}
		return raw, nil
	}
	data, err := fetchHTTP(ctx, raw)
	if err != nil {
		return "", err
	}
	blob := media.Blob{MIME: strings.Split(http.DetectContentType(data), ";")[0], Data: data}
	uri := media.Encode(blob.MIME, blob.Data)
	if _, err := media.DecodeImage(uri); err != nil {
		return "", err
	}
	return uri, nil
}

// fetchHTTP downloads an image with security checks.
func fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s (only data, http, https)", parsed.Scheme)
	}
	if err := checkBlockedHost(parsed.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, media.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if len(data) > media.MaxSize {
		return nil, fmt.Errorf("image too large: exceeds %d bytes", media.MaxSize)
	}
	return data, nil
}

// checkBlockedHost rejects loopback and cloud metadata addresses.
func checkBlockedHost(host string) error {
	if host == "metadata.google.internal" {
		return fmt.Errorf("blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("blocked host: loopback address %s", host)
	}
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("blocked host: cloud metadata address %s", host)
	}
	return nil
}

// validateMagicBytes verifies the content matches the declared image type.
func validateMagicBytes(b media.Blob) error {
	detected := strings.Split(http.DetectContentType(b.Data), ";")[0]
	if detected != b.MIME {
		return fmt.Errorf("content does not match %s (detected: %s)", b.MIME, detected)
	}
	return nil
}
