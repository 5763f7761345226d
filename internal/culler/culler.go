// Package culler finds paintings whose image links no longer resolve.
package culler

import (
	"context"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nikbrunner/gallery/internal/model"
)

// Status represents the health status of an image URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response with an image body
	Dead                      // 404 or 410 Gone
	NotImage                  // reachable, but the response is not an image
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case NotImage:
		return "not an image"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single painting.
type Result struct {
	Painting    *model.Painting
	Status      Status
	StatusCode  int    // HTTP status code (0 if connection failed)
	ContentType string // response Content-Type without parameters
	Error       string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options configures a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists hosts whose 401/403/404 answers mean "possibly
	// restricted" rather than dead, e.g. signed Cloudinary delivery.
	ExcludeDomains []string
	Client         *http.Client // nil builds one from Timeout
	Logger         *log.Logger
	OnProgress     ProgressFunc
}

// CheckImages checks all painting image URLs concurrently and returns
// results in input order. Cancelling ctx stops outstanding requests; their
// results report Unreachable.
func CheckImages(ctx context.Context, paintings []model.Painting, opts Options) []Result {
	if len(paintings) == 0 {
		return nil
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := stdlog.Writer()
	stdlog.SetOutput(io.Discard)
	defer stdlog.SetOutput(originalOutput)

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	results := make([]Result, len(paintings))
	jobs := make(chan int, len(paintings))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkImage(ctx, client, &paintings[idx], excludeMap)
				logger.Debug("checked image", "id", paintings[idx].ID, "status", results[idx].Status, "code", results[idx].StatusCode)

				if opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					opts.OnProgress(completed, len(paintings))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range paintings {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkImage checks a single URL and returns the result.
func checkImage(ctx context.Context, client *http.Client, painting *model.Painting, excludeMap map[string]bool) Result {
	result := Result{
		Painting: painting,
	}

	// Try HEAD first (faster, less bandwidth)
	resp, err := do(ctx, client, http.MethodHead, painting.ImageURL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		// Some image hosts reject HEAD, fall back to GET
		resp, err = do(ctx, client, http.MethodGet, painting.ImageURL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.ContentType = mediaType(resp.Header.Get("Content-Type"))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		if result.ContentType == "" || strings.HasPrefix(result.ContentType, "image/") {
			result.Status = Healthy
		} else {
			result.Status = NotImage
		}
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		if isExcludedDomain(painting.ImageURL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly restricted (auth required)"
		} else {
			result.Status = Dead
		}
	case (resp.StatusCode == 401 || resp.StatusCode == 403) && isExcludedDomain(painting.ImageURL, excludeMap):
		result.Status = Unreachable
		result.Error = "Possibly restricted (auth required)"
	default:
		// Other errors (500, 403, etc.) - treat as unreachable
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	return client.Do(req)
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// isExcludedDomain checks if the URL's domain is in the exclude list.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	// Subdomains match their parent, e.g. "media.example.com" matches "example.com"
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Invalid URL"
	default:
		return errStr
	}
}
