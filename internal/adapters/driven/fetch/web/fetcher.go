package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// maxDocumentBytes caps how much of a document response is read.
const maxDocumentBytes = 64 << 20 // 64 MiB

// Fetcher discovers PDF documents on origin pages and extracts their text.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	runner    driven.CommandRunner
	validate  func(rs io.ReadSeeker) error
	userAgent string
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithRateLimit bounds outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *Fetcher) {
		if rps > 0 && burst > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithRunner sets the command runner used for text extraction.
func WithRunner(runner driven.CommandRunner) Option {
	return func(f *Fetcher) {
		if runner != nil {
			f.runner = runner
		}
	}
}

// WithValidator replaces the PDF validation step.
func WithValidator(validate func(rs io.ReadSeeker) error) Option {
	return func(f *Fetcher) {
		if validate != nil {
			f.validate = validate
		}
	}
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// NewFetcher creates a web fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 60 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(2), 4),
		runner:    ExecRunner{},
		userAgent: "lexwatch/1.0",
	}
	f.validate = func(rs io.ReadSeeker) error {
		return api.Validate(rs, model.NewDefaultConfiguration())
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ListDocuments returns the PDF documents linked from an origin page,
// in page order.
func (f *Fetcher) ListDocuments(ctx context.Context, origin string) ([]driven.DocumentRef, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin %q: %w", origin, domain.ErrInvalidInput)
	}

	body, err := f.get(ctx, origin)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", origin, domain.ErrDecodeFailed)
	}

	var refs []driven.DocumentRef
	seen := make(map[string]bool)
	walkAnchors(root, func(href, text string) {
		target, err := base.Parse(href)
		if err != nil {
			return
		}
		if !strings.HasSuffix(strings.ToLower(target.Path), ".pdf") {
			return
		}
		abs := target.String()
		if seen[abs] {
			return
		}
		seen[abs] = true

		name := strings.Join(strings.Fields(text), " ")
		if name == "" {
			name = strings.TrimSuffix(path.Base(target.Path), path.Ext(target.Path))
		}
		refs = append(refs, driven.DocumentRef{Name: name, URL: abs})
	})

	logger.Debug("Found %d document(s) on %s", len(refs), origin)
	return refs, nil
}

// ExtractText downloads a document, validates it as PDF and converts it
// to plain text.
func (f *Fetcher) ExtractText(ctx context.Context, docURL string) (string, error) {
	body, err := f.get(ctx, docURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("download %s: %w", docURL, domain.ErrUnreachable)
	}

	if err := f.validate(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("validate %s: %w", docURL, domain.ErrDecodeFailed)
	}

	// pdftotext reads from a file, so stage the bytes in a temp file.
	tmp, err := os.CreateTemp("", "lexwatch-*.pdf")
	if err != nil {
		return "", fmt.Errorf("stage document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("stage document: %w", err)
	}
	tmp.Close()

	out, err := f.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", docURL, domain.ErrDecodeFailed)
	}
	return string(out), nil
}

// get performs a rate-limited GET and returns the response body.
func (f *Fetcher) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, domain.ErrInvalidInput)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, domain.ErrUnreachable)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d: %w", rawURL, resp.StatusCode, domain.ErrUnreachable)
	}
	return resp.Body, nil
}

// walkAnchors visits every <a href> element in document order.
func walkAnchors(n *html.Node, visit func(href, text string)) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" && attr.Val != "" {
				visit(attr.Val, anchorText(n))
				break
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkAnchors(c, visit)
	}
}

// anchorText collects the text content beneath an anchor node.
func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
