package driven

import "context"

// DocumentRef is one document discovered on an origin page.
type DocumentRef struct {
	// Name is the display name of the document (anchor text).
	Name string

	// URL is the absolute URL of the document content.
	URL string
}

// PageFetcher discovers and extracts tracked documents.
// It is the boundary to the network and to PDF decoding; implementations
// must carry the caller's context deadline on every remote call.
//
// Failures are reported as domain.ErrUnreachable (network) or
// domain.ErrDecodeFailed (content) so the pipeline can downgrade them to a
// per-document skip.
type PageFetcher interface {
	// ListDocuments returns the documents published on an origin page,
	// in page order.
	ListDocuments(ctx context.Context, origin string) ([]DocumentRef, error)

	// ExtractText downloads a document and returns its plain text.
	ExtractText(ctx context.Context, url string) (string, error)
}
