package driven

import "context"

// CommandRunner executes an external command and returns its stdout.
// Extraction tooling (pdftotext) is invoked through this seam so adapters
// stay testable without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
