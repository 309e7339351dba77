// Package source resolves document batches to raw PDF bytes.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	pdferrors "github.com/a3tai/aditamento-extractor/internal/pdf/errors"
)

// DefaultBaseURL hosts the reference set of termos de aditamento
const DefaultBaseURL = "https://raw.githubusercontent.com/beatrizcardc/MonitoramentoROD/main/termos_aditamento"

// RemoteFiles is the allow-list of documents available from the base URL
var RemoteFiles = []string{
	"termo1.pdf",
	"termo2.pdf",
	"termo3.pdf",
	"termo4.pdf",
}

// Document is a resolved PDF and the name it is reported under
type Document struct {
	Name string
	Data []byte
}

// Outcome is the result of resolving one document of a batch. Exactly one
// of Document.Data or Err is meaningful.
type Outcome struct {
	Document Document
	Err      error
}

// OK reports whether the document was resolved
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Batch is a set of documents selected through one intake mode
type Batch interface {
	// Mode names the intake mode for logs
	Mode() string
	// Len is the number of documents in the batch
	Len() int
	names() []string
	resolve(ctx context.Context, r *Resolver) []Outcome
}

// Upload is an in-memory file received from a user
type Upload struct {
	Name string
	Data []byte
}

// UploadBatch holds uploaded files in upload order
type UploadBatch struct {
	Files []Upload
}

// Mode implements Batch
func (UploadBatch) Mode() string { return "upload" }

// Len implements Batch
func (b UploadBatch) Len() int { return len(b.Files) }

func (b UploadBatch) names() []string {
	out := make([]string, len(b.Files))
	for i, f := range b.Files {
		out[i] = f.Name
	}
	return out
}

func (b UploadBatch) resolve(_ context.Context, _ *Resolver) []Outcome {
	out := make([]Outcome, 0, len(b.Files))
	for _, f := range b.Files {
		out = append(out, Outcome{Document: Document(f)})
	}
	return out
}

// RemoteSelection holds allow-listed remote names in selection order
type RemoteSelection struct {
	Names []string
}

// Mode implements Batch
func (RemoteSelection) Mode() string { return "remote" }

// Len implements Batch
func (s RemoteSelection) Len() int { return len(s.Names) }

func (s RemoteSelection) names() []string { return s.Names }

func (s RemoteSelection) resolve(ctx context.Context, r *Resolver) []Outcome {
	out := make([]Outcome, 0, len(s.Names))
	for _, name := range s.Names {
		data, err := r.fetcher.Fetch(ctx, name)
		out = append(out, Outcome{Document: Document{Name: name, Data: data}, Err: err})
	}
	return out
}

// LocalFiles holds paths under the configured PDF directory
type LocalFiles struct {
	Paths []string
}

// Mode implements Batch
func (LocalFiles) Mode() string { return "local" }

// Len implements Batch
func (l LocalFiles) Len() int { return len(l.Paths) }

func (l LocalFiles) names() []string {
	out := make([]string, len(l.Paths))
	for i, p := range l.Paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func (l LocalFiles) resolve(_ context.Context, r *Resolver) []Outcome {
	out := make([]Outcome, 0, len(l.Paths))
	for _, path := range l.Paths {
		doc, err := r.local.Read(path)
		out = append(out, Outcome{Document: doc, Err: err})
	}
	return out
}

// Resolver turns a Batch into outcomes, one per document, in batch order
type Resolver struct {
	fetcher *Fetcher
	local   *LocalReader
	logger  *slog.Logger
}

// NewResolver creates a resolver. Either component may be nil when the
// corresponding intake mode is not offered.
func NewResolver(fetcher *Fetcher, local *LocalReader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{fetcher: fetcher, local: local, logger: logger}
}

// Resolve returns one outcome per document. Failures are recorded in the
// outcome and never stop the batch.
func (r *Resolver) Resolve(ctx context.Context, batch Batch) []Outcome {
	if batch == nil || batch.Len() == 0 {
		return nil
	}

	switch batch.(type) {
	case RemoteSelection, *RemoteSelection:
		if r.fetcher == nil {
			return unavailable(batch)
		}
	case LocalFiles, *LocalFiles:
		if r.local == nil {
			return unavailable(batch)
		}
	}

	outcomes := batch.resolve(ctx, r)

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	r.logger.Debug("source.resolve.done",
		"mode", batch.Mode(),
		"documents", len(outcomes),
		"failed", failed,
	)

	return outcomes
}

// unavailable fails every document of a batch whose intake mode has no
// backing component
func unavailable(batch Batch) []Outcome {
	names := batch.names()
	out := make([]Outcome, len(names))
	for i, name := range names {
		out[i] = Outcome{
			Document: Document{Name: name},
			Err:      pdferrors.NewValidationError(name, fmt.Sprintf("%s intake is not configured", batch.Mode())),
		}
	}
	return out
}
