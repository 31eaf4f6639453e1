package schema

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Loader fetches schema documents from files, an fs.FS, or HTTP, keyed by the
// Source kind. HTTP fetching is opt-in.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS supplies the filesystem backing SourceKindFS sources, typically an
// embed.FS.
func WithFS(files fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables SourceKindURL sources using the given client. A nil
// client enables fetching with http.DefaultClient semantics.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client == nil {
			client = &http.Client{}
		}
		l.http = client
	}
}

// WithRequestTimeout bounds each HTTP fetch. Ignored for other source kinds.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// NewLoader constructs a Loader. Without options it can load file sources
// only.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches the document addressed by src and wraps it. Inline sources are
// rejected: their payload never left the caller, so there is nothing to load.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		raw []byte
		err error
	)
	switch src.Kind() {
	case SourceKindFile:
		raw, err = loadFile(src.Location())
	case SourceKindFS:
		raw, err = loadFromFS(l.fs, src.Location())
	case SourceKindURL:
		if l.http == nil {
			return Document{}, errors.New("schema: http loading is not enabled")
		}
		raw, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	case SourceKindInline:
		return Document{}, errors.New("schema: inline sources cannot be loaded")
	default:
		return Document{}, errors.New("schema: unsupported source kind " + string(src.Kind()))
	}
	if err != nil {
		return Document{}, err
	}
	return NewDocument(src, raw)
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("schema: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("schema: loader has no filesystem configured")
	}
	if name == "" {
		return nil, errors.New("schema: fs entry name is required")
	}
	return fs.ReadFile(files, name)
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if url == "" {
		return nil, errors.New("schema: url is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("schema: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
