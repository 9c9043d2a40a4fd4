// Package corpus loads the scraped API documentation file into an in-memory
// endpoint collection. The file is produced by the external scraper; this
// package only validates and filters it, it never mutates the source.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

var validMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

// Loader parses scraped documentation into a domain.Corpus.
type Loader struct {
	strict bool
	logger *zap.Logger
}

// New creates a corpus loader. By default malformed entries are skipped and
// counted; strict mode aborts the load on the first malformed entry.
func New(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// WithStrict switches between skip-and-log (false) and abort-on-malformed
// (true) entry policies.
func (l *Loader) WithStrict(strict bool) *Loader {
	l.strict = strict
	return l
}

// documentDTO is the on-disk shape written by the scraper.
type documentDTO struct {
	BaseURL   string        `json:"base_url"`
	ScrapedAt time.Time     `json:"scraped_at"`
	Endpoints []endpointDTO `json:"endpoints"`
}

type endpointDTO struct {
	Name        string         `json:"name"`
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	Description string         `json:"description"`
	Parameters  []parameterDTO `json:"parameters"`
	Example     string         `json:"example"`
	Tags        []string       `json:"tags"`
}

type parameterDTO struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Default     string `json:"default"`
}

// LoadFile reads and parses the corpus file at path.
func (l *Loader) LoadFile(path string) (domain.Corpus, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("open corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := l.Load(f)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Load parses scraped documentation from r. The source is either the full
// scraper document ({base_url, scraped_at, endpoints}) or a bare JSON array
// of endpoint objects.
func (l *Loader) Load(r io.Reader) (domain.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("read corpus: %w", err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return domain.Corpus{}, err
	}

	corpus := domain.Corpus{
		BaseURL:   doc.BaseURL,
		ScrapedAt: doc.ScrapedAt,
		Endpoints: make([]domain.Endpoint, 0, len(doc.Endpoints)),
	}

	seen := make(map[string]struct{}, len(doc.Endpoints))
	for i, dto := range doc.Endpoints {
		ep, err := endpointFromDTO(dto)
		if err == nil {
			if _, dup := seen[ep.Key()]; dup {
				err = fmt.Errorf("duplicate endpoint %s", ep.Key())
			}
		}
		if err != nil {
			if l.strict {
				return domain.Corpus{}, fmt.Errorf("entry %d: %w: %w", i, err, domain.ErrMalformedCorpus)
			}
			corpus.Skipped++
			l.logger.Warn("Skipping malformed corpus entry",
				zap.Int("entry", i),
				zap.String("method", dto.Method),
				zap.String("path", dto.Path),
				zap.Error(err),
			)
			continue
		}
		seen[ep.Key()] = struct{}{}
		corpus.Endpoints = append(corpus.Endpoints, ep)
	}

	if len(corpus.Endpoints) == 0 {
		return domain.Corpus{}, fmt.Errorf("no valid endpoints (skipped %d): %w", corpus.Skipped, domain.ErrEmptyCorpus)
	}

	return corpus, nil
}

func decodeDocument(data []byte) (documentDTO, error) {
	var doc documentDTO
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	// The scraper historically wrote a bare endpoint array.
	var endpoints []endpointDTO
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return documentDTO{}, fmt.Errorf("parse corpus: %w: %w", err, domain.ErrMalformedCorpus)
	}
	return documentDTO{Endpoints: endpoints}, nil
}

func endpointFromDTO(dto endpointDTO) (domain.Endpoint, error) {
	if dto.Path == "" {
		return domain.Endpoint{}, fmt.Errorf("empty path")
	}
	if dto.Method == "" {
		return domain.Endpoint{}, fmt.Errorf("empty method")
	}
	if _, ok := validMethods[dto.Method]; !ok {
		return domain.Endpoint{}, fmt.Errorf("unknown method %q", dto.Method)
	}

	params := make([]domain.Parameter, 0, len(dto.Parameters))
	for _, p := range dto.Parameters {
		if p.Name == "" {
			return domain.Endpoint{}, fmt.Errorf("parameter with empty name")
		}
		loc, err := domain.ParseParamLocation(p.Location)
		if err != nil {
			return domain.Endpoint{}, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		typ, err := domain.ParseParamType(p.Type)
		if err != nil {
			return domain.Endpoint{}, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		params = append(params, domain.Parameter{
			Name:        p.Name,
			Location:    loc,
			Type:        typ,
			Required:    p.Required,
			Description: p.Description,
			Default:     p.Default,
		})
	}

	return domain.Endpoint{
		Name:        dto.Name,
		Method:      dto.Method,
		Path:        dto.Path,
		Description: dto.Description,
		Parameters:  params,
		Example:     dto.Example,
		Tags:        dto.Tags,
	}, nil
}
