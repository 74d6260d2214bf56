// Package pipeline orchestrates the complete load process: read sources,
// parse them into entries, extract structured doses, and hand back a sorted
// dataset the commands can query.
package pipeline

import (
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/doselog/doselog/internal/cache"
	"github.com/doselog/doselog/internal/load"
	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/parse"
	"github.com/doselog/doselog/internal/query"
	"github.com/doselog/doselog/internal/registry"
)

// Pipeline wires the parser, extractor, and parse cache together.
type Pipeline struct {
	parser    *parse.Parser
	extractor *parse.Extractor
	cache     cache.Cache // nil disables caching
	cacheTTL  time.Duration
	log       *zap.Logger
}

// New creates a pipeline. A nil cache disables caching; a nil logger
// silences it.
func New(reg *registry.Registry, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		parser:    parse.NewParser(logger),
		extractor: parse.NewExtractor(reg, logger),
		cache:     c,
		cacheTTL:  ttl,
		log:       logger,
	}
}

// Dataset is the loaded and fully processed log: every entry in timestamp
// order, every dose extracted from them, and the journal entries that
// yielded no dose but are kept anyway.
type Dataset struct {
	Entries []model.Entry
	Doses   []model.Dose
	Journal []model.Entry
}

// Load reads the file or directory at path and processes everything in it.
// A missing path is the one fatal condition; malformed content inside a
// readable source is skipped with a warning instead.
func (p *Pipeline) Load(path string) (*Dataset, error) {
	sources, err := load.LoadPath(path)
	if err != nil {
		return nil, err
	}

	var entries []model.Entry
	for _, src := range sources {
		parsed := p.parseSource(src)
		p.log.Debug("parsed source",
			zap.String("ref", src.Ref),
			zap.Int("entries", len(parsed)))
		entries = append(entries, parsed...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp().Before(entries[j].Timestamp())
	})

	var (
		doses   []model.Dose
		journal []model.Entry
	)
	for _, e := range entries {
		extracted := p.extractor.Extract(e)
		if len(extracted) == 0 {
			journal = append(journal, e)
			continue
		}
		doses = append(doses, extracted...)
	}
	query.SortDoses(doses)

	return &Dataset{Entries: entries, Doses: doses, Journal: journal}, nil
}

// parseSource returns the cached parse of a source when its content is
// unchanged, otherwise parses and stores the result.
func (p *Pipeline) parseSource(src load.Source) []model.Entry {
	if p.cache == nil {
		return p.parser.Parse(src.Text, src.Ref)
	}

	key := cache.Key(src.Ref, []byte(src.Text))
	if data, ok := p.cache.Get(key); ok {
		var entries []model.Entry
		if err := json.Unmarshal(data, &entries); err == nil {
			p.log.Debug("cache hit", zap.String("ref", src.Ref))
			return entries
		}
		_ = p.cache.Delete(key)
	}

	entries := p.parser.Parse(src.Text, src.Ref)
	if data, err := json.Marshal(entries); err == nil {
		if err := p.cache.Set(key, data, p.cacheTTL); err != nil {
			p.log.Debug("cache write failed", zap.String("ref", src.Ref), zap.Error(err))
		}
	}
	return entries
}
