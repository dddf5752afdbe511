// Package loader reads parameter tables from YAML documents and feeds them
// into a registry. Every document is decoded strictly and every merged
// record is range-checked before anything is registered, so a bad file is
// rejected as a whole at load time and never surfaces during lookups.
package loader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/evdnx/gotsparams/config"
	"github.com/evdnx/gotsparams/logger"
	"github.com/evdnx/gotsparams/metrics"
	"github.com/evdnx/gotsparams/registry"
	"github.com/evdnx/gotsparams/strategy"
	"github.com/evdnx/gotsparams/types"
)

// Document is one YAML document of a table file.
type Document struct {
	Strategy string                          `yaml:"strategy"`
	Symbol   string                          `yaml:"symbol"`
	Entries  []Entry                         `yaml:"entries"`
	Legacy   []config.LegacyBearsPowerParams `yaml:"legacy"`
}

// Entry overrides the strategy's base defaults for one timeframe. Symbol
// falls back to the document symbol.
type Entry struct {
	Symbol           string `yaml:"symbol"`
	Timeframe        string `yaml:"timeframe"`
	config.Overrides `yaml:",inline"`
}

// Record is a fully merged and validated registry row.
type Record = registry.Entry

type Loader struct {
	log logger.Logger
}

// New returns a Loader. A nil logger discards output.
func New(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{log: log}
}

// Parse decodes every document in r. src names the input in errors.
func (l *Loader) Parse(src string, r io.Reader) ([]Record, error) {
	records, err := l.parse(src, r)
	if err != nil {
		metrics.LoadFailures.WithLabelValues("yaml").Inc()
		l.log.Error("params_load_failed", logger.String("source", src), logger.Err(err))
		return nil, err
	}
	return records, nil
}

func (l *Loader) parse(src string, r io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var records []Record
	seen := make(map[types.Key]bool)
	for n := 0; ; n++ {
		var doc Document
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(config.ErrMalformed, "%s: document %d: %v", src, n, err)
		}
		recs, err := buildDocument(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: document %d", src, n)
		}
		for _, rec := range recs {
			if seen[rec.Key] {
				return nil, errors.Wrapf(config.ErrMalformed, "%s: %s defined twice", src, rec.Key)
			}
			seen[rec.Key] = true
		}
		records = append(records, recs...)
	}
	return records, nil
}

func buildDocument(doc Document) ([]Record, error) {
	if doc.Strategy == "" {
		return nil, errors.Wrap(config.ErrMalformed, "missing strategy name")
	}
	base, ok := strategy.Defaults(doc.Strategy)
	if !ok {
		return nil, errors.Wrapf(config.ErrMalformed, "unknown strategy %q", doc.Strategy)
	}
	if len(doc.Legacy) > 0 && doc.Strategy != strategy.BearsPower {
		return nil, errors.Wrapf(config.ErrMalformed, "legacy records are only defined for %s", strategy.BearsPower)
	}

	records := make([]Record, 0, len(doc.Entries)+len(doc.Legacy))
	for i, e := range doc.Entries {
		symbol := e.Symbol
		if symbol == "" {
			symbol = doc.Symbol
		}
		if symbol == "" {
			return nil, errors.Wrapf(config.ErrMalformed, "entry %d: missing symbol", i)
		}
		tf, err := types.ParseTimeframe(e.Timeframe)
		if err != nil {
			return nil, errors.Wrapf(config.ErrMalformed, "entry %d: %v", i, err)
		}
		set := config.WithDefaults(base, e.Overrides)
		if err := set.Validate(); err != nil {
			return nil, errors.Wrapf(err, "entry %d (%s %s)", i, symbol, tf)
		}
		key := types.Key{Strategy: doc.Strategy, Symbol: symbol, Timeframe: tf}
		if err := registry.CheckKey(key); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		records = append(records, Record{Key: key, Set: set})
	}
	for i, lp := range doc.Legacy {
		key, set, err := config.Normalize(doc.Strategy, base, lp)
		if err != nil {
			return nil, errors.Wrapf(err, "legacy %d", i)
		}
		if err := registry.CheckKey(key); err != nil {
			return nil, errors.Wrapf(err, "legacy %d", i)
		}
		if err := set.Validate(); err != nil {
			return nil, errors.Wrapf(err, "legacy %d (%s)", i, key)
		}
		records = append(records, Record{Key: key, Set: set})
	}
	return records, nil
}

// ParseFile parses a single table file.
func (l *Loader) ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read table file")
	}
	return l.Parse(path, bytes.NewReader(data))
}

// ParseDir parses every *.yaml / *.yml file in dir in lexical order. A key
// defined in two files is rejected.
func (l *Loader) ParseDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read table dir")
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	var all []Record
	origin := make(map[types.Key]string)
	for _, f := range files {
		recs, err := l.ParseFile(f)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if prev, ok := origin[rec.Key]; ok {
				metrics.LoadFailures.WithLabelValues("yaml").Inc()
				return nil, errors.Wrapf(config.ErrMalformed, "%s: %s already defined in %s", f, rec.Key, prev)
			}
			origin[rec.Key] = f
		}
		all = append(all, recs...)
	}
	return all, nil
}

// Apply registers already validated records as one batch. If any key is
// already taken, nothing is registered.
func (l *Loader) Apply(records []Record, reg *registry.Registry) error {
	if err := reg.RegisterBatch(records); err != nil {
		metrics.LoadFailures.WithLabelValues("yaml").Inc()
		l.log.Error("params_load_failed", logger.Err(err))
		return err
	}
	l.log.Info("params_loaded", logger.Int("records", len(records)))
	return nil
}

// LoadFile parses path and registers its records.
func (l *Loader) LoadFile(path string, reg *registry.Registry) (int, error) {
	recs, err := l.ParseFile(path)
	if err != nil {
		return 0, err
	}
	return len(recs), l.Apply(recs, reg)
}

// LoadDir parses dir and registers its records.
func (l *Loader) LoadDir(dir string, reg *registry.Registry) (int, error) {
	recs, err := l.ParseDir(dir)
	if err != nil {
		return 0, err
	}
	return len(recs), l.Apply(recs, reg)
}

// Load parses a single stream and registers its records. src names the
// stream in errors.
func (l *Loader) Load(src string, r io.Reader, reg *registry.Registry) (int, error) {
	recs, err := l.Parse(src, r)
	if err != nil {
		return 0, err
	}
	return len(recs), l.Apply(recs, reg)
}
