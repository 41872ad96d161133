package rules

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Shipped default rule sets, one JSON file per framework and category.
//
//go:embed defs
var defsFS embed.FS

// ErrRuleNotFound is returned when an enable/disable targets an unknown rule.
var ErrRuleNotFound = errors.New("rule not found")

// Framework directory names under defs/. Rule-set selection is by name, not
// by the framework package's resolver, so the loader stays free of project
// probing concerns.
const (
	FrameworkReact  = "react"
	FrameworkNextJS = "nextjs"
)

// NormalizeFramework maps a detected framework name to a rule-set directory.
// Anything unrecognised (including "unknown") selects the Next.js sets: they
// are a superset of the React sets, so the ambiguous case errs toward
// reporting more rather than less.
func NormalizeFramework(fw string) string {
	if fw == FrameworkReact {
		return FrameworkReact
	}
	return FrameworkNextJS
}

// ruleDoc is the on-disk shape of a rule file. Override files reuse it and
// may additionally carry disable/enable lists referencing default rules.
type ruleDoc struct {
	Rules   []ruleEntry `json:"rules"`
	Disable []string    `json:"disable,omitempty"`
	Enable  []string    `json:"enable,omitempty"`
}

// ruleEntry mirrors Rule with a nullable Enabled so that an omitted field
// defaults to enabled rather than disabled.
type ruleEntry struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Recommendation string        `json:"recommendation"`
	Severity       Severity      `json:"severity"`
	Category       Category      `json:"category"`
	Scope          Scope         `json:"scope,omitempty"`
	Enabled        *bool         `json:"enabled,omitempty"`
	Detection      DetectionSpec `json:"detection"`
}

func (e ruleEntry) rule() *Rule {
	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}
	scope := e.Scope
	if scope == "" {
		scope = ScopeCode
	}
	return &Rule{
		ID:             e.ID,
		Title:          e.Title,
		Recommendation: e.Recommendation,
		Severity:       e.Severity,
		Category:       e.Category,
		Scope:          scope,
		Enabled:        enabled,
		Detection:      e.Detection,
	}
}

// Loader loads rule sets and caches them per framework and category.
// Mutation happens only through SetRuleEnabled, which rewrites the in-memory
// rule and persists the change to the override file.
type Loader struct {
	overrideDir string

	mu    sync.Mutex
	cache map[string]*Set
}

// NewLoader creates a loader. overrideDir is the project-local directory
// holding override files (may be empty: no overrides, no persistence).
func NewLoader(overrideDir string) *Loader {
	return &Loader{
		overrideDir: overrideDir,
		cache:       make(map[string]*Set),
	}
}

// Load returns the rule set for the given framework and category. Missing or
// malformed rule files degrade to an empty set; individual malformed rules
// are dropped with a warning. The result is cached until Invalidate.
func (l *Loader) Load(fw string, cat Category) *Set {
	fw = NormalizeFramework(fw)
	key := fw + "/" + string(cat)

	l.mu.Lock()
	defer l.mu.Unlock()
	if set, ok := l.cache[key]; ok {
		return set
	}

	set := NewSet()
	l.loadDefaults(set, fw, cat)
	l.applyOverrides(set, fw, cat)
	l.cache[key] = set
	return set
}

// LoadAll returns the rule sets for every category of a framework, keyed by
// category, in the stable Categories order.
func (l *Loader) LoadAll(fw string) map[Category]*Set {
	out := make(map[Category]*Set, len(Categories))
	for _, cat := range Categories {
		out[cat] = l.Load(fw, cat)
	}
	return out
}

// Invalidate drops all cached rule sets so the next Load re-reads overrides.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cache = make(map[string]*Set)
	l.mu.Unlock()
}

func (l *Loader) loadDefaults(set *Set, fw string, cat Category) {
	name := path.Join("defs", fw, string(cat)+".json")
	data, err := defsFS.ReadFile(name)
	if err != nil {
		rulesLog.Printf("WARNING: no default rule set %s: %v", name, err)
		return
	}

	var doc ruleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		rulesLog.Printf("WARNING: malformed rule set %s: %v", name, err)
		return
	}
	addEntries(set, doc.Rules, name)
}

// applyOverrides merges <overrideDir>/<framework>/<category>.json into set.
// Override rules win on ID conflict; disable/enable lists flip defaults.
func (l *Loader) applyOverrides(set *Set, fw string, cat Category) {
	if l.overrideDir == "" {
		return
	}
	p := l.overridePath(fw, cat)
	if _, err := os.Stat(p); err != nil {
		return
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(p), kjson.Parser()); err != nil {
		rulesLog.Printf("WARNING: unreadable override file %s: %v", p, err)
		return
	}
	var doc ruleDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		rulesLog.Printf("WARNING: malformed override file %s: %v", p, err)
		return
	}

	addEntries(set, doc.Rules, p)
	for _, id := range doc.Disable {
		if r, ok := set.ByID(id); ok {
			r.Enabled = false
		} else {
			rulesLog.Printf("WARNING: override %s disables unknown rule %q", p, id)
		}
	}
	for _, id := range doc.Enable {
		if r, ok := set.ByID(id); ok {
			r.Enabled = true
		} else {
			rulesLog.Printf("WARNING: override %s enables unknown rule %q", p, id)
		}
	}
}

func (l *Loader) overridePath(fw string, cat Category) string {
	return filepath.Join(l.overrideDir, fw, string(cat)+".json")
}

func addEntries(set *Set, entries []ruleEntry, source string) {
	for _, e := range entries {
		r := e.rule()
		if err := r.Validate(); err != nil {
			rulesLog.Printf("WARNING: dropping rule from %s: %v", source, err)
			continue
		}
		set.Add(r)
	}
}

// SetRuleEnabled flips a rule's enabled state in memory and persists the
// change to the override file for its framework and category. An unknown
// rule ID is an explicit failure, not a silent no-op.
func (l *Loader) SetRuleEnabled(fw string, cat Category, id string, enabled bool) error {
	fw = NormalizeFramework(fw)
	set := l.Load(fw, cat)
	r, ok := set.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %s (%s/%s)", ErrRuleNotFound, id, fw, cat)
	}
	r.Enabled = enabled

	if l.overrideDir == "" {
		rulesLog.Printf("WARNING: no override directory configured, %s state not persisted", id)
		return nil
	}
	if err := l.persistEnabled(fw, cat, id, enabled); err != nil {
		return fmt.Errorf("persisting %s: %w", id, err)
	}
	return nil
}
