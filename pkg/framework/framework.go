// Package framework resolves which front-end framework a project uses and
// therefore which rule sets apply. Resolution reads the package manifest
// once, probes for router directories, and caches the result per root.
package framework

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var fwLog = log.New(os.Stderr, "[frontlint:framework] ", log.Ltime)

// Type is the detected framework.
type Type string

const (
	TypeReact   Type = "react"
	TypeNextJS  Type = "nextjs"
	TypeUnknown Type = "unknown"
)

// Profile is the resolved framework profile for a project root.
type Profile struct {
	Framework      Type   `json:"framework"`
	HasAppRouter   bool   `json:"hasAppRouter"`
	HasPagesRouter bool   `json:"hasPagesRouter"`
	Bundler        string `json:"bundler"`
	UsesTypeScript bool   `json:"usesTypeScript"`
}

// nextSpecialNames are basenames Next.js gives routing meaning to. Files
// named like this get the Next.js rule sets regardless of location.
var nextSpecialNames = map[string]bool{
	"layout":    true,
	"page":      true,
	"loading":   true,
	"error":     true,
	"not-found": true,
	"template":  true,
	"route":     true,
}

// manifest is the subset of package.json the resolver needs.
type manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m *manifest) has(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// Resolver computes and caches framework profiles. Construct one per process
// and pass it to the checkers; Resolve is idempotent and deterministic for a
// fixed root, so concurrent callers always converge on the same value.
type Resolver struct {
	mu    sync.RWMutex
	cache map[string]*Profile
	group singleflight.Group
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]*Profile)}
}

// Default is the process-wide resolver used by the CLI path.
var Default = NewResolver()

// Resolve returns the framework profile for root. A missing or unparsable
// manifest yields the unknown framework; Resolve never fails.
func (r *Resolver) Resolve(root string) *Profile {
	r.mu.RLock()
	p, ok := r.cache[root]
	r.mu.RUnlock()
	if ok {
		return p
	}

	// singleflight collapses concurrent first resolutions of the same root.
	v, _, _ := r.group.Do(root, func() (any, error) {
		p := resolve(root)
		r.mu.Lock()
		r.cache[root] = p
		r.mu.Unlock()
		return p, nil
	})
	return v.(*Profile)
}

// ClearCache drops all cached profiles. Intended for test isolation and for
// callers that know the project layout changed.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]*Profile)
	r.mu.Unlock()
}

// ResolveForFile returns the framework whose rule sets apply to one file.
// In a Next.js project, files under an app/ or pages/ segment and files with
// a Next.js special basename are always Next.js; everything else falls back
// to the project-level framework.
func (r *Resolver) ResolveForFile(path, root string) Type {
	p := r.Resolve(root)
	if p.Framework != TypeNextJS {
		return p.Framework
	}

	rel := path
	if root != "" {
		if rp, err := filepath.Rel(root, path); err == nil {
			rel = rp
		}
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == "app" || seg == "pages" {
			return TypeNextJS
		}
	}

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if nextSpecialNames[base] {
		return TypeNextJS
	}
	return p.Framework
}

func resolve(root string) *Profile {
	p := &Profile{Framework: TypeUnknown, Bundler: "unknown"}

	m, err := readManifest(filepath.Join(root, "package.json"))
	if err != nil {
		fwLog.Printf("WARNING: manifest unreadable in %s: %v (framework unknown)", root, err)
		p.UsesTypeScript = hasTSConfig(root)
		return p
	}

	switch {
	case m.has("next"):
		p.Framework = TypeNextJS
	case m.has("react"):
		p.Framework = TypeReact
	}

	p.Bundler = detectBundler(m, p.Framework)
	p.UsesTypeScript = m.has("typescript") || hasTSConfig(root)

	// Router layout only means something for Next.js projects.
	if p.Framework == TypeNextJS {
		p.HasAppRouter = dirExists(root, "app") || dirExists(root, "src/app")
		p.HasPagesRouter = dirExists(root, "pages") || dirExists(root, "src/pages")
	}

	return p
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func detectBundler(m *manifest, fw Type) string {
	switch {
	case m.has("vite"):
		return "vite"
	case m.has("webpack"):
		return "webpack"
	case m.has("parcel"):
		return "parcel"
	case m.has("esbuild"):
		return "esbuild"
	case fw == TypeNextJS:
		// Next.js bundles through its own toolchain.
		return "nextjs"
	default:
		return "unknown"
	}
}

func hasTSConfig(root string) bool {
	_, err := os.Stat(filepath.Join(root, "tsconfig.json"))
	return err == nil
}

func dirExists(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && info.IsDir()
}
