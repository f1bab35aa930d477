// Package docx loads WordprocessingML packages into a graph of parsed parts
// and resolves their styles and numbering.
package docx

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docxhtml/opc"
)

// ErrNoDocument is returned when a package has no main document part.
var ErrNoDocument = errors.New("package has no main document")

// Word is a loaded word-processing package.
type Word struct {
	Package *opc.Package
	Options Options

	// Rels are the package-level relationships.
	Rels opc.Relationships
	// Parts lists every loaded part in load order.
	Parts       []*Part
	PartsByPath map[string]*Part

	DocumentPart      *DocumentPart
	StylesPart        *StylesPart
	NumberingPart     *NumberingPart
	SettingsPart      *SettingsPart
	ThemePart         *ThemePart
	FontTablePart     *FontTablePart
	FootnotesPart     *NotesPart
	EndnotesPart      *NotesPart
	CorePropsPart     *CorePropsPart
	ExtendedPropsPart *ExtendedPropsPart
	CustomPropsPart   *CustomPropsPart

	// Styles and Numbering are resolved once all parts are loaded.
	Styles    *StyleResolver
	Numbering *NumberingResolver

	warn *warningLog
}

// partRef is a relationship waiting to be loaded.
type partRef struct {
	path    string
	relType string
}

// loader holds the state shared by the goroutines of one Load call.
type loader struct {
	pkg    *opc.Package
	opts   *Options
	parser *Parser
	log    *zap.Logger

	mu    sync.Mutex
	cache map[string]*Part
}

// Load reads the package relationships and loads every reachable part.
// Parts are loaded tier by tier: the top-level parts first, then the parts
// they refer to, and so on. Parts of a tier load concurrently.
func Load(pkg *opc.Package, opts Options) (*Word, error) {
	warn := newWarningLog(&opts)
	w := &Word{
		Package:     pkg,
		Options:     opts,
		PartsByPath: make(map[string]*Part),
		warn:        warn,
	}

	rels, err := pkg.LoadRelationships("")
	if err != nil {
		return nil, fmt.Errorf("loading package relationships: %w", err)
	}
	w.Rels = rels

	l := &loader{
		pkg:    pkg,
		opts:   &w.Options,
		parser: &Parser{opts: &w.Options, warn: warn},
		log:    w.Options.logger(),
		cache:  make(map[string]*Part),
	}

	var tier []partRef
	for _, t := range topLevelRels {
		path := t.Target
		if rel, ok := rels.ByType(t.Type); ok && !rel.IsExternal() {
			path = opc.ResolvePath(rel.Target, "")
		}
		tier = append(tier, partRef{path: path, relType: t.Type})
	}

	for len(tier) > 0 {
		loaded, err := l.loadTier(tier)
		if err != nil {
			return nil, err
		}

		tier = nil
		for _, part := range loaded {
			w.add(part)
			for _, rel := range part.Rels {
				if rel.IsExternal() {
					continue
				}
				tier = append(tier, partRef{
					path:    opc.ResolvePath(rel.Target, part.Folder()),
					relType: rel.Type,
				})
			}
		}
	}

	if w.DocumentPart == nil {
		return nil, ErrNoDocument
	}

	var styles []*Style
	if w.StylesPart != nil {
		styles = w.StylesPart.Styles
	}
	w.Styles = newStyleResolver(styles, &w.Options, warn)

	var defs *NumberingDefinitions
	if w.NumberingPart != nil {
		defs = w.NumberingPart.Definitions
	}
	w.Numbering = newNumberingResolver(defs, w.Styles, &w.Options, warn)

	return w, nil
}

// loadTier loads the parts of one tier concurrently and returns those that
// were loaded, in tier order.
func (l *loader) loadTier(refs []partRef) ([]*Part, error) {
	results := make([]*Part, len(refs))

	var g errgroup.Group
	for i, ref := range refs {
		kind, known := partKinds[ref.relType]
		if !known && !l.opts.LoadUnknownParts {
			continue
		}
		if !l.claim(ref.path) {
			continue
		}

		g.Go(func() error {
			part, err := l.loadPart(ref.path, kind)
			if err != nil {
				return err
			}
			results[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	loaded := results[:0]
	for _, p := range results {
		if p != nil {
			loaded = append(loaded, p)
		}
	}
	return loaded, nil
}

// claim reserves path for the caller. It returns false when the path was
// already claimed by this load.
func (l *loader) claim(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[path]; ok {
		return false
	}
	l.cache[path] = nil
	return true
}

// loadPart reads the relationships and content of one part, then parses
// it. An absent file yields a nil part.
func (l *loader) loadPart(path string, kind PartKind) (*Part, error) {
	var (
		rels  opc.Relationships
		data  []byte
		found bool
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		rels, err = l.pkg.LoadRelationships(path)
		return err
	})
	g.Go(func() error {
		var err error
		data, found, err = l.pkg.Load(path)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !found {
		l.log.Debug("part not found", zap.String("part", path))
		return nil, nil
	}

	part := &Part{Path: path, Kind: kind, Rels: rels, pkg: l.pkg}
	if err := part.parse(data, l.parser, l.opts.KeepOrigin); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	l.mu.Lock()
	l.cache[path] = part
	l.mu.Unlock()

	l.log.Debug("loaded part", zap.String("part", path), zap.Stringer("kind", kind))
	return part, nil
}

// add records a loaded part and sets its typed accessor. A second part of
// a singleton kind does not replace the first.
func (w *Word) add(part *Part) {
	w.Parts = append(w.Parts, part)
	w.PartsByPath[part.Path] = part

	switch v := part.Payload.(type) {
	case *DocumentPart:
		if w.DocumentPart == nil {
			w.DocumentPart = v
		}
	case *StylesPart:
		if w.StylesPart == nil {
			w.StylesPart = v
		}
	case *NumberingPart:
		if w.NumberingPart == nil {
			w.NumberingPart = v
		}
	case *SettingsPart:
		if w.SettingsPart == nil {
			w.SettingsPart = v
		}
	case *ThemePart:
		if w.ThemePart == nil {
			w.ThemePart = v
		}
	case *FontTablePart:
		if w.FontTablePart == nil {
			w.FontTablePart = v
		}
	case *NotesPart:
		if part.Kind == PartFootnotes && w.FootnotesPart == nil {
			w.FootnotesPart = v
		}
		if part.Kind == PartEndnotes && w.EndnotesPart == nil {
			w.EndnotesPart = v
		}
	case *CorePropsPart:
		if w.CorePropsPart == nil {
			w.CorePropsPart = v
		}
	case *ExtendedPropsPart:
		if w.ExtendedPropsPart == nil {
			w.ExtendedPropsPart = v
		}
	case *CustomPropsPart:
		if w.CustomPropsPart == nil {
			w.CustomPropsPart = v
		}
	}
}

// Warnings returns the problems tolerated while loading and resolving.
func (w *Word) Warnings() []Warning {
	return w.warn.snapshot()
}

// Warn records a problem found after loading, such as a resource that
// could not be rendered.
func (w *Word) Warn(kind WarningKind, part, msg string) {
	w.warn.add(kind, part, msg)
}

// FindPartByRelID returns the part that relationship id of base points
// to. A nil base looks the id up in the package relationships.
func (w *Word) FindPartByRelID(id string, base *Part) *Part {
	rels, folder := w.Rels, ""
	if base != nil {
		rels, folder = base.Rels, base.Folder()
	}
	rel, ok := rels.ByID(id)
	if !ok || rel.IsExternal() {
		return nil
	}
	return w.PartsByPath[opc.ResolvePath(rel.Target, folder)]
}

// PathByID resolves relationship id of part to a package path. It returns
// "" when part has no such relationship.
func (w *Word) PathByID(part *Part, id string) string {
	if part == nil {
		return ""
	}
	rel, ok := part.Rels.ByID(id)
	if !ok {
		return ""
	}
	if rel.IsExternal() {
		return rel.Target
	}
	return opc.ResolvePath(rel.Target, part.Folder())
}

// Relationship returns relationship id of part.
func (w *Word) Relationship(part *Part, id string) (opc.Relationship, bool) {
	if part == nil {
		return opc.Relationship{}, false
	}
	return part.Rels.ByID(id)
}

// LoadResource loads the binary target of relationship id of part. A
// missing relationship or file yields nil data and no error.
func (w *Word) LoadResource(part *Part, id string) ([]byte, string, error) {
	rel, ok := w.Relationship(part, id)
	if !ok || rel.IsExternal() {
		return nil, "", nil
	}
	path := opc.ResolvePath(rel.Target, part.Folder())
	data, found, err := w.Package.Load(path)
	if err != nil {
		return nil, path, err
	}
	if !found {
		return nil, path, nil
	}
	return data, path, nil
}

// LoadNumberingImage loads a bullet picture referenced from the numbering
// part.
func (w *Word) LoadNumberingImage(id string) ([]byte, string, error) {
	if w.NumberingPart == nil {
		return nil, "", nil
	}
	return w.LoadResource(w.NumberingPart.Part, id)
}

// LoadFont loads an embedded font of the font table. A non-empty key
// means the font is obfuscated with that GUID.
func (w *Word) LoadFont(id, key string) ([]byte, string, error) {
	if w.FontTablePart == nil {
		return nil, "", nil
	}
	data, path, err := w.LoadResource(w.FontTablePart.Part, id)
	if err != nil || data == nil || key == "" {
		return data, path, err
	}
	plain, err := Deobfuscate(data, key)
	if err != nil {
		return nil, path, fmt.Errorf("font %s: %w", path, err)
	}
	return plain, path, nil
}

// Save writes the package to wr. Parts whose kept XML was changed must be
// written back with Part.Save first; everything else is copied unchanged.
func (w *Word) Save(wr io.Writer) error {
	return w.Package.Save(wr)
}
