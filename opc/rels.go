package opc

import (
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/docxhtml/xmltree"
)

// TargetModeExternal marks relationships whose target lies outside the
// package, such as hyperlink URLs.
const TargetModeExternal = "External"

// Relationship is a typed, identified link from a part (or from the package
// root) to another part or to an external resource.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// IsExternal reports whether the target is not a package path.
func (r Relationship) IsExternal() bool {
	return r.TargetMode == TargetModeExternal
}

// Relationships is the ordered relationship list of one part.
type Relationships []Relationship

// ByID returns the relationship with the given id.
func (rs Relationships) ByID(id string) (Relationship, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// ByType returns the first relationship of the given type.
func (rs Relationships) ByType(typ string) (Relationship, bool) {
	for _, r := range rs {
		if r.Type == typ {
			return r, true
		}
	}
	return Relationship{}, false
}

// NormalizePath strips a single leading slash so absolute part names and
// zip entry names compare equal.
func NormalizePath(path string) string {
	return strings.TrimPrefix(path, "/")
}

// SplitPath separates a part path into its folder, including the trailing
// slash, and its file name.
func SplitPath(path string) (folder, name string) {
	i := strings.LastIndex(path, "/") + 1
	if i == 0 {
		return "", path
	}
	return path[:i], path[i:]
}

// RelsPath returns the location of the relationships file for partPath.
// An empty partPath addresses the package root.
func RelsPath(partPath string) string {
	if partPath == "" {
		return "_rels/.rels"
	}
	folder, name := SplitPath(partPath)
	return folder + "_rels/" + name + ".rels"
}

// ResolvePath resolves a relationship target against the folder of the
// referring part, applying . and .. segments and absolute targets. The
// target is treated as a plain path: '#', '?' and percent escapes stay part
// of the name, matching how they appear in zip entry names.
func ResolvePath(target, folder string) string {
	if strings.HasPrefix(target, "/") {
		return NormalizePath(path.Clean(target))
	}
	return NormalizePath(path.Clean("/" + folder + target))
}

// ParseRelationships decodes a relationships document.
func ParseRelationships(root *xmltree.Element) Relationships {
	var rels Relationships
	for _, el := range root.Elements("Relationship") {
		rels = append(rels, Relationship{
			ID:         el.Attr("Id"),
			Type:       el.Attr("Type"),
			Target:     el.Attr("Target"),
			TargetMode: el.Attr("TargetMode"),
		})
	}
	return rels
}

// LoadRelationships reads the relationships of partPath, or of the package
// when partPath is empty. A missing relationships file yields nil without an
// error.
func (p *Package) LoadRelationships(partPath string) (Relationships, error) {
	if p.text != nil {
		return nil, nil
	}

	path := RelsPath(partPath)
	data, ok, err := p.Load(path)
	if err != nil || !ok {
		return nil, err
	}

	root, err := p.ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ParseRelationships(root), nil
}
