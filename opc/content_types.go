package opc

import (
	"strings"

	"github.com/tsawler/docxhtml/xmltree"
)

const contentTypesPath = "[Content_Types].xml"

type contentTypes struct {
	defaults  map[string]string // by lower-case extension
	overrides map[string]string // by lower-case part name with leading slash
}

func parseContentTypes(root *xmltree.Element) *contentTypes {
	ct := &contentTypes{
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
	for _, el := range root.Elements("Default") {
		ct.defaults[strings.ToLower(el.Attr("Extension"))] = el.Attr("ContentType")
	}
	for _, el := range root.Elements("Override") {
		name := strings.ToLower(el.Attr("PartName"))
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}
		ct.overrides[name] = el.Attr("ContentType")
	}
	return ct
}
