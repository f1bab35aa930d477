// Package model defines the document tree produced by parsing a .docx
// package.
//
// Nodes live in a [Tree] arena and refer to each other by [NodeID]. Every
// node carries a [Kind], an ordered list of children, a flat [CSS] style map
// and optional style and class names; fields specific to a kind (bookmark
// names, break types, cell spans, paragraph properties) sit next to the
// common header.
//
// # Building
//
//	tree := model.NewTree()
//	doc := tree.New(model.KindDocument)
//	p := tree.New(model.KindParagraph)
//	tree.Append(doc, p)
//
// # Parents
//
// Parent links are not maintained while building. Call
// [Tree.AttachParents] once the tree is complete; until then every node's
// Parent is [NoNode].
//
// # Sections
//
// [SectionProperties] describe page size, margins, columns and the
// header and footer references of a section. They hang off paragraphs that
// end a section and off the document node for the final section.
package model
