package docx

import (
	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/xmltree"
)

// NumberingLevel is one lvl of an abstract numbering definition.
type NumberingLevel struct {
	Level           int
	Start           int
	Restart         int
	Format          string
	Text            string
	HasText         bool
	Suffix          string
	Justification   string
	BulletPictureID string
	ParagraphStyle  string

	ParagraphProps *model.ParagraphProperties
	RunProps       *model.RunProperties
	// PStyle and RStyle are the level's pPr and rPr as CSS.
	PStyle model.CSS
	RStyle model.CSS
}

// AbstractNumbering is a w:abstractNum definition.
type AbstractNumbering struct {
	ID             string
	Name           string
	MultiLevelType string
	Levels         []*NumberingLevel
	NumStyleLink   string
	StyleLink      string
}

// LevelOverride is a w:lvlOverride of a concrete numbering.
type LevelOverride struct {
	Level int
	// Start is the startOverride value, or -1 when absent.
	Start int
	// Definition replaces the abstract level when non-nil.
	Definition *NumberingLevel
}

// Numbering is a w:num instance pointing at an abstract definition.
type Numbering struct {
	ID         string
	AbstractID string
	Overrides  []LevelOverride
}

// BulletPicture is a w:numPicBullet image used as a list bullet.
type BulletPicture struct {
	ID          string
	ReferenceID string
	Style       string
}

// NumberingDefinitions is the parsed content of a numbering part.
type NumberingDefinitions struct {
	Numberings []*Numbering
	Abstract   []*AbstractNumbering
	Bullets    []*BulletPicture
}

// ParseNumbering parses the root of a numbering part.
func (p *Parser) ParseNumbering(root *xmltree.Element) *NumberingDefinitions {
	defs := &NumberingDefinitions{}

	for _, el := range root.Elements() {
		switch el.Local() {
		case "num":
			defs.Numberings = append(defs.Numberings, p.parseNum(el))
		case "abstractNum":
			defs.Abstract = append(defs.Abstract, p.parseAbstractNumbering(el))
		case "numPicBullet":
			if b := parseBulletPicture(el); b != nil {
				defs.Bullets = append(defs.Bullets, b)
			}
		}
	}

	return defs
}

func (p *Parser) parseNum(el *xmltree.Element) *Numbering {
	n := &Numbering{ID: el.Attr("numId")}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "abstractNumId":
			n.AbstractID = c.Attr("val")
		case "lvlOverride":
			o := LevelOverride{Level: c.IntAttr("ilvl", 0), Start: -1}
			for _, oc := range c.Elements() {
				switch oc.Local() {
				case "startOverride":
					o.Start = oc.IntAttr("val", 0)
				case "lvl":
					o.Definition = p.parseNumberingLevel(oc)
				}
			}
			n.Overrides = append(n.Overrides, o)
		}
	}
	return n
}

func (p *Parser) parseAbstractNumbering(el *xmltree.Element) *AbstractNumbering {
	a := &AbstractNumbering{ID: el.Attr("abstractNumId")}
	for _, c := range el.Elements() {
		switch c.Local() {
		case "name":
			a.Name = c.Attr("val")
		case "multiLevelType":
			a.MultiLevelType = c.Attr("val")
		case "numStyleLink":
			a.NumStyleLink = c.Attr("val")
		case "styleLink":
			a.StyleLink = c.Attr("val")
		case "lvl":
			a.Levels = append(a.Levels, p.parseNumberingLevel(c))
		}
	}
	return a
}

func (p *Parser) parseNumberingLevel(el *xmltree.Element) *NumberingLevel {
	l := &NumberingLevel{
		Level:  el.IntAttr("ilvl", 0),
		Start:  1,
		Suffix: "tab",
		PStyle: model.CSS{},
		RStyle: model.CSS{},
	}

	for _, c := range el.Elements() {
		switch c.Local() {
		case "start":
			l.Start = c.IntAttr("val", 1)
		case "lvlRestart":
			l.Restart = c.IntAttr("val", 0)
		case "numFmt":
			l.Format = c.Attr("val")
		case "lvlText":
			l.Text, l.HasText = c.AttrOK("val")
		case "lvlJc":
			l.Justification = c.Attr("val")
		case "lvlPicBulletId":
			l.BulletPictureID = c.Attr("val")
		case "pStyle":
			l.ParagraphStyle = c.Attr("val")
		case "suff":
			l.Suffix = c.Attr("val")
		case "pPr":
			l.PStyle, l.ParagraphProps = p.parseParagraphStyle(c)
		case "rPr":
			l.RStyle = p.parseProperties(c, nil, nil, nil)
			l.RunProps = parseRunProperties(c)
		}
	}

	return l
}

func parseBulletPicture(el *xmltree.Element) *BulletPicture {
	shape := el.Element("pict").Element("shape")
	imagedata := shape.Element("imagedata")
	if imagedata == nil {
		return nil
	}
	return &BulletPicture{
		ID:          el.Attr("numPicBulletId"),
		ReferenceID: imagedata.Attr("id"),
		Style:       shape.Attr("style"),
	}
}
