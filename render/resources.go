package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/docxhtml/docx"
)

const (
	obfuscatedFontType = "application/vnd.openxmlformats-officedocument.obfuscatedFont"
	fontType           = "font/ttf"
	defaultType        = "application/octet-stream"
)

// loadJob loads one resource and patches it into the rendered tree.
type loadJob func(res *Result) error

// startResources runs every queued load in its own goroutine.
func (r *Renderer) startResources(st *renderState, res *Result) {
	for _, job := range st.jobs {
		res.g.Go(func() error {
			return job(res)
		})
	}
}

// imageLoader sets attr of node to the URL of image id of part.
func (r *Renderer) imageLoader(part *docx.Part, id string, node *html.Node, attr string) loadJob {
	return func(res *Result) error {
		data, path, err := r.word.LoadResource(part, id)
		if err != nil {
			r.missing(part, id, err)
			return fmt.Errorf("loading image %s: %w", path, err)
		}
		if data == nil {
			r.missing(part, id, nil)
			return nil
		}

		url := r.resourceURL(path, data, "")
		res.patch(func() {
			setAttr(node, attr, url)
		})
		return nil
	}
}

// bulletLoader binds a numbering picture to its custom property on the
// root selector.
func (r *Renderer) bulletLoader(st *renderState, b bulletJob) loadJob {
	target := st.styleTarget
	return func(res *Result) error {
		data, path, err := r.word.LoadNumberingImage(b.refID)
		if err != nil {
			r.missing(r.numberingPart(), b.refID, err)
			return fmt.Errorf("loading bullet %s: %w", path, err)
		}
		if data == nil {
			r.missing(r.numberingPart(), b.refID, nil)
			return nil
		}

		css := fmt.Sprintf("%s { %s: url(%s) }\n", r.rootSelector(), b.variable, r.resourceURL(path, data, ""))
		res.patch(func() {
			s := element("style")
			s.AppendChild(text(css))
			target.AppendChild(s)
		})
		return nil
	}
}

func (r *Renderer) numberingPart() *docx.Part {
	if r.word.NumberingPart == nil {
		return nil
	}
	return r.word.NumberingPart.Part
}

// fontLoader adds the @font-face rule of an embedded font.
func (r *Renderer) fontLoader(st *renderState, family string, ref docx.EmbeddedFontRef) loadJob {
	target := st.styleTarget
	return func(res *Result) error {
		data, path, err := r.word.LoadFont(ref.ID, ref.Key)
		var part *docx.Part
		if r.word.FontTablePart != nil {
			part = r.word.FontTablePart.Part
		}
		if err != nil {
			r.missing(part, ref.ID, err)
			return fmt.Errorf("loading font %s: %w", family, err)
		}
		if data == nil {
			r.missing(part, ref.ID, nil)
			return nil
		}

		mimeType := ""
		if ref.Key != "" {
			mimeType = fontType
		}
		css := fontFaceCSS(family, r.resourceURL(path, data, mimeType), ref.Type)
		res.patch(func() {
			target.AppendChild(comment("docxhtml " + family + " font"))
			s := element("style")
			s.AppendChild(text(css))
			target.AppendChild(s)
		})
		return nil
	}
}

// missing records a resource that could not be loaded.
func (r *Renderer) missing(part *docx.Part, id string, err error) {
	partPath := ""
	if part != nil {
		partPath = part.Path
	}
	msg := fmt.Sprintf("can't load resource %s", id)
	if err != nil {
		msg += ": " + err.Error()
	}
	r.word.Warn(docx.WarnMissingResource, partPath, msg)
	r.log.Debug("resource not loaded", zap.String("part", partPath), zap.String("id", id), zap.Error(err))
}

// resourceURL returns the URL written for a resource: a data URL with
// UseBase64URL, else whatever ResourceURL returns, else the package path.
func (r *Renderer) resourceURL(path string, data []byte, mimeType string) string {
	if r.opts.UseBase64URL {
		if mimeType == "" {
			mimeType = r.mimeType(path, data)
		}
		return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}
	if r.opts.ResourceURL != nil {
		return r.opts.ResourceURL(path, data)
	}
	return path
}

// mimeType determines the media type of a resource from the package
// content types, then from the image header.
func (r *Renderer) mimeType(path string, data []byte) string {
	if ct := r.word.Package.ContentType(path); ct != "" && ct != obfuscatedFontType {
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		return ct
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return "image/" + format
	}
	return defaultType
}
