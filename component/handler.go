package component

import (
	"html/template"
	"time"

	"github.com/tsawler/folio/model"
)

// Handler renders one component invocation into an HTML fragment.
type Handler interface {
	Render(inv Invocation) (template.HTML, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(inv Invocation) (template.HTML, error)

// Render calls f(inv).
func (f HandlerFunc) Render(inv Invocation) (template.HTML, error) {
	return f(inv)
}

// Env is the part of the renderer a handler may call back into.
type Env interface {
	// RenderBlocks renders nested blocks with the same settings as the
	// enclosing document.
	RenderBlocks(blocks []model.Block) (template.HTML, error)
	// ResolveAsset maps an asset reference to a URL.
	ResolveAsset(ref model.AssetRef) (string, error)
}

// Invocation is a component occurrence as seen by its handler.
type Invocation struct {
	Name     string
	Attrs    model.Attributes
	Children []model.Block
	Line     int
	Env      Env
}

// RenderChildren renders the invocation's child blocks.
func (inv Invocation) RenderChildren() (template.HTML, error) {
	if len(inv.Children) == 0 {
		return "", nil
	}
	return inv.Env.RenderBlocks(inv.Children)
}

func (inv Invocation) missing(attr string) error {
	return model.Errorf(ErrMissingAttribute, inv.Line, "<%s> needs attribute %q", inv.Name, attr)
}

// RequireString returns a string attribute or an ErrMissingAttribute
// error positioned at the invocation.
func (inv Invocation) RequireString(attr string) (string, error) {
	s, ok := inv.Attrs.String(attr)
	if !ok || s == "" {
		return "", inv.missing(attr)
	}
	return s, nil
}

// String returns a string attribute, or "" if it is absent.
func (inv Invocation) String(attr string) string {
	s, _ := inv.Attrs.String(attr)
	return s
}

// Asset resolves an asset attribute to a URL. A plain string attribute is
// taken as a URL as is. Absent attributes yield "".
func (inv Invocation) Asset(attr string) (string, error) {
	if ref, ok := inv.Attrs.Asset(attr); ok {
		return inv.Env.ResolveAsset(ref)
	}
	return inv.String(attr), nil
}

// Date returns a date attribute. ok is false if the attribute is absent or
// not a date.
func (inv Invocation) Date(attr string) (time.Time, bool) {
	return inv.Attrs.Date(attr)
}
