package component

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
)

// DisplayDateLayout is used for dates shown to readers.
const DisplayDateLayout = "January 2, 2006"

var builtinTemplates = template.Must(template.New("builtin").Parse(`
{{- define "date" -}}
{{if .Date.ISO}}<time datetime="{{.Date.ISO}}">{{.Date.Text}}</time>{{else if .Date.Text}}<span class="date">{{.Date.Text}}</span>{{end}}
{{- end -}}

{{- define "Attribution" -}}
<figure class="attribution">
<blockquote>
{{.Body}}</blockquote>
<figcaption>
{{- if .Avatar}}<img class="avatar" src="{{.Avatar}}" alt="{{.Author}}" loading="lazy"> {{end -}}
<cite>{{if .URL}}<a href="{{.URL}}">{{.Author}}</a>{{else}}{{.Author}}{{end}}</cite>
{{- if or .Date.ISO .Date.Text}} {{template "date" .}}{{end -}}
</figcaption>
</figure>
{{end -}}

{{- define "TweetEmbed" -}}
<figure class="tweet" data-tweet-id="{{.ID}}">
<blockquote>
{{.Body}}</blockquote>
<figcaption>
{{- if .Author}}<span class="author">{{.Author}}</span> {{end -}}
{{if .Handle}}<span class="handle">@{{.Handle}}</span> {{end -}}
<a href="{{.URL}}">{{if or .Date.ISO .Date.Text}}{{template "date" .}}{{else}}View on Twitter{{end}}</a>
</figcaption>
</figure>
{{end -}}

{{- define "Translations" -}}
<aside class="translations">
<p class="translations-title">{{.Title}}</p>
{{.Body}}</aside>
{{end -}}

{{- define "Callout" -}}
<aside class="callout callout-{{.Kind}}" role="note">
{{.Body}}</aside>
{{end -}}
`))

type dateView struct {
	ISO  string
	Text string
}

// dateOf reads a date attribute, which may be given as {2023-04-16} or as a
// quoted free-form string.
func dateOf(inv Invocation, attr string) dateView {
	if d, ok := inv.Date(attr); ok {
		return dateView{ISO: d.Format("2006-01-02"), Text: d.Format(DisplayDateLayout)}
	}
	return dateView{Text: inv.String(attr)}
}

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := builtinTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// quoteOf returns the rendered quote of an invocation: a block-valued
// "quote" attribute if present, the children otherwise.
func quoteOf(inv Invocation) (template.HTML, error) {
	if blocks, ok := inv.Attrs.Blocks("quote"); ok {
		return inv.Env.RenderBlocks(blocks)
	}
	return inv.RenderChildren()
}

func renderAttribution(inv Invocation) (template.HTML, error) {
	author, err := inv.RequireString("author")
	if err != nil {
		return "", err
	}
	avatar, err := inv.Asset("avatar")
	if err != nil {
		return "", err
	}
	body, err := quoteOf(inv)
	if err != nil {
		return "", err
	}
	tracer().Debugf("attribution by %s at line %d", author, inv.Line)
	return execute("Attribution", struct {
		Author, Avatar, URL string
		Date                dateView
		Body                template.HTML
	}{
		Author: author,
		Avatar: avatar,
		URL:    inv.String("url"),
		Date:   dateOf(inv, "date"),
		Body:   body,
	})
}

func renderTweetEmbed(inv Invocation) (template.HTML, error) {
	id, err := inv.RequireString("tweetId")
	if err != nil {
		return "", err
	}
	handle := strings.TrimPrefix(inv.String("handle"), "@")
	status := "https://twitter.com/i/web/status/" + id
	if handle != "" {
		status = "https://twitter.com/" + url.PathEscape(handle) + "/status/" + id
	}
	body, err := quoteOf(inv)
	if err != nil {
		return "", err
	}
	return execute("TweetEmbed", struct {
		ID, Author, Handle, URL string
		Date                    dateView
		Body                    template.HTML
	}{
		ID:     id,
		Author: inv.String("author"),
		Handle: handle,
		URL:    status,
		Date:   dateOf(inv, "date"),
		Body:   body,
	})
}

func renderTranslations(inv Invocation) (template.HTML, error) {
	body, err := inv.RenderChildren()
	if err != nil {
		return "", err
	}
	title := inv.String("title")
	if title == "" {
		title = "Translations"
	}
	return execute("Translations", struct {
		Title string
		Body  template.HTML
	}{title, body})
}

var calloutKinds = map[string]bool{"info": true, "tip": true, "warning": true, "danger": true}

func renderCallout(inv Invocation) (template.HTML, error) {
	kind := strings.ToLower(inv.String("type"))
	if kind == "" {
		kind = "info"
	}
	if !calloutKinds[kind] {
		tracer().Infof("callout at line %d has unknown type %q, using info", inv.Line, kind)
		kind = "info"
	}
	body, err := inv.RenderChildren()
	if err != nil {
		return "", err
	}
	return execute("Callout", struct {
		Kind string
		Body template.HTML
	}{kind, body})
}
