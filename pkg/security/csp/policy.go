// Package csp renders Content-Security-Policy header values.
package csp

import "strings"

// Directive is a CSP directive name.
type Directive string

const (
	DefaultSrc     Directive = "default-src"
	ScriptSrc      Directive = "script-src"
	StyleSrc       Directive = "style-src"
	ImgSrc         Directive = "img-src"
	FontSrc        Directive = "font-src"
	ConnectSrc     Directive = "connect-src"
	FrameAncestors Directive = "frame-ancestors"
	FormAction     Directive = "form-action"
	BaseURI        Directive = "base-uri"
	ObjectSrc      Directive = "object-src"
)

// rendered order; directives outside this list are ignored.
var order = []Directive{
	DefaultSrc, ScriptSrc, StyleSrc, ImgSrc, FontSrc,
	ConnectSrc, FrameAncestors, FormAction, BaseURI, ObjectSrc,
}

// Policy is an immutable set of directives. The zero value is an empty policy.
//
//	p := csp.Policy{}.With(csp.DefaultSrc, "'self'").With(csp.ScriptSrc, "'self'", "https://cdn.example.com")
//	p.String() // "default-src 'self'; script-src 'self' https://cdn.example.com"
type Policy struct {
	sources    map[Directive][]string
	reportOnly bool
}

// With returns a copy of p with d set to sources, replacing earlier sources.
// No sources removes the directive.
func (p Policy) With(d Directive, sources ...string) Policy {
	next := make(map[Directive][]string, len(p.sources)+1)
	for k, v := range p.sources {
		next[k] = v
	}
	if len(sources) == 0 {
		delete(next, d)
	} else {
		next[d] = append([]string(nil), sources...)
	}
	p.sources = next
	return p
}

// ReportOnly returns a copy of p that browsers report on instead of enforcing.
func (p Policy) ReportOnly() Policy {
	p.reportOnly = true
	return p
}

func (p Policy) String() string {
	var b strings.Builder
	for _, d := range order {
		src, ok := p.sources[d]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(string(d))
		b.WriteByte(' ')
		b.WriteString(strings.Join(src, " "))
	}
	return b.String()
}

// Header returns the header name the policy is sent in.
func (p Policy) Header() string {
	if p.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// Strict suits JSON responses: nothing may load, embed or submit.
func Strict() Policy {
	return Policy{}.
		With(DefaultSrc, "'none'").
		With(FrameAncestors, "'none'").
		With(FormAction, "'none'").
		With(BaseURI, "'none'")
}

// SwaggerUI permits the inline scripts, styles and data: images Swagger UI uses.
func SwaggerUI() Policy {
	return Policy{}.
		With(DefaultSrc, "'self'").
		With(ScriptSrc, "'self'", "'unsafe-inline'").
		With(StyleSrc, "'self'", "'unsafe-inline'").
		With(ImgSrc, "'self'", "data:").
		With(FontSrc, "'self'", "data:").
		With(ConnectSrc, "'self'").
		With(FrameAncestors, "'none'").
		With(BaseURI, "'self'").
		With(ObjectSrc, "'none'")
}
