// Package site holds the declarative model of a Starlight documentation site:
// metadata, assets, social links, stylesheets and the sidebar navigation tree.
//
// Values are plain data. Both the YAML and JSON codecs are symmetric, so a
// Config survives serialize/parse unchanged.
package site

// Config is the root site definition.
type Config struct {
	URL             string           `yaml:"url" json:"url"`
	Title           string           `yaml:"title" json:"title"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Logo            *Logo            `yaml:"logo,omitempty" json:"logo,omitempty"`
	Favicon         string           `yaml:"favicon,omitempty" json:"favicon,omitempty"`
	Social          []SocialLink     `yaml:"social,omitempty" json:"social,omitempty"`
	CustomCSS       []string         `yaml:"customCss,omitempty" json:"customCss,omitempty"`
	Sidebar         []NavNode        `yaml:"sidebar,omitempty" json:"sidebar,omitempty"`
	Head            []HeadEntry      `yaml:"head,omitempty" json:"head,omitempty"`
	EditLink        *EditLink        `yaml:"editLink,omitempty" json:"editLink,omitempty"`
	LastUpdated     bool             `yaml:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
	Pagination      *bool            `yaml:"pagination,omitempty" json:"pagination,omitempty"`
	TableOfContents *TableOfContents `yaml:"tableOfContents,omitempty" json:"tableOfContents,omitempty"`
	Vite            *Vite            `yaml:"vite,omitempty" json:"vite,omitempty"`
	Integrations    []Integration    `yaml:"integrations,omitempty" json:"integrations,omitempty"`
}

// Logo references the header image. Either Src or the Light/Dark pair is set.
type Logo struct {
	Src           string `yaml:"src,omitempty" json:"src,omitempty"`
	Light         string `yaml:"light,omitempty" json:"light,omitempty"`
	Dark          string `yaml:"dark,omitempty" json:"dark,omitempty"`
	Alt           string `yaml:"alt,omitempty" json:"alt,omitempty"`
	ReplacesTitle bool   `yaml:"replacesTitle,omitempty" json:"replacesTitle,omitempty"`
}

// SocialLink is one icon link in the site header.
type SocialLink struct {
	Icon  string `yaml:"icon" json:"icon"`
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// HeadEntry is an extra tag injected into every page's <head>.
type HeadEntry struct {
	Tag     string            `yaml:"tag" json:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty" json:"content,omitempty"`
}

// EditLink enables "Edit page" links rooted at BaseURL.
type EditLink struct {
	BaseURL string `yaml:"baseUrl" json:"baseUrl"`
}

// TableOfContents bounds the heading levels listed on the right rail.
type TableOfContents struct {
	MinHeadingLevel int `yaml:"minHeadingLevel,omitempty" json:"minHeadingLevel,omitempty"`
	MaxHeadingLevel int `yaml:"maxHeadingLevel,omitempty" json:"maxHeadingLevel,omitempty"`
}

// Vite carries the dev-server options the site needs, currently only
// filesystem allowances for content living outside the project root.
type Vite struct {
	Server ViteServer `yaml:"server" json:"server"`
}

type ViteServer struct {
	FS ViteFS `yaml:"fs" json:"fs"`
}

type ViteFS struct {
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
}

// Integration activates an additional Astro integration next to Starlight.
// Import is the local identifier, Package the module specifier.
type Integration struct {
	Name    string         `yaml:"name" json:"name"`
	Import  string         `yaml:"import" json:"import"`
	Package string         `yaml:"package" json:"package"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// FSAllow returns the vite.server.fs.allow list, or nil.
func (c *Config) FSAllow() []string {
	if c == nil || c.Vite == nil {
		return nil
	}
	return c.Vite.Server.FS.Allow
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	if c.Logo != nil {
		l := *c.Logo
		out.Logo = &l
	}
	out.Social = cloneSlice(c.Social)
	out.CustomCSS = cloneSlice(c.CustomCSS)
	out.Sidebar = CloneNodes(c.Sidebar)
	if c.Head != nil {
		out.Head = make([]HeadEntry, len(c.Head))
		for i, h := range c.Head {
			h.Attrs = cloneMap(h.Attrs)
			out.Head[i] = h
		}
	}
	if c.EditLink != nil {
		e := *c.EditLink
		out.EditLink = &e
	}
	if c.Pagination != nil {
		p := *c.Pagination
		out.Pagination = &p
	}
	if c.TableOfContents != nil {
		t := *c.TableOfContents
		out.TableOfContents = &t
	}
	if c.Vite != nil {
		v := *c.Vite
		v.Server.FS.Allow = cloneSlice(c.Vite.Server.FS.Allow)
		out.Vite = &v
	}
	if c.Integrations != nil {
		out.Integrations = make([]Integration, len(c.Integrations))
		for i, in := range c.Integrations {
			in.Options = cloneAny(in.Options).(map[string]any)
			out.Integrations[i] = in
		}
	}
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// cloneAny deep-copies the generic trees produced by the YAML and JSON decoders.
func cloneAny(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		if vv == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = cloneAny(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, val := range vv {
			out[i] = cloneAny(val)
		}
		return out
	default:
		return v
	}
}
