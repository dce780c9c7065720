package site

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// SiteURLRule requires an absolute http(s) site URL.
type SiteURLRule struct{}

func (SiteURLRule) Name() string { return "site_url" }

func (SiteURLRule) Check(cfg *Config, r *Reporter) {
	if strings.TrimSpace(cfg.URL) == "" {
		r.Errorf("url", "site URL is required")
		return
	}
	if err := checkAbsoluteURL(cfg.URL); err != nil {
		r.Errorf("url", "%v", err)
	}
}

// TitleRule requires a non-blank title.
type TitleRule struct{}

func (TitleRule) Name() string { return "title" }

func (TitleRule) Check(cfg *Config, r *Reporter) {
	if strings.TrimSpace(cfg.Title) == "" {
		r.Errorf("title", "title is required")
	}
}

// LogoRule checks the logo reference shape.
type LogoRule struct{}

func (LogoRule) Name() string { return "logo" }

func (LogoRule) Check(cfg *Config, r *Reporter) {
	l := cfg.Logo
	if l == nil {
		return
	}
	hasPair := l.Light != "" || l.Dark != ""
	switch {
	case l.Src == "" && !hasPair:
		r.Errorf("logo", "logo needs src or a light/dark pair")
	case l.Src != "" && hasPair:
		r.Errorf("logo", "logo src cannot be combined with light/dark variants")
	case hasPair && (l.Light == "" || l.Dark == ""):
		r.Errorf("logo", "logo light and dark variants must be set together")
	}
	if l.ReplacesTitle && l.Alt == "" && cfg.Title == "" {
		r.Warnf("logo", "logo replaces the title but neither alt text nor title is set")
	}
}

// knownSocialIcons lists the icon names the theme ships for social links.
var knownSocialIcons = map[string]struct{}{
	"github": {}, "gitlab": {}, "bitbucket": {}, "codeberg": {}, "gitea": {}, "codePen": {},
	"discord": {}, "slack": {}, "matrix": {}, "telegram": {}, "signal": {}, "zulip": {},
	"x.com": {}, "twitter": {}, "mastodon": {}, "blueSky": {}, "threads": {}, "linkedin": {},
	"facebook": {}, "instagram": {}, "youtube": {}, "twitch": {}, "reddit": {}, "discourse": {},
	"stackOverflow": {}, "npm": {}, "patreon": {}, "openCollective": {}, "rss": {}, "email": {},
}

// SocialRule checks each social link.
type SocialRule struct{}

func (SocialRule) Name() string { return "social" }

func (SocialRule) Check(cfg *Config, r *Reporter) {
	seen := map[string]int{}
	for i, s := range cfg.Social {
		p := fmt.Sprintf("social[%d]", i)
		if s.Icon == "" {
			r.Errorf(p, "icon is required")
		} else if _, ok := knownSocialIcons[s.Icon]; !ok {
			r.Warnf(p, "unknown social icon %q", s.Icon)
		}
		if strings.TrimSpace(s.Label) == "" {
			r.Errorf(p, "label is required")
		}
		if s.Href == "" {
			r.Errorf(p, "href is required")
			continue
		}
		if s.Icon == "email" && strings.HasPrefix(s.Href, "mailto:") {
			continue
		}
		if err := checkAbsoluteURL(s.Href); err != nil {
			r.Errorf(p, "href: %v", err)
			continue
		}
		if s.Icon == "github" && !strings.HasPrefix(s.Href, "https://github.com/") {
			r.Warnf(p, "github link %q does not point at https://github.com/", s.Href)
		}
		key := s.Icon + "|" + s.Href
		if first, dup := seen[key]; dup {
			r.Warnf(p, "duplicates social[%d]", first)
		} else {
			seen[key] = i
		}
	}
}

// CustomCSSRule checks stylesheet references. Order and repeats are preserved
// verbatim in output; repeats are only reported.
type CustomCSSRule struct{}

func (CustomCSSRule) Name() string { return "custom_css" }

func (CustomCSSRule) Check(cfg *Config, r *Reporter) {
	seen := map[string]int{}
	for i, css := range cfg.CustomCSS {
		p := fmt.Sprintf("customCss[%d]", i)
		if strings.TrimSpace(css) == "" {
			r.Errorf(p, "stylesheet path is empty")
			continue
		}
		if first, dup := seen[css]; dup {
			r.Warnf(p, "stylesheet %q already listed at customCss[%d]", css, first)
		} else {
			seen[css] = i
		}
	}
}

var headElements = map[atom.Atom]struct{}{
	atom.Title: {}, atom.Base: {}, atom.Link: {}, atom.Style: {},
	atom.Meta: {}, atom.Script: {}, atom.Noscript: {}, atom.Template: {},
}

// HeadRule restricts injected head entries to elements valid inside <head>.
type HeadRule struct{}

func (HeadRule) Name() string { return "head" }

func (HeadRule) Check(cfg *Config, r *Reporter) {
	for i, h := range cfg.Head {
		p := fmt.Sprintf("head[%d]", i)
		tag := strings.ToLower(strings.TrimSpace(h.Tag))
		a := atom.Lookup([]byte(tag))
		if a == 0 {
			r.Errorf(p, "unknown HTML element %q", h.Tag)
			continue
		}
		if _, ok := headElements[a]; !ok {
			r.Errorf(p, "<%s> is not allowed inside <head>", tag)
		}
	}
}

// TableOfContentsRule bounds heading levels to 1..6 with min <= max.
type TableOfContentsRule struct{}

func (TableOfContentsRule) Name() string { return "table_of_contents" }

func (TableOfContentsRule) Check(cfg *Config, r *Reporter) {
	t := cfg.TableOfContents
	if t == nil {
		return
	}
	lo, hi := t.MinHeadingLevel, t.MaxHeadingLevel
	if lo == 0 {
		lo = 2
	}
	if hi == 0 {
		hi = 3
	}
	if lo < 1 || lo > 6 || hi < 1 || hi > 6 {
		r.Errorf("tableOfContents", "heading levels must be between 1 and 6")
		return
	}
	if lo > hi {
		r.Errorf("tableOfContents", "minHeadingLevel %d exceeds maxHeadingLevel %d", lo, hi)
	}
}

// EditLinkRule requires an absolute base URL for edit links.
type EditLinkRule struct{}

func (EditLinkRule) Name() string { return "edit_link" }

func (EditLinkRule) Check(cfg *Config, r *Reporter) {
	if cfg.EditLink == nil {
		return
	}
	if err := checkAbsoluteURL(cfg.EditLink.BaseURL); err != nil {
		r.Errorf("editLink.baseUrl", "%v", err)
	}
}

// ViteRule checks filesystem allowances.
type ViteRule struct{}

func (ViteRule) Name() string { return "vite" }

func (ViteRule) Check(cfg *Config, r *Reporter) {
	for i, a := range cfg.FSAllow() {
		if strings.TrimSpace(a) == "" {
			r.Errorf(fmt.Sprintf("vite.server.fs.allow[%d]", i), "allowance is empty")
		}
	}
}

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IntegrationsRule checks extra integrations are importable.
type IntegrationsRule struct{}

func (IntegrationsRule) Name() string { return "integrations" }

func (IntegrationsRule) Check(cfg *Config, r *Reporter) {
	imports := map[string]int{}
	for i, in := range cfg.Integrations {
		p := fmt.Sprintf("integrations[%d]", i)
		if in.Name == "" {
			r.Errorf(p, "name is required")
		}
		if strings.EqualFold(in.Name, "starlight") {
			r.Errorf(p, "starlight is always enabled and cannot be listed again")
		}
		if in.Package == "" {
			r.Errorf(p, "package is required")
		}
		if !jsIdent.MatchString(in.Import) {
			r.Errorf(p, "import %q is not a valid identifier", in.Import)
			continue
		}
		if in.Import == "starlight" || in.Import == "defineConfig" {
			r.Errorf(p, "import %q collides with a generated binding", in.Import)
		}
		if first, dup := imports[in.Import]; dup {
			r.Errorf(p, "import %q already used by integrations[%d]", in.Import, first)
		} else {
			imports[in.Import] = i
		}
	}
}

// SidebarStructureRule checks node shapes, link targets, autogenerate
// directories, and label uniqueness inside every group.
type SidebarStructureRule struct{}

func (SidebarStructureRule) Name() string { return "sidebar" }

func (SidebarStructureRule) Check(cfg *Config, r *Reporter) {
	if len(cfg.Sidebar) == 0 {
		r.Warnf("sidebar", "sidebar is empty")
	}
	Walk("sidebar", cfg.Sidebar, func(p string, depth int, n *NavNode) bool {
		checkNode(p, n, r)
		if n.Kind() == KindGroup {
			checkSiblings(p+".items", n.Items, r)
		}
		return true
	})
}

func checkNode(p string, n *NavNode, r *Reporter) {
	switch n.Kind() {
	case KindInvalid:
		if n.variantCount() == 0 {
			r.Errorf(p, "entry %q needs one of link, slug, items or autogenerate", n.Label)
		} else {
			r.Errorf(p, "entry %q mixes %s", n.Label, strings.Join(n.setVariants(), " and "))
		}
		return
	case KindSlug:
		if strings.HasPrefix(n.Slug, "/") || strings.HasSuffix(n.Slug, "/") {
			r.Errorf(p, "slug %q must not start or end with '/'", n.Slug)
		}
		return
	}
	if strings.TrimSpace(n.Label) == "" {
		r.Errorf(p, "label is required")
	}
	switch n.Kind() {
	case KindLink:
		if !isLinkTarget(n.Link) {
			r.Warnf(p, "link %q is neither site-absolute nor a URL", n.Link)
		}
	case KindGroup:
		if len(n.Items) == 0 {
			r.Warnf(p, "group %q has no items", n.Label)
		}
	case KindAutogenerate:
		dir := n.Autogenerate.Directory
		switch {
		case strings.TrimSpace(dir) == "":
			r.Errorf(p+".autogenerate", "directory is required")
		case strings.HasPrefix(dir, "/"), dir == "..", strings.HasPrefix(dir, "../"):
			r.Errorf(p+".autogenerate", "directory %q must be relative to the docs collection", dir)
		case path.Clean(dir) != dir:
			r.Errorf(p+".autogenerate", "directory %q is not clean (want %q)", dir, path.Clean(dir))
		}
	}
}

func checkSiblings(prefix string, nodes []NavNode, r *Reporter) {
	seen := map[string]int{}
	for i, n := range nodes {
		key := n.Key()
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			r.Errorf(fmt.Sprintf("%s[%d]", prefix, i), "label %q already used by %s[%d]", key, prefix, first)
			continue
		}
		seen[key] = i
	}
}

// TopLevelDuplicatesRule applies the duplicate policy to top-level sections.
type TopLevelDuplicatesRule struct {
	Policy DuplicatePolicy
}

func (TopLevelDuplicatesRule) Name() string { return "sidebar_duplicates" }

func (t TopLevelDuplicatesRule) Check(cfg *Config, r *Reporter) {
	seen := map[string]int{}
	for i, n := range cfg.Sidebar {
		key := n.Key()
		if key == "" {
			continue
		}
		first, dup := seen[key]
		if !dup {
			seen[key] = i
			continue
		}
		p := fmt.Sprintf("sidebar[%d]", i)
		if t.Policy == DuplicatesReject {
			r.Errorf(p, "section %q is already declared at sidebar[%d]", key, first)
		} else {
			r.Warnf(p, "section %q is already declared at sidebar[%d]", key, first)
		}
	}
}

// ResolvedSidebarRule re-checks label uniqueness on a sidebar whose
// autogenerate groups and slug links have been expanded. Generated children
// repeating a label are errors; repeated top-level sections follow Policy.
type ResolvedSidebarRule struct {
	Policy DuplicatePolicy
}

func (ResolvedSidebarRule) Name() string { return "sidebar_resolved" }

func (t ResolvedSidebarRule) Check(cfg *Config, r *Reporter) {
	Walk("sidebar", cfg.Sidebar, func(p string, _ int, n *NavNode) bool {
		if n.Kind() == KindGroup {
			checkSiblings(p+".items", n.Items, r)
		}
		return true
	})
	TopLevelDuplicatesRule(t).Check(cfg, r)
}

// ValidateResolved checks an expanded sidebar with ResolvedSidebarRule.
func ValidateResolved(nodes []NavNode, policy DuplicatePolicy) Issues {
	if policy == "" {
		policy = DuplicatesWarn
	}
	return NewValidator(ResolvedSidebarRule{Policy: policy}).Validate(&Config{Sidebar: nodes})
}

func isLinkTarget(link string) bool {
	if strings.HasPrefix(link, "/") || strings.HasPrefix(link, "#") {
		return true
	}
	u, err := url.Parse(link)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Scheme == "mailto")
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%q is not a valid URL: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
