package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AssetsRule checks that locally referenced files exist below Root. Paths
// starting with ./ or ../ resolve against Root; root-absolute paths such as
// the favicon resolve against Root/public. Package specifiers and URLs are
// not checked.
type AssetsRule struct {
	Root string
}

func (AssetsRule) Name() string { return "assets" }

func (a AssetsRule) Check(cfg *Config, r *Reporter) {
	if l := cfg.Logo; l != nil {
		a.checkRelative(r, "logo.src", l.Src)
		a.checkRelative(r, "logo.light", l.Light)
		a.checkRelative(r, "logo.dark", l.Dark)
	}
	for i, css := range cfg.CustomCSS {
		a.checkRelative(r, fmt.Sprintf("customCss[%d]", i), css)
	}
	if fav := cfg.Favicon; strings.HasPrefix(fav, "/") && !strings.HasPrefix(fav, "//") {
		p := filepath.Join(a.Root, "public", filepath.FromSlash(strings.TrimPrefix(fav, "/")))
		if !exists(p) {
			r.Warnf("favicon", "favicon %q not found in public/", fav)
		}
	}
}

func (a AssetsRule) checkRelative(r *Reporter, field, ref string) {
	if !strings.HasPrefix(ref, "./") && !strings.HasPrefix(ref, "../") {
		return
	}
	if !exists(filepath.Join(a.Root, filepath.FromSlash(ref))) {
		r.Errorf(field, "file %q does not exist", ref)
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
