package site

// DuplicatePolicy controls how repeated top-level sidebar sections are treated.
type DuplicatePolicy string

const (
	// DuplicatesWarn keeps every entry and reports later repeats as warnings.
	DuplicatesWarn DuplicatePolicy = "warn"
	// DuplicatesReject reports later repeats as errors.
	DuplicatesReject DuplicatePolicy = "reject"
	// DuplicatesDedupe drops later repeats, keeping the first declaration.
	DuplicatesDedupe DuplicatePolicy = "dedupe"
)

// Options tune the default rule chain.
type Options struct {
	Duplicates DuplicatePolicy
	// AssetRoot enables AssetsRule against this project directory.
	AssetRoot string
}

// Rule is a single named check over a site definition.
type Rule interface {
	Name() string
	Check(cfg *Config, r *Reporter)
}

// Validator runs a chain of rules. Unlike a short-circuiting chain, every rule
// runs so that a single pass reports all findings.
type Validator struct {
	rules []Rule
}

// NewValidator returns a validator with the given rules.
func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// DefaultRules returns the standard rules in reporting order.
func DefaultRules(opts Options) []Rule {
	policy := opts.Duplicates
	if policy == "" {
		policy = DuplicatesWarn
	}
	rules := []Rule{
		SiteURLRule{},
		TitleRule{},
		LogoRule{},
		SocialRule{},
		CustomCSSRule{},
		HeadRule{},
		TableOfContentsRule{},
		EditLinkRule{},
		ViteRule{},
		IntegrationsRule{},
		SidebarStructureRule{},
		TopLevelDuplicatesRule{Policy: policy},
	}
	if opts.AssetRoot != "" {
		rules = append(rules, AssetsRule{Root: opts.AssetRoot})
	}
	return rules
}

// Validate checks cfg with the default rules.
func Validate(cfg *Config, opts Options) Issues {
	return NewValidator(DefaultRules(opts)...).Validate(cfg)
}

// Validate runs every rule and returns the combined findings in rule order.
func (v *Validator) Validate(cfg *Config) Issues {
	if cfg == nil {
		return Issues{{Severity: SeverityError, Rule: "config", Message: "site configuration is missing"}}
	}
	var all Issues
	for _, rule := range v.rules {
		r := &Reporter{rule: rule.Name()}
		rule.Check(cfg, r)
		all = append(all, r.Issues()...)
	}
	return all
}

// Dedupe removes later top-level sidebar entries whose key was already
// declared, preserving the order of the survivors. It returns the labels
// that were dropped, in the order they were encountered.
func Dedupe(nodes []NavNode) ([]NavNode, []string) {
	if nodes == nil {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(nodes))
	out := make([]NavNode, 0, len(nodes))
	var dropped []string
	for _, n := range nodes {
		key := n.Key()
		if key != "" {
			if _, dup := seen[key]; dup {
				dropped = append(dropped, key)
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, n)
	}
	return out, dropped
}
