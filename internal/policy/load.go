package policy

import (
	"encoding/json"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dillib/cloudbom/internal/errkind"
)

// document is the textual schema a policy file parses into, before rules
// are compiled into a RuleSet. Field names are reproduced verbatim from
// spec.md §6 ("exact names reproduced verbatim so that existing files keep
// working"): required_tags, optional_tags, exemptions, tag_patterns,
// service_specific_rules. Tags accept both YAML and JSON spellings since
// spec §4.1 accepts either form.
type document struct {
	RequiredTags []tagRuleDoc              `yaml:"required_tags" json:"required_tags"`
	OptionalTags []tagRuleDoc              `yaml:"optional_tags" json:"optional_tags"`
	Exemptions   []exemptionDoc            `yaml:"exemptions" json:"exemptions"`
	TagPatterns  map[string]string         `yaml:"tag_patterns" json:"tag_patterns"`
	ServiceRules map[string]serviceRuleDoc `yaml:"service_specific_rules" json:"service_specific_rules"`
}

// tagRuleDoc accepts either a bare tag key ("Environment") or the object
// form ({key, values, pattern}), matching spec.md §6's "list of string or
// {key, values?, pattern?}" for required_tags/optional_tags.
type tagRuleDoc struct {
	Key           string   `yaml:"key" json:"key"`
	AllowedValues []string `yaml:"values" json:"values"`
	Pattern       string   `yaml:"pattern" json:"pattern"`
}

// UnmarshalYAML lets a required_tags/optional_tags entry be either a plain
// string or an object; JSON documents reach this too since Load always
// parses through yaml.Unmarshal (JSON is a YAML subset).
func (t *tagRuleDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&t.Key)
	}
	type plain tagRuleDoc
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = tagRuleDoc(p)
	return nil
}

type exemptionDoc struct {
	Service    string   `yaml:"service" json:"service"`
	Type       string   `yaml:"type" json:"type"`
	Pattern    string   `yaml:"pattern" json:"pattern"`
	ExemptTags []string `yaml:"exempt_tags" json:"exempt_tags"`
}

type serviceRuleDoc struct {
	RequiredTags []tagRuleDoc `yaml:"required_tags" json:"required_tags"`
	OptionalTags []tagRuleDoc `yaml:"optional_tags" json:"optional_tags"`
}

// Load parses a policy document (YAML or JSON; JSON is valid YAML, so a
// single unmarshal path handles both) into an immutable RuleSet, per spec
// §4.1. A document that fails schema validation or carries an unsafe
// pattern fails with errkind.InvalidPolicy.
func Load(data []byte) (RuleSet, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RuleSet{}, errkind.Wrap(errkind.InvalidPolicy, err, "failed to parse policy document")
	}

	if len(doc.RequiredTags) == 0 {
		return RuleSet{}, errkind.New(errkind.InvalidPolicy, "policy document has no required tag keys")
	}

	required, err := compileRules(doc.RequiredTags)
	if err != nil {
		return RuleSet{}, err
	}
	if err := applyTagPatterns(required, doc.TagPatterns); err != nil {
		return RuleSet{}, err
	}

	optional, err := compileRules(doc.OptionalTags)
	if err != nil {
		return RuleSet{}, err
	}

	overrides := map[string]ServiceOverride{}
	for service, sd := range doc.ServiceRules {
		req, err := compileRules(sd.RequiredTags)
		if err != nil {
			return RuleSet{}, err
		}
		if err := applyTagPatterns(req, doc.TagPatterns); err != nil {
			return RuleSet{}, err
		}
		opt, err := compileRules(sd.OptionalTags)
		if err != nil {
			return RuleSet{}, err
		}
		overrides[service] = ServiceOverride{Service: service, Required: req, Optional: opt}
	}

	var exemptions []Exemption
	for _, ed := range doc.Exemptions {
		var idPattern *regexp.Regexp
		if ed.Pattern != "" {
			idPattern, err = compileSafe(ed.Pattern)
			if err != nil {
				return RuleSet{}, err
			}
		}
		exemptions = append(exemptions, Exemption{
			Service:   ed.Service,
			Type:      ed.Type,
			IDPattern: idPattern,
			TagKeys:   ed.ExemptTags,
		})
	}

	return RuleSet{
		Required:   required,
		Optional:   optional,
		Overrides:  overrides,
		Exemptions: exemptions,
	}, nil
}

func compileRules(docs []tagRuleDoc) ([]TagRule, error) {
	var rules []TagRule
	for _, d := range docs {
		if d.Key == "" {
			return nil, errkind.New(errkind.InvalidPolicy, "tag rule missing key")
		}
		rule := TagRule{Key: d.Key, AllowedValues: d.AllowedValues}
		if d.Pattern != "" {
			compiled, err := compileSafe(d.Pattern)
			if err != nil {
				return nil, err
			}
			rule.Pattern = compiled
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// applyTagPatterns compiles the document's top-level tag_patterns mapping
// onto any rule in rules that doesn't already carry an inline pattern,
// keyed by tag name (spec.md §6: "Applied to required keys' values when
// present"). An inline {key, pattern} entry always wins over tag_patterns.
func applyTagPatterns(rules []TagRule, patterns map[string]string) error {
	for i := range rules {
		if rules[i].Pattern != nil {
			continue
		}
		raw, ok := patterns[rules[i].Key]
		if !ok {
			continue
		}
		compiled, err := compileSafe(raw)
		if err != nil {
			return err
		}
		rules[i].Pattern = compiled
	}
	return nil
}

// LoadJSON is a convenience wrapper documenting that a caller has a JSON
// document in hand; it delegates to Load since JSON is a YAML subset.
func LoadJSON(data []byte) (RuleSet, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return RuleSet{}, errkind.Wrap(errkind.InvalidPolicy, err, "not valid JSON")
	}
	return Load(data)
}
