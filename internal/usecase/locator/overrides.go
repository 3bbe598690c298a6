package locator

import (
	"fmt"
	"os"
	"time"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML form of extra strategies. Rules listed for a chain are
// tried before the built-in ones.
//
// nav_links and data_regions are collected with a single combined CSS query,
// so their rules take no text pattern, and one bad selector would fail the
// whole query. Selectors are parsed when the file is loaded.
type RuleFile struct {
	Username    []Rule `yaml:"username"`
	Password    []Rule `yaml:"password"`
	LoginButton []Rule `yaml:"login_button"`
	NavLinks    []Rule `yaml:"nav_links"`
	DataRegions []Rule `yaml:"data_regions"`
}

type Rule struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
	Text     string `yaml:"text"`
}

// LoadRules reads a rule file. An empty path yields no rules.
func LoadRules(path string) (RuleFile, error) {
	if path == "" {
		return RuleFile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RuleFile{}, fmt.Errorf("read locator rules %q: %w", path, err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return RuleFile{}, fmt.Errorf("parse locator rules %q: %w", path, err)
	}
	if err := rf.validate(); err != nil {
		return RuleFile{}, fmt.Errorf("locator rules %q: %w", path, err)
	}
	return rf, nil
}

type ruleGroup struct {
	name    string
	rules   []Rule
	collect bool
}

// groups lists the rule groups in file order.
func (rf RuleFile) groups() []ruleGroup {
	return []ruleGroup{
		{name: "username", rules: rf.Username},
		{name: "password", rules: rf.Password},
		{name: "login_button", rules: rf.LoginButton},
		{name: "nav_links", rules: rf.NavLinks, collect: true},
		{name: "data_regions", rules: rf.DataRegions, collect: true},
	}
}

func (rf RuleFile) validate() error {
	for _, g := range rf.groups() {
		for i, r := range g.rules {
			if r.Selector == "" {
				return fmt.Errorf("%s[%d]: selector is required", g.name, i)
			}
			if _, err := cascadia.ParseGroup(r.Selector); err != nil {
				return fmt.Errorf("%s[%d]: invalid selector %q: %w", g.name, i, r.Selector, err)
			}
			if g.collect && r.Text != "" {
				return fmt.Errorf("%s[%d]: text is not supported for collected elements", g.name, i)
			}
		}
	}
	return nil
}

// Apply returns a copy of s with the file's rules placed ahead of each chain.
func (s Set) Apply(rf RuleFile, wait time.Duration) Set {
	return Set{
		Username:    prepend(s.Username, rf.Username, wait),
		Password:    prepend(s.Password, rf.Password, wait),
		LoginButton: prepend(s.LoginButton, rf.LoginButton, wait),
		NavLinks:    prepend(s.NavLinks, rf.NavLinks, wait),
		DataRegions: prepend(s.DataRegions, rf.DataRegions, wait),
	}
}

func prepend(c Chain, rules []Rule, wait time.Duration) Chain {
	if len(rules) == 0 {
		return c
	}
	if wait <= 0 {
		wait = DefaultWait
	}

	strategies := make([]Strategy, 0, len(rules))
	for i, r := range rules {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("custom %d", i+1)
		}
		strategies = append(strategies, Strategy{Name: name, Selector: r.Selector, TextPattern: r.Text, Wait: wait})
	}
	return NewChain(c.Name, strategies...).Then(c.Strategies...)
}
