// Package taxonomy declares the keyword rules and directory layouts used to
// organize export files into browsable category trees.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/Veraticus/squeegee/internal/model"
)

// MatchMode controls how many rules of a set may fire.
type MatchMode string

const (
	// MatchAll returns every rule whose terms appear in the text.
	MatchAll MatchMode = "all"
	// MatchFirst returns only the first matching rule in declaration order.
	MatchFirst MatchMode = "first"
)

// Rule maps a label to the trigger terms that select it.
type Rule struct {
	Label string   `yaml:"label"`
	Terms []string `yaml:"terms"`
}

// Matches reports whether any term occurs in text, ignoring case.
func (r Rule) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range r.Terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// RuleSet is an ordered table of rules for one axis.
type RuleSet struct {
	Axis    model.Axis `yaml:"axis"`
	Mode    MatchMode  `yaml:"mode"`
	Default string     `yaml:"default"`
	Rules   []Rule     `yaml:"rules"`
}

// Match returns the labels selected by text. When nothing matches the
// default label is returned, if the set has one.
func (rs RuleSet) Match(text string) []string {
	var labels []string
	for _, r := range rs.Rules {
		if !r.Matches(text) {
			continue
		}
		labels = append(labels, r.Label)
		if rs.Mode == MatchFirst {
			break
		}
	}
	if len(labels) == 0 && rs.Default != "" {
		return []string{rs.Default}
	}
	return labels
}

// MatchOne returns the single label for text under first-match semantics.
func (rs RuleSet) MatchOne(text string) string {
	for _, r := range rs.Rules {
		if r.Matches(text) {
			return r.Label
		}
	}
	return rs.Default
}

// MatchAny reports whether any rule in the set matches text.
func (rs RuleSet) MatchAny(text string) bool {
	for _, r := range rs.Rules {
		if r.Matches(text) {
			return true
		}
	}
	return false
}

// Labels lists every label the set can produce, including the default.
func (rs RuleSet) Labels() []string {
	labels := make([]string, 0, len(rs.Rules)+1)
	seen := make(map[string]struct{}, len(rs.Rules)+1)
	add := func(l string) {
		if l == "" {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	for _, r := range rs.Rules {
		add(r.Label)
	}
	add(rs.Default)
	return labels
}

// Validate checks that the set is usable.
func (rs RuleSet) Validate() error {
	if rs.Axis == "" {
		return fmt.Errorf("rule set has no axis")
	}
	switch rs.Mode {
	case MatchAll, MatchFirst:
	default:
		return fmt.Errorf("rule set %s: unknown match mode %q", rs.Axis, rs.Mode)
	}
	for i, r := range rs.Rules {
		if r.Label == "" {
			return fmt.Errorf("rule set %s: rule %d has no label", rs.Axis, i)
		}
		if len(r.Terms) == 0 {
			return fmt.Errorf("rule set %s: rule %q has no terms", rs.Axis, r.Label)
		}
	}
	return nil
}

// Rules holds every rule table the classifiers consult.
type Rules struct {
	// Services tags estimate service columns. Columns matching none of its
	// rules fall into OtherServices.
	Services      RuleSet `yaml:"services"`
	OtherServices string  `yaml:"other_services"`

	// Commercial tags estimate subjects by organizational suffix.
	Commercial RuleSet `yaml:"commercial"`

	Jobs           RuleSet `yaml:"jobs"`
	Status         RuleSet `yaml:"status"`
	ScheduleClient RuleSet `yaml:"schedule_client"`
	Crew           RuleSet `yaml:"crew"`
}

// Validate checks every table.
func (r Rules) Validate() error {
	for _, rs := range []RuleSet{r.Services, r.Commercial, r.Jobs, r.Status, r.ScheduleClient, r.Crew} {
		if err := rs.Validate(); err != nil {
			return err
		}
	}
	if r.OtherServices == "" {
		return fmt.Errorf("rules: other_services label is required")
	}
	return nil
}
