// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rerank

import (
	"regexp"
	"strconv"
	"strings"
)

// Assessment domains derived from single-letter test type codes.
const (
	DomainTechnical  = "technical"
	DomainBehavioral = "behavioral"
	DomainCognitive  = "cognitive"
	DomainOther      = "other"
)

// Hour constraints take precedence over minute constraints when a query
// mentions both ("1 hour, ideally 45 mins" reads as a 60 minute cap).
var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*hours?`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mins?`)
)

var technicalKeywords = []string{
	"java", "python", "sql", "javascript", "react", "developer", "engineer",
	"frontend", "backend", "coding", "automation", "testing", "qa", "technical",
	"programming", "knowledge", "skill", "proficient", "expertise",
}

var behavioralKeywords = []string{
	"collaborate", "communication", "personality", "leadership", "team",
	"interpersonal", "behavioral", "soft skill", "culture", "fit", "manager",
	"management",
}

var cognitiveKeywords = []string{
	"cognitive", "reasoning", "analytical", "logical", "problem", "iq",
	"aptitude", "numeracy", "verbal", "ability",
}

// DesiredDomains records which assessment domains a query asks for.
type DesiredDomains struct {
	Technical  bool
	Behavioral bool
	Cognitive  bool
}

// Any reports whether at least one domain was requested.
func (d DesiredDomains) Any() bool {
	return d.Technical || d.Behavioral || d.Cognitive
}

func (d DesiredDomains) count() int {
	n := 0
	if d.Technical {
		n++
	}
	if d.Behavioral {
		n++
	}
	if d.Cognitive {
		n++
	}
	return n
}

// InferMaxDuration extracts a maximum-duration constraint from free query
// text. Fractional values are allowed ("1.5 hours" is 90 minutes, the
// result truncates toward zero). The second return value is false when no
// constraint is present.
func InferMaxDuration(query string) (int, bool) {
	if m := hoursPattern.FindStringSubmatch(query); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(v * 60), true
		}
	}
	if m := minutesPattern.FindStringSubmatch(query); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(v), true
		}
	}
	return 0, false
}

// InferDesiredDomains scans the query for domain keywords. Matching is
// case-insensitive substring matching, so "teamwork" triggers "team".
func InferDesiredDomains(query string) DesiredDomains {
	lower := strings.ToLower(query)
	return DesiredDomains{
		Technical:  containsAny(lower, technicalKeywords),
		Behavioral: containsAny(lower, behavioralKeywords),
		Cognitive:  containsAny(lower, cognitiveKeywords),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// CategorizeTestType maps a single-letter test type code to its domain.
// Unknown or empty codes fall into DomainOther.
func CategorizeTestType(testType string) string {
	switch strings.ToUpper(strings.TrimSpace(testType)) {
	case "K", "V":
		return DomainTechnical
	case "P", "L":
		return DomainBehavioral
	case "C", "N", "R":
		return DomainCognitive
	}
	return DomainOther
}
