package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"layered/internal/engine/layers"
	"layered/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

type ruleInfo struct {
	name        string
	description string
}

var sarifRules = map[layers.Kind]ruleInfo{
	layers.MissingDependency:         {"MissingDependency", "A module depends on a name that is not declared in the layered namespace."},
	layers.CyclicDependency:          {"CyclicDependency", "Module dependencies form a cycle."},
	layers.DeclarationOrderViolation: {"DeclarationOrder", "A module is declared after one of its dependencies."},
	layers.AttributeOrderViolation:   {"AttributeOrder", "Dependency annotations are not in module declaration order."},
	layers.UnsupportedConstruct:      {"UnsupportedConstruct", "A declaration uses a form the layered namespace cannot relocate."},
	layers.InvalidAnnotation:         {"InvalidAnnotation", "A dependency annotation does not name exactly one module."},
	layers.DuplicateModule:           {"DuplicateModule", "A module name is declared more than once."},
}

// RuleID maps a diagnostic kind to its stable SARIF rule identifier.
func RuleID(k layers.Kind) string {
	return fmt.Sprintf("LAYER%03d", int(k)+1)
}

// GenerateSARIF builds a SARIF v2.1.0 document from diagnostics. File URIs
// are made relative to projectRoot.
func GenerateSARIF(projectRoot string, diags []layers.Diagnostic) ([]byte, error) {
	rules, index := buildSARIFRules(diags)
	results := make([]sarifResult, 0, len(diags))

	for _, d := range diags {
		result := sarifResult{
			RuleID:    RuleID(d.Kind),
			RuleIndex: index[d.Kind],
			Level:     "error",
			Message:   sarifMessage{Text: d.Message},
		}
		if d.Span.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, d.Span.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if d.Span.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   d.Span.Line,
					StartColumn: d.Span.Column,
					EndLine:     d.Span.EndLine,
					EndColumn:   d.Span.EndColumn,
				}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "layered",
						Version: version.Version,
						Rules:   rules,
					},
				},
				AutomationDetails: sarifAutomationDetails{GUID: uuid.NewString()},
				Results:           results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules relevant to the given diagnostics,
// in kind order, and the index of each within the rules array.
func buildSARIFRules(diags []layers.Diagnostic) ([]sarifRule, map[layers.Kind]int) {
	seen := make(map[layers.Kind]bool, len(diags))
	for _, d := range diags {
		seen[d.Kind] = true
	}

	rules := make([]sarifRule, 0, len(seen))
	index := make(map[layers.Kind]int, len(seen))
	for _, k := range layers.Kinds() {
		if !seen[k] {
			continue
		}
		info := sarifRules[k]
		index[k] = len(rules)
		rules = append(rules, sarifRule{
			ID:               RuleID(k),
			Name:             info.name,
			ShortDescription: sarifMessage{Text: info.description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules, index
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. Relative paths are returned with forward slashes.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
