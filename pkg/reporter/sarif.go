package reporter

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/yaklabco/phpsniff/pkg/analysis"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifToolName  = "phpsniff"
)

// SARIFOutput is the root of a SARIF 2.1.0 log. Only the subset phpsniff
// fills in is modelled.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool struct {
		Driver sarifDriver `json:"driver"`
	} `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

// sarifText is used for both message and multiformatMessageString.
type sarifText struct {
	Text string `json:"text"`
}

type sarifRule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	ShortDescription sarifText        `json:"shortDescription"`
	DefaultConfig    *sarifRuleConfig `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any   `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    sarifText       `json:"message"`
	Locations  []sarifLocation `json:"locations"`
	Fixes      []sarifFix      `json:"fixes,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifLocation struct {
	PhysicalLocation struct {
		ArtifactLocation sarifArtifact `json:"artifactLocation"`
		Region           sarifRegion   `json:"region"`
	} `json:"physicalLocation"`
}

// sarifRegion is given either by line and column or by byte offset.
type sarifRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

type sarifFix struct {
	Description     sarifText     `json:"description"`
	ArtifactChanges []sarifChange `json:"artifactChanges"`
}

type sarifChange struct {
	ArtifactLocation sarifArtifact      `json:"artifactLocation"`
	Replacements     []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion `json:"deletedRegion"`
	InsertedContent *sarifText  `json:"insertedContent,omitempty"`
}

// SARIFRenderer writes one SARIF run covering every diagnostic.
type SARIFRenderer struct {
	opts Options
}

func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	enc := json.NewEncoder(bw)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r.document(report)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) document(report *analysis.Report) *SARIFOutput {
	var run sarifRun
	run.Tool.Driver = sarifDriver{
		Name:    sarifToolName,
		Version: cmp.Or(r.opts.ToolVersion, "dev"),
		Rules:   r.rules(report.ByRule),
	}
	run.Results = make([]sarifResult, 0, len(report.Diagnostics))
	for i := range report.Diagnostics {
		run.Results = append(run.Results, sarifResultFor(&report.Diagnostics[i]))
	}
	return &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []sarifRun{run}}
}

// rules describes each rule that produced results, ordered by ID. The
// default level is the most severe one the rule reported in this run.
func (r *SARIFRenderer) rules(byRule []analysis.RuleAnalysis) []sarifRule {
	out := make([]sarifRule, 0, len(byRule))
	for _, ra := range byRule {
		out = append(out, sarifRule{
			ID:               ra.RuleID,
			Name:             ra.RuleName,
			ShortDescription: sarifText{Text: cmp.Or(r.opts.RuleDescriptions[ra.RuleID], ra.RuleName)},
			DefaultConfig:    &sarifRuleConfig{Level: sarifLevel(worstSeverity(ra))},
			Properties:       fixableProperty(ra.Fixable),
		})
	}
	slices.SortFunc(out, func(a, b sarifRule) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func sarifResultFor(d *analysis.DiagnosticEntry) sarifResult {
	var loc sarifLocation
	loc.PhysicalLocation.ArtifactLocation.URI = d.FilePath
	loc.PhysicalLocation.Region = sarifRegion{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}

	result := sarifResult{
		RuleID:     d.RuleID,
		Level:      sarifLevel(d.Severity),
		Message:    sarifText{Text: d.Message},
		Locations:  []sarifLocation{loc},
		Properties: fixableProperty(d.Fixable),
	}
	if len(d.Fixes) == 0 {
		return result
	}

	change := sarifChange{ArtifactLocation: sarifArtifact{URI: d.FilePath}}
	for _, edit := range d.Fixes {
		offset, length := edit.StartOffset, edit.EndOffset-edit.StartOffset
		rep := sarifReplacement{DeletedRegion: sarifRegion{ByteOffset: &offset, ByteLength: &length}}
		if edit.NewText != "" {
			rep.InsertedContent = &sarifText{Text: edit.NewText}
		}
		change.Replacements = append(change.Replacements, rep)
	}
	result.Fixes = []sarifFix{{
		Description:     sarifText{Text: cmp.Or(d.Suggestion, d.Message)},
		ArtifactChanges: []sarifChange{change},
	}}
	return result
}

func fixableProperty(fixable bool) map[string]any {
	if !fixable {
		return nil
	}
	return map[string]any{"fixable": true}
}

func worstSeverity(ra analysis.RuleAnalysis) string {
	switch {
	case ra.Errors > 0:
		return "error"
	case ra.Warnings > 0:
		return "warning"
	}
	return "info"
}

// sarifLevel maps a phpsniff severity to a SARIF level; info becomes note.
func sarifLevel(severity string) string {
	switch severity {
	case "error":
		return "error"
	case "info":
		return "note"
	}
	return "warning"
}
