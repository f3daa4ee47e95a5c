// Package curriculum composes OCR-derived career facts into LLM prompts and
// shapes the user-facing result text.
package curriculum

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/every-mentor/mentorai/internal/certs"
	"github.com/every-mentor/mentorai/internal/company"
	"github.com/every-mentor/mentorai/internal/providers"
	"github.com/every-mentor/mentorai/internal/textnorm"
)

// ResultType selects what the orchestrator returns.
type ResultType string

const (
	ResultCurriculum  ResultType = "curriculum"
	ResultSubjects    ResultType = "subjects"
	ResultAllSubjects ResultType = "all_subjects"
)

// ParseResultType validates a result-type selector.
func ParseResultType(s string) (ResultType, error) {
	switch ResultType(s) {
	case "", ResultCurriculum:
		return ResultCurriculum, nil
	case ResultSubjects, ResultAllSubjects:
		return ResultType(s), nil
	default:
		return "", fmt.Errorf("unknown result type: %q", s)
	}
}

// Format selects plain text or schema-validated JSON output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format selector.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %q", s)
	}
}

// DependentMode controls the dependent-insurance interpretation of employer
// candidates.
type DependentMode string

const (
	DependentAuto  DependentMode = "auto"
	DependentTrue  DependentMode = "true"
	DependentFalse DependentMode = "false"
)

// ParseDependentMode validates a dependent-mode selector.
func ParseDependentMode(s string) (DependentMode, error) {
	switch DependentMode(s) {
	case "", DependentAuto:
		return DependentAuto, nil
	case DependentTrue, DependentFalse:
		return DependentMode(s), nil
	default:
		return "", fmt.Errorf("unknown dependent mode: %q", s)
	}
}

// Facts are the structured career facts distilled from one document.
type Facts struct {
	MaskedText     string              `json:"masked_text"`
	Companies      []company.Candidate `json:"companies"`
	Certifications []certs.Resolution  `json:"certifications"`
	SubjectLines   []string            `json:"subject_lines"`
	Dependent      bool                `json:"dependent"`
}

// Request carries the caller's curriculum parameters.
type Request struct {
	Weeks     int
	Goal      string
	Dependent DependentMode
	Result    ResultType
	Format    Format
	Provider  string
}

// Output is the shaped orchestrator result. JSON is set only for FormatJSON
// curriculum requests.
type Output struct {
	Text  string          `json:"text"`
	JSON  json.RawMessage `json:"json,omitempty"`
	Facts *Facts          `json:"facts"`
}

// Orchestrator wires the resolver, extractor, and providers together.
type Orchestrator struct {
	resolver        *certs.Resolver
	inferrer        *certs.Inferrer
	extractor       *company.Extractor
	registry        *providers.Registry
	maxUnknownCerts int
	temperature     float64
	maxTokens       int
	logResponses    bool
	truncateLen     int
	logger          *slog.Logger
}

// OrchestratorConfig holds Orchestrator construction parameters.
type OrchestratorConfig struct {
	Resolver        *certs.Resolver
	Inferrer        *certs.Inferrer
	Extractor       *company.Extractor
	Registry        *providers.Registry
	MaxUnknownCerts int
	Temperature     float64
	MaxTokens       int
	// LogResponses enables debug logging of prompts and model responses,
	// truncated to TruncateLen runes.
	LogResponses bool
	TruncateLen  int
	Logger       *slog.Logger
}

// NewOrchestrator builds an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUnknownCerts == 0 {
		cfg.MaxUnknownCerts = 3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.TruncateLen == 0 {
		cfg.TruncateLen = 500
	}
	return &Orchestrator{
		resolver:        cfg.Resolver,
		inferrer:        cfg.Inferrer,
		extractor:       cfg.Extractor,
		registry:        cfg.Registry,
		maxUnknownCerts: cfg.MaxUnknownCerts,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		logResponses:    cfg.LogResponses,
		truncateLen:     cfg.TruncateLen,
		logger:          cfg.Logger,
	}
}

// DetectDependent reports whether the OCR text indicates dependent
// (family-member) insurance coverage.
func DetectDependent(text string) bool {
	return strings.Contains(text, "피부양자")
}

// BuildFacts masks the OCR text and extracts companies, certifications, and
// subject lines. Unknown certifications consume the per-request LLM budget;
// past the budget they get placeholder lines without LLM calls.
func (o *Orchestrator) BuildFacts(ctx context.Context, ocrText string, mode DependentMode) (*Facts, error) {
	facts := &Facts{MaskedText: textnorm.MaskSensitiveText(ocrText)}

	switch mode {
	case DependentTrue:
		facts.Dependent = true
	case DependentFalse:
		facts.Dependent = false
	default:
		facts.Dependent = DetectDependent(ocrText)
	}

	facts.Companies = o.extractor.Extract(facts.MaskedText)

	unknownBudget := o.maxUnknownCerts
	for _, title := range certs.ExtractTitleCandidates(ocrText) {
		res := o.resolver.Resolve(title)
		facts.Certifications = append(facts.Certifications, res)

		if res.Resolved() {
			if entry, ok := o.resolver.Taxonomy().Lookup(res.Canonical); ok {
				facts.SubjectLines = append(facts.SubjectLines, entry.SubjectLine())
			}
			continue
		}

		if line, ok := o.inferrer.Cached(title); ok {
			facts.SubjectLines = append(facts.SubjectLines, line)
			continue
		}
		if unknownBudget <= 0 {
			facts.SubjectLines = append(facts.SubjectLines, o.inferrer.PlaceholderLine(title))
			continue
		}
		unknownBudget--
		line, err := o.inferrer.InferSubjects(ctx, title)
		if err != nil {
			return nil, err
		}
		facts.SubjectLines = append(facts.SubjectLines, line)
	}

	return facts, nil
}

// Generate produces the requested result from one document's OCR text.
func (o *Orchestrator) Generate(ctx context.Context, ocrText string, req Request) (*Output, error) {
	facts, err := o.BuildFacts(ctx, ocrText, req.Dependent)
	if err != nil {
		return nil, err
	}

	switch req.Result {
	case ResultAllSubjects:
		return &Output{
			Text:  strings.Join(o.resolver.Taxonomy().AllSubjectLines(), "\n"),
			Facts: facts,
		}, nil
	case ResultSubjects:
		text := "감지된 자격증이 없습니다."
		if len(facts.SubjectLines) > 0 {
			text = strings.Join(facts.SubjectLines, "\n")
		}
		return &Output{Text: text, Facts: facts}, nil
	}

	client, err := o.registry.Select(req.Provider)
	if err != nil {
		return nil, err
	}

	if req.Format == FormatJSON {
		return o.generateJSON(ctx, client, facts, req)
	}

	prompt := buildCurriculumPrompt(facts, req)
	result, err := client.GenerateText(ctx, &providers.GenerateRequest{
		Prompt:      prompt,
		System:      curriculumSystemPrompt,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	o.debugLog(prompt, result.Text)

	o.logger.Debug("curriculum generated",
		"provider", result.Provider,
		"tokens", result.TotalTokens,
		"weeks", req.Weeks)
	return &Output{Text: strings.TrimSpace(result.Text), Facts: facts}, nil
}

// generateJSON asks for strict JSON and validates it against the curriculum
// schema. Invalid output surfaces as MalformedModelOutputError with the raw
// model text attached.
func (o *Orchestrator) generateJSON(ctx context.Context, client providers.LLMClient, facts *Facts, req Request) (*Output, error) {
	prompt := buildCurriculumPrompt(facts, req) + "\n\n" + jsonInstruction
	result, err := client.GenerateText(ctx, &providers.GenerateRequest{
		Prompt:      prompt,
		System:      curriculumSystemPrompt,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	o.debugLog(prompt, result.Text)

	raw := strings.TrimSpace(result.Text)
	validated, err := validateCurriculumJSON(raw)
	if err != nil {
		return nil, &MalformedModelOutputError{Raw: raw, Err: err}
	}

	return &Output{JSON: validated, Facts: facts}, nil
}

// debugLog records the prompt and response excerpts when enabled.
func (o *Orchestrator) debugLog(prompt, response string) {
	if !o.logResponses {
		return
	}
	o.logger.Debug("model exchange",
		"prompt", truncateRunes(prompt, o.truncateLen),
		"response", truncateRunes(response, o.truncateLen))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
