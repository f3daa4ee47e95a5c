package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/curriculum"
	"github.com/every-mentor/mentorai/internal/ocr"
	"github.com/every-mentor/mentorai/internal/providers"
	"github.com/every-mentor/mentorai/internal/svcctx"
)

// CurriculumResponse is the response for the curriculum endpoint.
type CurriculumResponse struct {
	Text            string            `json:"text,omitempty"`
	JSON            json.RawMessage   `json:"json,omitempty"`
	Facts           *curriculum.Facts `json:"facts,omitempty"`
	SelectedVariant string            `json:"selected_variant,omitempty"`
}

// CurriculumEndpoint handles POST /api/curriculum: OCR the uploaded document,
// distill career facts, and generate a study curriculum.
type CurriculumEndpoint struct{}

var _ api.Endpoint = (*CurriculumEndpoint)(nil)

func (e *CurriculumEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/curriculum", e.handler
}

func (e *CurriculumEndpoint) RequiresInit() bool { return true }

func (e *CurriculumEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, status, err := readImageUpload(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	req, err := parseCurriculumRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	selector := svcctx.SelectorFrom(r.Context())
	orchestrator := svcctx.OrchestratorFrom(r.Context())
	if selector == nil || orchestrator == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	opts, err := ocrOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ocrResult, err := selector.ExtractText(r.Context(), data, opts)
	if err != nil {
		if errors.Is(err, ocr.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid image: %v", err))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("OCR failed: %v", err))
		return
	}
	text := ocrResult.Text

	// An optional insurance record image contributes employer evidence.
	if insurance, status, err := readOptionalImage(r, "insurance"); err != nil {
		writeError(w, status, err.Error())
		return
	} else if insurance != nil {
		insResult, err := selector.ExtractText(r.Context(), insurance, opts)
		if err != nil {
			if errors.Is(err, ocr.ErrInvalidImage) {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid insurance image: %v", err))
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("insurance OCR failed: %v", err))
			return
		}
		text = text + "\n" + insResult.Text
	}

	output, err := orchestrator.Generate(r.Context(), text, req)
	if err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("curriculum generation failed", "error", err)
		}
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CurriculumResponse{
		Text:            output.Text,
		JSON:            output.JSON,
		Facts:           output.Facts,
		SelectedVariant: ocrResult.SelectedVariant,
	})
}

func (e *CurriculumEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		weeks     int
		goal      string
		dependent string
		result    string
		format    string
		provider  string
	)
	cmd := &cobra.Command{
		Use:   "curriculum <image>",
		Short: "Generate a study curriculum from a document image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			fields := map[string]string{
				"weeks":     strconv.Itoa(weeks),
				"goal":      goal,
				"dependent": dependent,
				"result":    result,
				"format":    format,
				"provider":  provider,
			}
			var resp CurriculumResponse
			if err := client.PostFile(cmd.Context(), "/api/curriculum", args[0], fields, &resp); err != nil {
				return err
			}
			if len(resp.JSON) > 0 {
				// In json/yaml output mode, re-encode the document instead
				// of emitting it as one quoted string.
				if api.GetOutputFormat() != api.OutputFormatText {
					var doc any
					if err := json.Unmarshal(resp.JSON, &doc); err == nil {
						return api.Output(doc)
					}
				}
				return api.Output(string(resp.JSON))
			}
			return api.Output(resp.Text)
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 4, "Curriculum length in weeks")
	cmd.Flags().StringVar(&goal, "goal", "", "Career goal to steer the curriculum")
	cmd.Flags().StringVar(&dependent, "dependent", "auto", "Dependent coverage interpretation: auto, true, false")
	cmd.Flags().StringVar(&result, "result", "curriculum", "Result type: curriculum, subjects, all_subjects")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: auto, anthropic, lmstudio")
	return cmd
}

// parseCurriculumRequest validates the form selectors into a request.
func parseCurriculumRequest(r *http.Request) (curriculum.Request, error) {
	var req curriculum.Request

	if v := r.FormValue("weeks"); v != "" {
		weeks, err := strconv.Atoi(v)
		if err != nil || weeks < 1 || weeks > 52 {
			return req, fmt.Errorf("weeks must be between 1 and 52, got %q", v)
		}
		req.Weeks = weeks
	}
	req.Goal = r.FormValue("goal")

	dependent, err := curriculum.ParseDependentMode(r.FormValue("dependent"))
	if err != nil {
		return req, err
	}
	req.Dependent = dependent

	result, err := curriculum.ParseResultType(r.FormValue("result"))
	if err != nil {
		return req, err
	}
	req.Result = result

	format, err := curriculum.ParseFormat(r.FormValue("format"))
	if err != nil {
		return req, err
	}
	req.Format = format

	req.Provider = r.FormValue("provider")
	return req, nil
}

// malformedOutputResponse carries the raw model text so callers can debug
// schema failures without server-side log access.
type malformedOutputResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw"`
}

// writeUpstreamError maps provider and model-output failures to HTTP
// statuses: timeouts are gateway timeouts, unreachable or erroring providers
// are bad gateways, and schema-invalid model output is an internal error
// with the raw text attached.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var (
		timeoutErr    *providers.UpstreamTimeoutError
		statusErr     *providers.UpstreamStatusError
		connectionErr *providers.UpstreamConnectionError
		malformedErr  *curriculum.MalformedModelOutputError
	)
	switch {
	case errors.As(err, &timeoutErr):
		writeError(w, http.StatusGatewayTimeout,
			fmt.Sprintf("모델 응답 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요. (%s)", timeoutErr.Provider))
	case errors.As(err, &statusErr):
		writeError(w, http.StatusBadGateway,
			fmt.Sprintf("모델 서버가 오류를 반환했습니다. (%s, status %d)", statusErr.Provider, statusErr.StatusCode))
	case errors.As(err, &connectionErr):
		writeError(w, http.StatusBadGateway,
			fmt.Sprintf("모델 서버에 연결할 수 없습니다. (%s)", connectionErr.Provider))
	case errors.As(err, &malformedErr):
		writeJSON(w, http.StatusInternalServerError, malformedOutputResponse{
			Error: "모델이 유효한 형식의 응답을 생성하지 못했습니다.",
			Raw:   malformedErr.Raw,
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
