package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/company"
	"github.com/every-mentor/mentorai/internal/svcctx"
	"github.com/every-mentor/mentorai/internal/textnorm"
)

// ExtractCompaniesRequest carries insurance or employment record text.
type ExtractCompaniesRequest struct {
	Text string `json:"text"`
}

// ExtractCompaniesResponse lists ranked employer candidates.
type ExtractCompaniesResponse struct {
	Companies []company.Candidate `json:"companies"`
}

// ExtractCompaniesEndpoint handles POST /api/companies/extract.
type ExtractCompaniesEndpoint struct{}

var _ api.Endpoint = (*ExtractCompaniesEndpoint)(nil)

func (e *ExtractCompaniesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/companies/extract", e.handler
}

func (e *ExtractCompaniesEndpoint) RequiresInit() bool { return true }

func (e *ExtractCompaniesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ExtractCompaniesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	extractor := svcctx.ExtractorFrom(r.Context())
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extractor not initialized")
		return
	}

	// Mask before extraction so resident numbers never enter candidates.
	candidates := extractor.Extract(textnorm.MaskSensitiveText(req.Text))

	writeJSON(w, http.StatusOK, ExtractCompaniesResponse{Companies: candidates})
}

func (e *ExtractCompaniesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "companies <text>",
		Short: "Extract employer candidates from record text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ExtractCompaniesResponse
			if err := client.Post(cmd.Context(), "/api/companies/extract", ExtractCompaniesRequest{Text: args[0]}, &resp); err != nil {
				return err
			}
			for _, c := range resp.Companies {
				fmt.Printf("%s (freq %d, score %d)\n", c.Name, c.Frequency, c.Score)
			}
			return nil
		},
	}
}
