package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/certs"
	"github.com/every-mentor/mentorai/internal/svcctx"
)

// ResolveRequest carries candidate certificate names to resolve. Text, when
// set, is scanned for title candidates before resolution; Names are resolved
// as given.
type ResolveRequest struct {
	Names []string `json:"names,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// ResolveResult is one resolution plus the subject line when the canonical
// certificate is in the taxonomy.
type ResolveResult struct {
	certs.Resolution
	SubjectLine string `json:"subject_line,omitempty"`
}

// ResolveResponse lists one resolution per candidate.
type ResolveResponse struct {
	Resolutions []ResolveResult `json:"resolutions"`
}

// ResolveEndpoint handles POST /api/certificates/resolve.
type ResolveEndpoint struct{}

var _ api.Endpoint = (*ResolveEndpoint)(nil)

func (e *ResolveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/certificates/resolve", e.handler
}

func (e *ResolveEndpoint) RequiresInit() bool { return true }

func (e *ResolveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Names) == 0 && strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "names or text is required")
		return
	}

	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "resolver not initialized")
		return
	}

	candidates := req.Names
	if req.Text != "" {
		candidates = append(candidates, certs.ExtractTitleCandidates(req.Text)...)
	}

	resp := ResolveResponse{Resolutions: make([]ResolveResult, 0, len(candidates))}
	for _, name := range candidates {
		res := ResolveResult{Resolution: resolver.Resolve(name)}
		if res.Resolved() {
			if entry, ok := resolver.Taxonomy().Lookup(res.Canonical); ok {
				res.SubjectLine = entry.SubjectLine()
			}
		}
		resp.Resolutions = append(resp.Resolutions, res)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ResolveEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name> [name...]",
		Short: "Resolve certificate names against the taxonomy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ResolveResponse
			if err := client.Post(cmd.Context(), "/api/certificates/resolve", ResolveRequest{Names: args}, &resp); err != nil {
				return err
			}
			for _, res := range resp.Resolutions {
				if res.Resolved() {
					fmt.Printf("%s -> %s (%s)\n", res.Input, res.Canonical, res.Source)
					if res.SubjectLine != "" {
						fmt.Printf("  %s\n", res.SubjectLine)
					}
				} else {
					fmt.Printf("%s -> unresolved\n", res.Input)
				}
			}
			return nil
		},
	}
}
