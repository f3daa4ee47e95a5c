package endpoints

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/svcctx"
)

// SubjectsResponse lists subject lines for every certification in the
// taxonomy, in table order.
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

// SubjectsEndpoint handles GET /api/subjects.
type SubjectsEndpoint struct{}

var _ api.Endpoint = (*SubjectsEndpoint)(nil)

func (e *SubjectsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/subjects", e.handler
}

func (e *SubjectsEndpoint) RequiresInit() bool { return true }

func (e *SubjectsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.ResolverFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "resolver not initialized")
		return
	}
	writeJSON(w, http.StatusOK, SubjectsResponse{
		Subjects: resolver.Taxonomy().AllSubjectLines(),
	})
}

func (e *SubjectsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List exam subjects for all known certifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SubjectsResponse
			if err := client.Get(cmd.Context(), "/api/subjects", &resp); err != nil {
				return err
			}
			return api.Output(strings.Join(resp.Subjects, "\n"))
		},
	}
}
