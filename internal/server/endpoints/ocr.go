package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/ocr"
	"github.com/every-mentor/mentorai/internal/svcctx"
	"github.com/every-mentor/mentorai/internal/textnorm"
)

// maxUploadMemory bounds in-memory multipart parsing. Document scans are
// a few MB each; anything larger spills to disk.
const maxUploadMemory = 32 << 20 // 32MB

// OCRResponse is the response for the OCR endpoint.
type OCRResponse struct {
	Text            string          `json:"text"`
	Engine          string          `json:"engine"`
	SelectedVariant string          `json:"selected_variant"`
	Candidates      []ocr.Candidate `json:"candidates"`
	Masked          bool            `json:"masked"`
}

// OCREndpoint handles POST /api/ocr with a multipart image upload.
type OCREndpoint struct{}

var _ api.Endpoint = (*OCREndpoint)(nil)

func (e *OCREndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/ocr", e.handler
}

func (e *OCREndpoint) RequiresInit() bool { return true }

func (e *OCREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, status, err := readImageUpload(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	mask := r.FormValue("mask") != "false"

	opts, err := ocrOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	selector := svcctx.SelectorFrom(r.Context())
	if selector == nil {
		writeError(w, http.StatusServiceUnavailable, "OCR selector not initialized")
		return
	}

	result, err := selector.ExtractText(r.Context(), data, opts)
	if err != nil {
		switch {
		case errors.Is(err, ocr.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid image: %v", err))
		case errors.Is(err, ocr.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "empty file")
		default:
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("OCR failed: %v", err))
		}
		return
	}

	text := result.Text
	if mask {
		text = textnorm.MaskSensitiveText(text)
	}

	writeJSON(w, http.StatusOK, OCRResponse{
		Text:            text,
		Engine:          result.Engine,
		SelectedVariant: result.SelectedVariant,
		Candidates:      result.Candidates,
		Masked:          mask,
	})
}

func (e *OCREndpoint) Command(getServerURL func() string) *cobra.Command {
	var noMask bool
	cmd := &cobra.Command{
		Use:   "ocr <image>",
		Short: "OCR a document image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			fields := map[string]string{}
			if noMask {
				fields["mask"] = "false"
			}
			var resp OCRResponse
			if err := client.PostFile(cmd.Context(), "/api/ocr", args[0], fields, &resp); err != nil {
				return err
			}
			return api.Output(resp.Text)
		},
	}
	cmd.Flags().BoolVar(&noMask, "no-mask", false, "Return text without masking resident numbers")
	return cmd
}

// readImageUpload parses the multipart form and returns the uploaded image
// bytes. The declared content type must be an image; a wrong type is 415,
// a missing or empty file is 400.
func readImageUpload(r *http.Request) ([]byte, int, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to parse form: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("missing file field: %v", err)
	}
	defer file.Close()

	ct := header.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" && !strings.HasPrefix(ct, "image/") {
		return nil, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type: %s", ct)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read upload: %v", err)
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, errors.New("empty file")
	}

	return data, 0, nil
}

// readOptionalImage returns the bytes of an extra named image field, or nil
// when the field is absent. Assumes the multipart form is already parsed.
func readOptionalImage(r *http.Request, field string) ([]byte, int, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, 0, nil
	}
	fh := r.MultipartForm.File[field][0]

	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" && !strings.HasPrefix(ct, "image/") {
		return nil, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type for %s: %s", field, ct)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to open %s upload: %v", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read %s upload: %v", field, err)
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, fmt.Errorf("empty %s file", field)
	}

	return data, 0, nil
}

// ocrOptions builds engine options from the live config, with per-request
// form overrides for lang, psm, oem, and dpi.
func ocrOptions(r *http.Request) (ocr.Options, error) {
	opts := ocr.Options{Lang: "kor+eng", PageSegMode: 4, EngineMode: 1, DPI: 300}
	if mgr := svcctx.ConfigFrom(r.Context()); mgr != nil {
		c := mgr.Get().OCR
		opts.Lang = c.Lang
		opts.PageSegMode = c.PSM
		opts.EngineMode = c.OEM
		opts.DPI = c.DPI
	}

	if v := r.FormValue("lang"); v != "" {
		opts.Lang = v
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"psm", &opts.PageSegMode},
		{"oem", &opts.EngineMode},
		{"dpi", &opts.DPI},
	} {
		v := r.FormValue(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("%s must be a non-negative integer, got %q", p.name, v)
		}
		*p.dst = n
	}

	return opts, nil
}
