package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "applyform/pkg/domain-errors"
)

const defaultTimeout = 30 * time.Second

// HTTPRenderer calls a rendering service over HTTP: it posts the request as
// JSON and reads the PDF bytes back.
type HTTPRenderer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRenderer(baseURL string) *HTTPRenderer {
	return &HTTPRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "encode render request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(payload))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "build render request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "call renderer")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, dErrors.Wrap(
			fmt.Errorf("renderer returned %d: %s", resp.StatusCode, body),
			dErrors.CodeRender, "render document")
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "read rendered document")
	}
	if len(pdf) == 0 {
		return nil, dErrors.New(dErrors.CodeRender, "renderer returned an empty document")
	}
	return pdf, nil
}

var _ Renderer = (*HTTPRenderer)(nil)
