package out

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"kgview/internal/modules/graph/domain"
	apperrors "kgview/internal/platform/errors"
)

const uploadField = "file"

// HTTPGraphGenerator posts a PDF as multipart form data to the
// knowledge-graph generation endpoint and decodes the JSON tree it returns.
type HTTPGraphGenerator struct {
	endpoint string
	client   *http.Client
	codec    TreeCodec
}

func NewHTTPGraphGenerator(endpoint string, client *http.Client, codec TreeCodec) HTTPGraphGenerator {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return HTTPGraphGenerator{endpoint: endpoint, client: client, codec: codec}
}

func (g HTTPGraphGenerator) Generate(ctx context.Context, pdfPath string) (domain.RawTree, error) {
	if g.endpoint == "" {
		return domain.RawTree{}, fmt.Errorf("%w: graph endpoint is not configured", apperrors.ErrInvalidInput)
	}
	f, err := os.Open(pdfPath)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		part, err := form.CreateFormFile(uploadField, filepath.Base(pdfPath))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.Close()
		}
		writer.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, body)
	if err != nil {
		body.Close()
		return domain.RawTree{}, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%w: generate graph: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return domain.RawTree{}, err
	}
	value, err := g.codec.Decode(FormatJSON, data)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%w: generated graph: %v", apperrors.ErrUpstream, err)
	}
	return domain.RawTree{
		Key:    "generated:" + filepath.Base(pdfPath),
		Digest: domain.Digest(data),
		Value:  value,
	}, nil
}
