package out

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"kgview/internal/modules/graph/domain"
	apperrors "kgview/internal/platform/errors"
)

const maxTreeBytes = 16 << 20

// HTTPTreeSource fetches a tree document with a GET request. The response
// Content-Type picks the decoder, falling back to the URL extension.
type HTTPTreeSource struct {
	client *http.Client
	codec  TreeCodec
}

func NewHTTPTreeSource(client *http.Client, codec TreeCodec) HTTPTreeSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return HTTPTreeSource{client: client, codec: codec}
}

func (s HTTPTreeSource) Supports(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (s HTTPTreeSource) Fetch(ctx context.Context, source string) (domain.RawTree, error) {
	u, err := url.Parse(source)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%w: tree url: %v", apperrors.ErrInvalidInput, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("build tree request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%w: fetch tree: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return domain.RawTree{}, err
	}
	hint := resp.Header.Get("Content-Type")
	if format, ok := FormatOf(hint); !ok || format == "" {
		hint = path.Ext(u.Path)
	}
	value, err := s.codec.Decode(hint, data)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%s: %w", source, err)
	}
	return domain.RawTree{Key: source, Digest: domain.Digest(data), Value: value}, nil
}

// readBody returns the body of a 2xx response and maps any other status
// to ErrUpstream.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTreeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", apperrors.ErrUpstream, resp.Request.URL.Redacted(), resp.Status)
	}
	if len(data) > maxTreeBytes {
		return nil, fmt.Errorf("%w: response larger than %d bytes", apperrors.ErrUpstream, maxTreeBytes)
	}
	return data, nil
}
