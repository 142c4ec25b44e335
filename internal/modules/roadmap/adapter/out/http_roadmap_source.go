package out

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kgview/internal/modules/roadmap/domain"
	apperrors "kgview/internal/platform/errors"
)

const maxRoadmapBytes = 4 << 20

// HTTPRoadmapSource calls the roadmap generation endpoint with the query in
// the "query" parameter.
type HTTPRoadmapSource struct {
	client   *http.Client
	endpoint string
}

func NewHTTPRoadmapSource(client *http.Client, endpoint string) HTTPRoadmapSource {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return HTTPRoadmapSource{client: client, endpoint: endpoint}
}

type roadmapResponse struct {
	Roadmap *struct {
		LearningRoadmap *[]roadmapItem `json:"learning_roadmap"`
	} `json:"roadmap"`
}

type roadmapItem struct {
	Entity       string  `json:"entity1"`
	Relationship string  `json:"relationship"`
	Priority     priority `json:"priority"`
}

// priority accepts numbers and numeric strings. Anything else decodes to 0,
// which is outside the palette and renders in the fallback colour.
type priority int

func (p *priority) UnmarshalJSON(data []byte) error {
	*p = 0
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	*p = priority(math.Round(f))
	return nil
}

func (s HTTPRoadmapSource) Generate(ctx context.Context, query string) (domain.Roadmap, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil || s.endpoint == "" {
		return domain.Roadmap{}, fmt.Errorf("%w: roadmap endpoint %q", apperrors.ErrInvalidInput, s.endpoint)
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Roadmap{}, fmt.Errorf("build roadmap request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Roadmap{}, fmt.Errorf("%w: request roadmap: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRoadmapBytes))
	if err != nil {
		return domain.Roadmap{}, fmt.Errorf("%w: read roadmap: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Roadmap{}, fmt.Errorf("%w: roadmap service returned %s", apperrors.ErrUpstream, resp.Status)
	}

	var decoded roadmapResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return domain.Roadmap{}, fmt.Errorf("%w: decode roadmap: %v", apperrors.ErrUpstream, err)
	}
	if decoded.Roadmap == nil || decoded.Roadmap.LearningRoadmap == nil {
		return domain.Roadmap{}, fmt.Errorf("%w: roadmap response has no learning_roadmap", apperrors.ErrUpstream)
	}
	items := make([]domain.Item, 0, len(*decoded.Roadmap.LearningRoadmap))
	for _, it := range *decoded.Roadmap.LearningRoadmap {
		items = append(items, domain.Item{
			Entity:       strings.TrimSpace(it.Entity),
			Relationship: strings.TrimSpace(it.Relationship),
			Priority:     int(it.Priority),
		})
	}
	return domain.Roadmap{Query: query, Items: items}, nil
}
