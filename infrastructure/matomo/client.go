// ABOUTME: Matomo reporting API client for page visit counts
// ABOUTME: Issues Actions.getPageUrl range queries and extracts nb_visits from the first row

package matomo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	coreerrors "mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"
)

const apiName = "matomo"

// maxBodySize bounds the response read; a single-row report is tiny
const maxBodySize = 1 << 20

// Client implements interfaces.AnalyticsClient
type Client struct {
	http    interfaces.HTTPClient
	logger  interfaces.Logger
	baseURL string
	siteID  int
	token   string
}

// NewClient creates a Matomo client. baseURL is normalized to end with a slash.
func NewClient(httpClient interfaces.HTTPClient, logger interfaces.Logger, baseURL string, siteID int, token string) *Client {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		http:    httpClient,
		logger:  logger,
		baseURL: baseURL,
		siteID:  siteID,
		token:   token,
	}
}

// QueryURL builds the Actions.getPageUrl request URL for q
func (c *Client) QueryURL(q interfaces.PageVisitsQuery) string {
	params := url.Values{}
	params.Set("module", "API")
	params.Set("method", "Actions.getPageUrl")
	params.Set("idSite", strconv.Itoa(c.siteID))
	params.Set("token_auth", c.token)
	params.Set("pageUrl", q.PageURL)
	params.Set("period", "range")
	params.Set("date", "last"+strconv.Itoa(q.Days))
	params.Set("format", "json")

	return c.baseURL + "index.php?" + params.Encode()
}

// PageVisits returns nb_visits of the first report row for the page
func (c *Client) PageVisits(ctx context.Context, q interfaces.PageVisitsQuery) (int64, error) {
	if q.PageURL == "" || q.Days <= 0 {
		return 0, &coreerrors.ValidationError{Field: "query", Message: "page URL and days are required"}
	}

	resp, err := c.http.Get(ctx, c.QueryURL(q))
	if err != nil {
		return 0, coreerrors.WrapError(err, "matomo request")
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return 0, &coreerrors.ExternalAPIError{
			API:        apiName,
			StatusCode: resp.StatusCode(),
			Message:    "unexpected status",
		}
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return 0, coreerrors.WrapError(err, "read matomo response")
	}

	visits, err := parseVisits(data)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("Matomo page visits", map[string]interface{}{
		"page_url": q.PageURL,
		"days":     q.Days,
		"visits":   visits,
	})

	return visits, nil
}

type row struct {
	Visits *json.Number `json:"nb_visits"`
}

type apiError struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// parseVisits reads nb_visits from the first element of a report array.
// Matomo reports failures as a JSON object with result "error".
func parseVisits(data []byte) (int64, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var e apiError
		if err := json.Unmarshal(data, &e); err == nil && e.Result == "error" {
			return 0, &coreerrors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: e.Message}
		}
		return 0, &coreerrors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "unexpected response object"}
	}

	var rows []row
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return 0, &coreerrors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len(rows) == 0 || rows[0].Visits == nil {
		return 0, &coreerrors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "nb_visits missing"}
	}

	visits, err := rows[0].Visits.Int64()
	if err != nil {
		f, ferr := rows[0].Visits.Float64()
		if ferr != nil {
			return 0, &coreerrors.ExternalAPIError{API: apiName, StatusCode: http.StatusOK, Message: "nb_visits is not a number"}
		}
		visits = int64(f)
	}
	if visits < 0 {
		visits = 0
	}
	return visits, nil
}
