package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/models"
)

// DefaultIPInfoBaseURL is the ipinfo.io endpoint
const DefaultIPInfoBaseURL = "https://ipinfo.io"

// ipInfoResponse mirrors the ipinfo.io JSON response.
// Coordinates come as a single "lat,lon" string in the loc field.
type ipInfoResponse struct {
	Country  string `json:"country"`
	Region   string `json:"region"`
	City     string `json:"city"`
	Postal   string `json:"postal"`
	Loc      string `json:"loc"`
	Timezone string `json:"timezone"`
	Org      string `json:"org"`
}

// IPInfoClient looks up geolocation data via ipinfo.io.
// Alternate provider, selected with GEO_PROVIDER=ipinfo. The free tier
// works without a token but is heavily throttled; pass a token for
// production use.
type IPInfoClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewIPInfoClient creates an ipinfo.io client.
// Empty baseURL and non-positive timeout fall back to the defaults;
// token may be empty.
func NewIPInfoClient(baseURL, token string, timeout time.Duration, log *logger.Logger) *IPInfoClient {
	if baseURL == "" {
		baseURL = DefaultIPInfoBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPInfoClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("IPInfoClient"),
	}
}

// Name implements the Provider interface
func (c *IPInfoClient) Name() string {
	return "ipinfo"
}

// Lookup queries ipinfo.io and maps the response into the fixed GeoInfo
// shape. ipinfo returns a subset of the fields ip-api does; everything it
// does not report is rendered as "Unknown". Its country field holds the
// ISO code, which is kept under country to match the original mapping.
func (c *IPInfoClient) Lookup(ctx context.Context, ip string) (*models.GeoInfo, error) {
	lookupURL := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(ip))
	if c.token != "" {
		lookupURL += "?token=" + url.QueryEscape(c.token)
	}

	c.logger.Debug().Str("ip", ip).Msg("Querying geolocation provider")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, NetworkFailure("network error while fetching geolocation", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NetworkFailure("network error while fetching geolocation", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NetworkFailure("network error while fetching geolocation", err)
	}

	// ipinfo reports failures (bogus IPs, quota exceeded) via status codes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ProviderError(fmt.Sprintf("geolocation API error: status %d", resp.StatusCode), nil)
	}

	var apiResp ipInfoResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, ParseFailure("invalid response from geolocation API", err)
	}

	lat, lon, err := splitLoc(apiResp.Loc)
	if err != nil {
		return nil, ParseFailure("invalid response from geolocation API", err)
	}

	return &models.GeoInfo{
		Country:      orUnknown(apiResp.Country),
		CountryCode:  unknownValue,
		Region:       orUnknown(apiResp.Region),
		RegionCode:   unknownValue,
		City:         orUnknown(apiResp.City),
		ZipCode:      orUnknown(apiResp.Postal),
		Latitude:     lat,
		Longitude:    lon,
		Timezone:     orUnknown(apiResp.Timezone),
		ISP:          orUnknown(apiResp.Org),
		Organization: unknownValue,
		ASInfo:       unknownValue,
	}, nil
}

// splitLoc parses ipinfo's combined "lat,lon" coordinate string.
// An absent loc yields 0,0.
func splitLoc(loc string) (lat, lon float64, err error) {
	if loc == "" {
		return 0, 0, nil
	}

	parts := strings.Split(loc, ",")

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed loc field %q: %w", loc, err)
	}

	if len(parts) > 1 {
		lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("malformed loc field %q: %w", loc, err)
		}
	}

	return lat, lon, nil
}
