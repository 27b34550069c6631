package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipquery/geolookup/internal/logger"
	"github.com/ipquery/geolookup/internal/models"
)

// DefaultIPAPIBaseURL is the ip-api.com endpoint (free tier is HTTP only)
const DefaultIPAPIBaseURL = "http://ip-api.com"

// ipAPIFields is the fixed field list requested on every lookup
const ipAPIFields = "status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,query"

// ipAPIResponse mirrors the ip-api.com JSON response
// (see http://ip-api.com/docs/api:json)
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Query       string  `json:"query"`
}

// IPAPIClient looks up geolocation data via ip-api.com.
// This is the default provider.
type IPAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewIPAPIClient creates an ip-api.com client.
// Empty baseURL and non-positive timeout fall back to the defaults.
func NewIPAPIClient(baseURL string, timeout time.Duration, log *logger.Logger) *IPAPIClient {
	if baseURL == "" {
		baseURL = DefaultIPAPIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithComponent("IPAPIClient"),
	}
}

// Name implements the Provider interface
func (c *IPAPIClient) Name() string {
	return "ipapi"
}

// Lookup queries ip-api.com and maps the response into the fixed GeoInfo
// shape. Missing fields become "Unknown" (or 0 for coordinates).
func (c *IPAPIClient) Lookup(ctx context.Context, ip string) (*models.GeoInfo, error) {
	lookupURL := fmt.Sprintf("%s/json/%s?fields=%s", c.baseURL, url.PathEscape(ip), ipAPIFields)

	c.logger.Debug().Str("ip", ip).Str("url", lookupURL).Msg("Querying geolocation provider")

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

	var apiResp ipAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Non-2xx without a parseable body is a transport-level problem
			return nil, NetworkFailure(fmt.Sprintf("geolocation API returned status %d", resp.StatusCode), err)
		}
		return nil, ParseFailure("invalid response from geolocation API", err)
	}

	// ip-api reports failures (reserved ranges, bad queries) in-band with
	// HTTP 200 and status != "success"
	if apiResp.Status != "success" {
		message := apiResp.Message
		if message == "" {
			message = "Unknown error from geolocation API"
		}
		return nil, ProviderError("geolocation API error: "+message, nil)
	}

	return &models.GeoInfo{
		Country:      orUnknown(apiResp.Country),
		CountryCode:  orUnknown(apiResp.CountryCode),
		Region:       orUnknown(apiResp.RegionName),
		RegionCode:   orUnknown(apiResp.Region),
		City:         orUnknown(apiResp.City),
		ZipCode:      orUnknown(apiResp.Zip),
		Latitude:     apiResp.Lat,
		Longitude:    apiResp.Lon,
		Timezone:     orUnknown(apiResp.Timezone),
		ISP:          orUnknown(apiResp.ISP),
		Organization: orUnknown(apiResp.Org),
		ASInfo:       orUnknown(apiResp.AS),
	}, nil
}
