package enrich

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

const omdbBaseURL = "http://www.omdbapi.com/"

// OMDBClient busca el póster de una película en OMDb por título exacto.
type OMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOMDBClient(apiKey string) *OMDBClient {
	return &OMDBClient{
		apiKey:  apiKey,
		baseURL: omdbBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// omdbResponse es el subset de la respuesta que nos interesa. OMDb manda
// "N/A" como placeholder cuando no tiene póster.
type omdbResponse struct {
	Poster string `json:"Poster"`
}

func (c *OMDBClient) Fetch(ctx context.Context, title string) (string, bool) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[omdb] error consultando póster de %q: %v", title, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var data omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", false
	}

	if data.Poster == "" || data.Poster == "N/A" {
		log.Printf("[omdb] sin póster para %q", title)
		return "", false
	}
	return data.Poster, true
}
