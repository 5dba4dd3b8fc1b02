package enrich

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	youtubeBaseURL = "https://www.googleapis.com/youtube/v3/search"
	youtubeWatch   = "https://www.youtube.com/watch?v="

	// sufijo fijo que agregamos a la búsqueda para no traer clips random
	trailerSuffix = " official trailer"
)

// YouTubeClient busca el trailer oficial de una película con la API de
// búsqueda de YouTube (un solo resultado, tipo video).
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewYouTubeClient(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: youtubeBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (c *YouTubeClient) Fetch(ctx context.Context, title string) (string, bool) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", title+trailerSuffix)
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[youtube] error buscando trailer de %q: %v", title, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var data youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", false
	}

	if len(data.Items) == 0 || data.Items[0].ID.VideoID == "" {
		return "", false
	}
	return youtubeWatch + data.Items[0].ID.VideoID, true
}
