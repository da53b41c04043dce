package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"acente-backend/internal/finance"
)

// Rate kaynağın döndüğü tek kur. Değerler bazı kaynaklarda metin olarak gelir.
type Rate struct {
	Code    string              `json:"code"`
	Name    string              `json:"name"`
	Buying  finance.LooseAmount `json:"buying"`
	Selling finance.LooseAmount `json:"selling"`
}

type Snapshot struct {
	Rates       []Rate `json:"rates"`
	LastUpdated string `json:"lastUpdated"`
}

// Client TRY bazlı kur kaynağını okur.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("kur isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kur kaynağına ulaşılamadı: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kur kaynağı hata döndü: %d %s", resp.StatusCode, body)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("kur yanıtı çözülemedi: %w", err)
	}
	if len(snap.Rates) == 0 {
		return nil, fmt.Errorf("kur kaynağı boş liste döndü")
	}
	return &snap, nil
}
