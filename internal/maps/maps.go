// maps.go
package maps

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pedidos-service/internal/geo"
)

// Cliente del servicio de mapas estáticos. Sólo arma URLs y baja imágenes
// para mostrar el destino; el punto-en-polígono se resuelve localmente.
type StaticMapClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewStaticMapClient(baseURL, apiKey string) *StaticMapClient {
	return &StaticMapClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// URL devuelve la URL de la imagen del mapa centrado en el destino.
func (m *StaticMapClient) URL(pt geo.Point, zoom int) string {
	q := url.Values{}
	q.Set("center", fmt.Sprintf("%f,%f", pt.Lat, pt.Lng))
	q.Set("zoom", fmt.Sprintf("%d", zoom))
	q.Set("size", "600x300")
	q.Set("markers", fmt.Sprintf("%f,%f", pt.Lat, pt.Lng))
	if m.apiKey != "" {
		q.Set("key", m.apiKey)
	}
	return m.baseURL + "?" + q.Encode()
}

// Fetch baja la imagen del mapa (para cachearla o servirla directo).
func (m *StaticMapClient) Fetch(pt geo.Point, zoom int) ([]byte, error) {
	resp, err := m.client.Get(m.URL(pt, zoom))
	if err != nil {
		return nil, fmt.Errorf("maps request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("maps service respondió %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
