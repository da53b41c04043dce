// Package apitest fiber handler testleri için istek yardımcıları içerir.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// NewApp üretimdeki hata gövdesini ({"error": ...}) taklit eden bir fiber app döner.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
}

// Do isteği çalıştırır, durum kodunu ve gövdeyi döner. body nil değilse JSON
// olarak gönderilir; token boş değilse Bearer olarak eklenir.
func Do(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// DoJSON isteği çalıştırır, beklenen durum kodunu doğrular ve gövdeyi out'a çözer.
func DoJSON(t *testing.T, app *fiber.App, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	status, raw := Do(t, app, method, path, body, "")
	require.Equal(t, wantStatus, status, "gövde: %s", raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "gövde: %s", raw)
	}
}

