package gotenberg

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
)

// Client клиент Gotenberg для конвертации DOCX договоров в PDF
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		MaxConnsPerHost:     100,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// ConvertDocxToPDF отправляет DOCX в Gotenberg и возвращает байты PDF
func (c *Client) ConvertDocxToPDF(docxPath string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.ConversionRequestDuration.WithLabelValues("gotenberg", "convert").Observe(time.Since(start).Seconds())
	}()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(docxPath)
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("files", filepath.Base(docxPath))
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/forms/libreoffice/convert", body)
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", strconv.Itoa(resp.StatusCode)).Inc()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("conversion failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "error").Inc()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	metrics.ConversionRequestsTotal.WithLabelValues("gotenberg", "success").Inc()
	return pdf, nil
}

// HealthCheck выполняет проверку здоровья сервиса Gotenberg
func (c *Client) HealthCheck() error {
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status code %d", resp.StatusCode)
	}
	return nil
}
