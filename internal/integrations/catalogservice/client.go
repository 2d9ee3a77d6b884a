package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с каталогом услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу с вариантами цены
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	var service Service
	if err := c.get(ctx, url, &service); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &service, nil
}

// GetPlatformFeePercent получает текущий процент комиссии платформы
func (c *Client) GetPlatformFeePercent(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/internal/fees/platform", c.baseURL)

	var fee PlatformFee
	if err := c.get(ctx, url, &fee); err != nil {
		if errors.Is(err, errNotFound) {
			return 0, fmt.Errorf("%w: platform fee is not configured", ErrInvalidResponse)
		}
		return 0, err
	}

	if fee.Percent < 0 || fee.Percent > 100 {
		return 0, fmt.Errorf("%w: platform fee %.2f is out of range", ErrInvalidResponse, fee.Percent)
	}

	return fee.Percent, nil
}

// GetPlatformFeePercentWithGracefulDegradation получает комиссию платформы с graceful degradation
// При недоступности каталога возвращает ErrServiceDegraded, что позволяет использовать комиссию из конфигурации
func (c *Client) GetPlatformFeePercentWithGracefulDegradation(ctx context.Context) (float64, error) {
	percent, err := c.GetPlatformFeePercent(ctx)
	if err != nil {
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("CatalogService unavailable, applying graceful degradation for platform fee: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}

	return percent, nil
}

var errNotFound = errors.New("catalogservice client: not found")

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return errNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
