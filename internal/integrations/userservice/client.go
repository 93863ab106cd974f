package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetRole возвращает роль пользователя
func (c *Client) GetRole(ctx context.Context, userID int64) (domain.Role, error) {
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)

	var user User
	if err := c.get(ctx, url, ErrUserNotFound, &user); err != nil {
		return "", err
	}

	role := domain.Role(user.Role)
	switch role {
	case domain.RolePatient, domain.RoleProfessional, domain.RoleAdmin:
		return role, nil
	default:
		c.log.Warn("GetRole: user_id=%d has unknown role %q", userID, user.Role)
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, user.Role)
	}
}

// GetActor возвращает пользователя с ролью
func (c *Client) GetActor(ctx context.Context, userID int64) (domain.Actor, error) {
	role, err := c.GetRole(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{ID: userID, Role: role}, nil
}

// ListProfessionalsBySpecialty возвращает ID специалистов специальности
func (c *Client) ListProfessionalsBySpecialty(ctx context.Context, specialtyID int64) ([]int64, error) {
	url := fmt.Sprintf("%s/internal/specialties/%d/professionals", c.baseURL, specialtyID)

	var resp SpecialtyProfessionals
	if err := c.get(ctx, url, ErrSpecialtyNotFound, &resp); err != nil {
		return nil, err
	}

	if resp.ProfessionalIDs == nil {
		return []int64{}, nil
	}

	c.log.Info("ListProfessionalsBySpecialty: specialty_id=%d, professionals=%d", specialtyID, len(resp.ProfessionalIDs))
	return resp.ProfessionalIDs, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
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
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
