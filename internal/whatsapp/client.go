package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/imobflow/imob-crm-api/internal/metrics"
)

// Estados da instância depois de normalizados (o gateway fala open/close)
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
)

// ErrDisconnected indica que a instância não está conectada ao WhatsApp.
// Os jobs sequenciais abortam quando o recebem.
var ErrDisconnected = errors.New("whatsapp: instância desconectada")

// Client fala com o gateway externo de WhatsApp. Toda chamada é escopada na
// instância configurada e autenticada pelo header apikey.
type Client struct {
	baseURL  string
	apiKey   string
	instance string
	http     *http.Client
	logger   zerolog.Logger
}

func NewClient(baseURL, apiKey, instance string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		instance: instance,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (c *Client) Instance() string {
	return c.instance
}

// ── Payloads do gateway ───────────────────────────────────────────

type connectionStateResponse struct {
	Instance struct {
		State string `json:"state"`
	} `json:"instance"`
}

type checkNumbersRequest struct {
	Numbers []string `json:"numbers"`
}

type checkNumberResult struct {
	Exists bool   `json:"exists"`
	JID    string `json:"jid"`
	Number string `json:"number"`
}

type profilePictureRequest struct {
	Number string `json:"number"`
}

type profilePictureResponse struct {
	ProfilePictureURL string `json:"profilePictureUrl"`
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// ── Operações ─────────────────────────────────────────────────────

// ConnectionState consulta o estado da instância e o normaliza
// (open → connected, close → disconnected).
func (c *Client) ConnectionState(ctx context.Context) (string, error) {
	var out connectionStateResponse
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+c.instance, nil, &out); err != nil {
		metrics.RecordGatewayRequest("connection_state", "error")
		return StateDisconnected, err
	}
	metrics.RecordGatewayRequest("connection_state", "ok")

	switch out.Instance.State {
	case "open":
		return StateConnected, nil
	case "connecting":
		return StateConnecting, nil
	default:
		return StateDisconnected, nil
	}
}

// EnsureConnected devolve ErrDisconnected quando a instância não está aberta
func (c *Client) EnsureConnected(ctx context.Context) (string, error) {
	state, err := c.ConnectionState(ctx)
	if err != nil {
		return state, err
	}
	if state != StateConnected {
		return state, ErrDisconnected
	}
	return state, nil
}

// CheckNumber verifica se o número tem conta de WhatsApp
func (c *Client) CheckNumber(ctx context.Context, number string) (bool, error) {
	var out []checkNumberResult
	payload := checkNumbersRequest{Numbers: []string{number}}

	if err := c.do(ctx, http.MethodPost, "/chat/whatsappNumbers/"+c.instance, payload, &out); err != nil {
		metrics.RecordGatewayRequest("check_number", "error")
		return false, err
	}
	metrics.RecordGatewayRequest("check_number", "ok")

	if len(out) == 0 {
		return false, nil
	}
	return out[0].Exists, nil
}

// ProfilePictureURL busca a URL da foto de perfil; vazio quando o número
// não tem foto ou a privacidade esconde
func (c *Client) ProfilePictureURL(ctx context.Context, number string) (string, error) {
	var out profilePictureResponse
	payload := profilePictureRequest{Number: number}

	if err := c.do(ctx, http.MethodPost, "/chat/fetchProfilePictureUrl/"+c.instance, payload, &out); err != nil {
		metrics.RecordGatewayRequest("profile_picture", "error")
		return "", err
	}
	metrics.RecordGatewayRequest("profile_picture", "ok")

	return out.ProfilePictureURL, nil
}

// SendText envia uma mensagem de texto para o número
func (c *Client) SendText(ctx context.Context, number, text string) error {
	payload := sendTextRequest{Number: number, Text: text}

	if err := c.do(ctx, http.MethodPost, "/message/sendText/"+c.instance, payload, nil); err != nil {
		metrics.RecordGatewayRequest("send_text", "error")
		return err
	}
	metrics.RecordGatewayRequest("send_text", "ok")
	return nil
}

// FetchImage baixa a foto de perfil a partir da URL devolvida pelo gateway.
// Limite de 10 MB por download.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: criar request da foto: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: baixar foto: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: download da foto retornou %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}

// ── HTTP ──────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("whatsapp: serializar request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("whatsapp: criar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf(
			"whatsapp: %s %s retornou %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("whatsapp: decodificar resposta: %w", err)
		}
	}

	return nil
}
