package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercadillo/pkg/errors"
	"mercadillo/pkg/logger"
)

const StatusSucceeded = "succeeded"

// Card holds the details the user typed into the payment form. Never
// persisted; it only travels to the processor.
type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
}

// Intent mirrors the processor's payment-intent object.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_payment_error,omitempty"`
}

// Gateway talks to the card processor with the publishable key. Intents are
// created server-side; the client only confirms them and reads back the
// status string.
type Gateway struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
}

func NewGateway(baseURL, publishableKey string) *Gateway {
	return &Gateway{
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishableKey: publishableKey,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// ConfirmCardPayment confirms the intent behind clientSecret with the given
// card. Whatever status comes back is returned as-is; the caller decides
// whether anything other than "succeeded" aborts the flow. The gateway
// never retries a confirmation.
func (g *Gateway) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*Intent, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", fmt.Sprintf("%d", card.ExpMonth))
	form.Set("payment_method_data[card][exp_year]", fmt.Sprintf("%d", card.ExpYear))
	form.Set("payment_method_data[card][cvc]", card.CVC)

	endpoint := fmt.Sprintf("%s/payment_intents/%s/confirm", g.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Internal("failed to create confirm request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.publishableKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network("payment confirmation failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read processor response", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := fmt.Sprintf("processor error: status %d", resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		logger.Warn("card confirmation rejected: %s", msg)
		return nil, errors.Payment(msg, nil)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, errors.Internal("failed to decode processor response", err)
	}
	return &intent, nil
}

// GetIntent polls the current status of an intent.
func (g *Gateway) GetIntent(ctx context.Context, clientSecret string) (*Intent, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/payment_intents/%s?client_secret=%s", g.baseURL, intentID, url.QueryEscape(clientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Internal("failed to create intent request", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.publishableKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Network("intent status request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read processor response", err)
	}
	if resp.StatusCode >= 400 {
		return nil, errors.Payment(fmt.Sprintf("processor error: status %d", resp.StatusCode), nil)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, errors.Internal("failed to decode processor response", err)
	}
	return &intent, nil
}

// Client secrets carry the intent id as the prefix before "_secret".
func intentIDFromSecret(clientSecret string) (string, error) {
	i := strings.Index(clientSecret, "_secret")
	if i <= 0 {
		return "", errors.Payment("malformed client secret", nil)
	}
	return clientSecret[:i], nil
}
