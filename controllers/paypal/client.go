package paypalControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const sandboxAPIURL = "https://api-m.sandbox.paypal.com"

// Client is a thin PayPal REST client covering exactly the two calls the
// order pipeline needs: create a remote order sized to the grand total, and
// capture it after buyer approval.
type Client struct {
	BaseURL    string
	ClientID   string
	Secret     string
	HTTPClient *http.Client
}

// NewClientFromEnv reads PAYPAL_CLIENT_ID, PAYPAL_APP_SECRET and optionally
// PAYPAL_API_URL (sandbox endpoint by default).
func NewClientFromEnv() (*Client, error) {
	clientID := os.Getenv("PAYPAL_CLIENT_ID")
	secret := os.Getenv("PAYPAL_APP_SECRET")
	if clientID == "" || secret == "" {
		return nil, fmt.Errorf("paypal configuration missing")
	}

	baseURL := os.Getenv("PAYPAL_API_URL")
	if baseURL == "" {
		baseURL = sandboxAPIURL
	}

	return &Client{
		BaseURL:    baseURL,
		ClientID:   clientID,
		Secret:     secret,
		HTTPClient: &http.Client{},
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) accessToken() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest("POST", c.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach PayPal: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token error (%d): %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse PayPal token response: %v", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("paypal returned empty access token")
	}
	return token.AccessToken, nil
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a remote payment intent for the given amount (a
// fixed-2-decimal string) and returns the PayPal order id.
func (c *Client) CreateOrder(amount string) (string, error) {
	token, err := c.accessToken()
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         amount,
				},
			},
		},
	}
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", c.BaseURL+"/v2/checkout/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach PayPal: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("paypal API error (%d): %s", resp.StatusCode, string(body))
	}

	var created createOrderResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse PayPal response: %v", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("paypal returned empty order id")
	}
	return created.ID, nil
}

// CaptureResponse is the strictly-typed slice of PayPal's capture payload the
// pipeline verifies. Anything missing from this shape fails verification.
type CaptureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CapturePayment asks PayPal to collect the funds for a previously created
// remote order.
func (c *Client) CapturePayment(remoteOrderID string) (*CaptureResponse, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/v2/checkout/orders/"+remoteOrderID+"/capture", bytes.NewBufferString("{}"))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach PayPal: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("paypal API error (%d): %s", resp.StatusCode, string(body))
	}

	var capture CaptureResponse
	if err := json.Unmarshal(body, &capture); err != nil {
		return nil, fmt.Errorf("failed to parse PayPal capture response: %v", err)
	}
	return &capture, nil
}
