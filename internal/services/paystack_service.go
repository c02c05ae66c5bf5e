package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaystackService handles all Paystack API interactions. The platform key
// is the default; companies with their own Paystack account override it
// per call.
type PaystackService interface {
	InitializeTransaction(ctx context.Context, req *InitializeTransactionRequest) (*InitializeTransactionResponse, error)
	VerifyTransaction(ctx context.Context, reference string, secretKey string) (*VerifyTransactionResponse, error)
	VerifyWebhookSignature(rawBody []byte, signature string) bool
}

type paystackService struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

type InitializeTransactionRequest struct {
	Email     string                 `json:"email"`
	Amount    int64                  `json:"amount"`
	Reference string                 `json:"reference"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	// Subaccount routes settlement to the company's Paystack subaccount.
	// TransactionCharge is the flat platform fee in minor units; Bearer
	// must be "subaccount" so the company absorbs Paystack's charges.
	Subaccount        string `json:"subaccount,omitempty"`
	TransactionCharge int64  `json:"transaction_charge,omitempty"`
	Bearer            string `json:"bearer,omitempty"`
	// SecretKey is the per-company override; never serialized.
	SecretKey string `json:"-"`
}

type InitializeTransactionResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyTransactionResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	PaidAt    string `json:"paid_at"`
	Channel   string `json:"channel"`
	Currency  string `json:"currency"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewPaystackService creates a new Paystack service instance
func NewPaystackService(secretKey string) PaystackService {
	return &paystackService{
		secretKey: secretKey,
		baseURL:   "https://api.paystack.co",
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewPaystackServiceWithBaseURL is used by tests to point at a local server.
func NewPaystackServiceWithBaseURL(secretKey, baseURL string) PaystackService {
	return &paystackService{
		secretKey: secretKey,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *paystackService) InitializeTransaction(ctx context.Context, req *InitializeTransactionRequest) (*InitializeTransactionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.keyFor(req.SecretKey))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize request failed: %w", err)
	}
	defer resp.Body.Close()

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var data InitializeTransactionResponse
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (s *paystackService) VerifyTransaction(ctx context.Context, reference string, secretKey string) (*VerifyTransactionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.keyFor(secretKey))

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer resp.Body.Close()

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var data VerifyTransactionResponse
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header value
// against an HMAC-SHA512 of the raw request body under the platform key.
func (s *paystackService) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *paystackService) keyFor(override string) string {
	if override != "" {
		return override
	}
	return s.secretKey
}

func decodeEnvelope(resp *http.Response) (*paystackEnvelope, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("paystack returned malformed response (HTTP %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return nil, fmt.Errorf("paystack request rejected (HTTP %d): %s", resp.StatusCode, envelope.Message)
	}
	return &envelope, nil
}
