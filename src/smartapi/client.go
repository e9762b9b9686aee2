package smartapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	log "github.com/sirupsen/logrus"

	"github.com/quantstash/expiry-snapshot/src/models"
)

const (
	DefaultBaseURL = "https://apiconnect.angelbroking.com"

	loginPath   = "/rest/auth/angelbroking/user/v1/loginByPassword"
	candlesPath = "/rest/secure/angelbroking/historical/v1/getCandleData"

	// DatetimeLayout is the request format the candle endpoint expects, IST
	// wall time.
	DatetimeLayout = "2006-01-02 15:04"
)

// Client is a thin session-holding client for the Angel One SmartAPI. Login
// must succeed before any candle request is made.
type Client struct {
	baseURL    string
	apiKey     string
	jwtToken   string
	httpClient *http.Client
}

func NewClient(baseURL string, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequestDTO struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

type sessionDTO struct {
	JwtToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

// Login opens a SmartAPI session with the client code, PIN and a fresh TOTP
// generated from the shared secret. A failed login is fatal for the whole
// run, so the error carries the provider's message.
func (c *Client) Login(clientCode string, pin string, totpSecret string) error {
	code, err := totp.GenerateCode(totpSecret, time.Now())
	if err != nil {
		return fmt.Errorf("Login: failed to generate totp: %w", err)
	}

	payload, err := json.Marshal(loginRequestDTO{
		ClientCode: clientCode,
		Password:   pin,
		TOTP:       code,
	})
	if err != nil {
		return fmt.Errorf("Login: failed to marshal request: %w", err)
	}

	env, err := c.post(loginPath, payload)
	if err != nil {
		return fmt.Errorf("Login: %w", err)
	}

	if !env.Status {
		return fmt.Errorf("Login: login rejected: %s", env.Message)
	}

	var session sessionDTO
	if err := json.Unmarshal(env.Data, &session); err != nil {
		return fmt.Errorf("Login: failed to unmarshal session: %w", err)
	}

	if session.JwtToken == "" {
		return fmt.Errorf("Login: login response missing jwt token")
	}

	c.jwtToken = session.JwtToken
	log.Info("SmartAPI login successful")

	return nil
}

type CandleParams struct {
	Exchange    string
	SymbolToken string
	Interval    models.Interval
	FromDate    string
	ToDate      string
}

type candleRequestDTO struct {
	Exchange    string `json:"exchange"`
	SymbolToken string `json:"symboltoken"`
	Interval    string `json:"interval"`
	FromDate    string `json:"fromdate"`
	ToDate      string `json:"todate"`
}

// CandleResponse is the provider's answer to one history request. A false
// Status is a failure signal, not an error: the caller decides whether to
// retry.
type CandleResponse struct {
	Status  bool
	Message string
	Rows    [][]interface{}
}

// GetCandles requests candle history for one instrument token. Transport and
// decode problems come back as errors; a not-ok provider status comes back as
// a response with Status false.
func (c *Client) GetCandles(params CandleParams) (CandleResponse, error) {
	payload, err := json.Marshal(candleRequestDTO{
		Exchange:    params.Exchange,
		SymbolToken: params.SymbolToken,
		Interval:    string(params.Interval),
		FromDate:    params.FromDate,
		ToDate:      params.ToDate,
	})
	if err != nil {
		return CandleResponse{}, fmt.Errorf("GetCandles: failed to marshal request: %w", err)
	}

	env, err := c.post(candlesPath, payload)
	if err != nil {
		return CandleResponse{}, fmt.Errorf("GetCandles: %w", err)
	}

	resp := CandleResponse{
		Status:  env.Status,
		Message: env.Message,
	}

	if !env.Status {
		return resp, nil
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &resp.Rows); err != nil {
			return CandleResponse{}, fmt.Errorf("GetCandles: failed to unmarshal rows: %w", err)
		}
	}

	return resp, nil
}

// LastTradedPrice returns the most recent minute close for an instrument,
// looking back one day. Advisory use only.
func (c *Client) LastTradedPrice(symbolToken string, now time.Time) (float64, error) {
	resp, err := c.GetCandles(CandleParams{
		Exchange:    "NSE",
		SymbolToken: symbolToken,
		Interval:    models.IntervalOneMinute,
		FromDate:    now.AddDate(0, 0, -1).Format("2006-01-02") + " 09:15",
		ToDate:      now.Format(DatetimeLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("LastTradedPrice: %w", err)
	}

	if !resp.Status {
		return 0, fmt.Errorf("LastTradedPrice: provider returned not ok: %s", resp.Message)
	}

	candles, err := resp.Candles()
	if err != nil {
		return 0, fmt.Errorf("LastTradedPrice: %w", err)
	}

	if len(candles) == 0 {
		return 0, fmt.Errorf("LastTradedPrice: no candles returned for token %s", symbolToken)
	}

	return candles[len(candles)-1].Close, nil
}

func (c *Client) post(path string, payload []byte) (envelope, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return envelope{}, fmt.Errorf("post: failed to create request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("X-UserType", "USER")
	req.Header.Add("X-SourceID", "WEB")
	req.Header.Add("X-PrivateKey", c.apiKey)

	if c.jwtToken != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.jwtToken))
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("post: request failed: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return envelope{}, fmt.Errorf("post: http code %v", res.Status)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("post: failed to decode json: %w", err)
	}

	return env, nil
}
