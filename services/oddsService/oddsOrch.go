package oddsService

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"pickemEngine/models/external"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

// TerminalError marks provider responses that must not be retried (4xx other
// than 429). Callers abort the current sport's cycle and move on.
type TerminalError struct {
	StatusCode int
	Body       string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("odds provider returned %d: %s", e.StatusCode, e.Body)
}

type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// test seam; defaults to time.Sleep
	sleep func(time.Duration)
}

func NewGateway() (*Gateway, error) {
	apiKey := os.Getenv("ODDS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ODDS_API_KEY not set in environment variables")
	}
	return NewGatewayWith(defaultBaseURL, apiKey), nil
}

func NewGatewayWith(baseURL, apiKey string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sleep: time.Sleep,
	}
}

// FetchOdds returns upcoming events with h2h odds for a sport.
func (g *Gateway) FetchOdds(sportKey string) ([]external.OddsAPI_Event, error) {
	requestURL := fmt.Sprintf("%s/sports/%s/odds?apiKey=%s&regions=us&markets=h2h&oddsFormat=american",
		g.baseURL, sportKey, g.apiKey)

	var events []external.OddsAPI_Event
	if err := g.getJSON(requestURL, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchScores returns events with scores, including recently completed ones.
func (g *Gateway) FetchScores(sportKey string, daysFrom int) ([]external.OddsAPI_ScoreEvent, error) {
	requestURL := fmt.Sprintf("%s/sports/%s/scores?apiKey=%s&daysFrom=%d",
		g.baseURL, sportKey, g.apiKey, daysFrom)

	var events []external.OddsAPI_ScoreEvent
	if err := g.getJSON(requestURL, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchProps returns player prop markets for a single event.
func (g *Gateway) FetchProps(sportKey, eventID string, markets []string) ([]external.OddsAPI_Event, error) {
	requestURL := fmt.Sprintf("%s/sports/%s/events/%s/odds?apiKey=%s&regions=us&markets=%s&oddsFormat=american",
		g.baseURL, sportKey, eventID, g.apiKey, url.QueryEscape(strings.Join(markets, ",")))

	var event external.OddsAPI_Event
	if err := g.getJSON(requestURL, &event); err != nil {
		return nil, err
	}
	return []external.OddsAPI_Event{event}, nil
}

// FetchFutures returns outright (futures) markets for a sport.
func (g *Gateway) FetchFutures(sportKey string) ([]external.OddsAPI_Event, error) {
	requestURL := fmt.Sprintf("%s/sports/%s/odds?apiKey=%s&regions=us&markets=outrights&oddsFormat=american",
		g.baseURL, sportKey, g.apiKey)

	var events []external.OddsAPI_Event
	if err := g.getJSON(requestURL, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (g *Gateway) getJSON(requestURL string, out interface{}) error {
	body, err := g.fetchWithRetry(requestURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing provider response: %v", err)
	}
	return nil
}

// fetchWithRetry makes up to 3 attempts, backing off 1s then 2s between them.
// 5xx and 429 are retryable; any other 4xx is terminal and returned
// immediately.
func (g *Gateway) fetchWithRetry(requestURL string) ([]byte, error) {
	const maxAttempts = 3
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, retryable, err := g.fetchOnce(requestURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		log.Printf("odds provider attempt %d failed: %v", attempt+1, err)
		if attempt < maxAttempts-1 {
			g.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}

	return nil, fmt.Errorf("odds provider unavailable after %d attempts: %v", maxAttempts, lastErr)
}

func (g *Gateway) fetchOnce(requestURL string) (body []byte, retryable bool, err error) {
	resp, err := g.httpClient.Get(requestURL)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		log.Printf("odds provider quota remaining: %s", remaining)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return raw, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d from provider", resp.StatusCode)
	default:
		return nil, false, &TerminalError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
}
