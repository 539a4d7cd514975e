package depot

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/depot/date"
)

// This file accesses the two market data sources: the Simply Wall St GraphQL
// API for fundamentals and the Finnhub REST API for quotes.

const (
	sws_api_token   = "SWS_API_TOKEN"
	finnhub_api_key = "FINNHUB_API_KEY"

	swsEndpoint     = "https://api.simplywall.st/graphql"
	finnhubEndpoint = "https://finnhub.io/api/v1"
)

var (
	swsTokenFlag = flag.String("sws-api-token", "", "Simply Wall St API token for fetching company fundamentals.\n If missing it will read the environment variable \""+sws_api_token+"\".")
	finnhubFlag  = flag.String("finnhub-api-key", "", "Finnhub API key for fetching live quotes.\n If missing it will read the environment variable \""+finnhub_api_key+"\". You can get one at https://finnhub.io/")
)

func swsToken() string {
	if *swsTokenFlag == "" {
		*swsTokenFlag = os.Getenv(sws_api_token)
	}
	return *swsTokenFlag
}

func finnhubKey() string {
	if *finnhubFlag == "" {
		*finnhubFlag = os.Getenv(finnhub_api_key)
	}
	return *finnhubFlag
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// returns a client with a cache all with daily expire
func dailyClient() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// jwpost performs an authenticated HTTP POST of a JSON body and unmarshals
// the JSON response into the provided data structure.
func jwpost(client *http.Client, addr, bearer string, body, data interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, addr, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http POST %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// CompanyStatement is one Simply Wall St analysis statement, a named
// true/false fact about the company with a severity level.
type CompanyStatement struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Area        string `json:"area"`
	Type        string `json:"type"`
	Value       bool   `json:"value"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Company is the fundamental profile of one listed company.
type Company struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	ExchangeSymbol string             `json:"exchangeSymbol"`
	TickerSymbol   string             `json:"tickerSymbol"`
	MarketCapUSD   float64            `json:"marketCapUSD"`
	Statements     []CompanyStatement `json:"statements"`
}

const companyQuery = `query lookupCompany($exchange: String!, $symbol: String!) {
  companyByExchangeAndTickerSymbol(exchange: $exchange, tickerSymbol: $symbol) {
    id
    name
    exchangeSymbol
    tickerSymbol
    marketCapUSD
    statements {
      name
      title
      area
      type
      value
      description
      severity
    }
  }
}`

// FetchCompany queries the company's fundamental profile. Responses are
// cached on disk for the day, so repeated runs do not spend API quota.
func FetchCompany(info TickerInfo) (*Company, error) {
	token := swsToken()
	if token == "" {
		return nil, fmt.Errorf("no Simply Wall St API token: set -sws-api-token or " + sws_api_token)
	}

	body := map[string]any{
		"query": companyQuery,
		"variables": map[string]string{
			"exchange": info.Exchange,
			"symbol":   info.Ticker,
		},
	}
	var jobj any
	if err := jwpost(dailyClient(), swsEndpoint, token, body, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch company %s: %w", info.Ticker, err)
	}

	path := "$.data.companyByExchangeAndTickerSymbol"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing company %s: %q %w", info.Ticker, path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	if jval == nil {
		return nil, fmt.Errorf("no company found for %s on %s", info.Ticker, info.Exchange)
	}

	// Round-trip through JSON to fill the typed struct.
	raw, err := json.Marshal(jval)
	if err != nil {
		return nil, fmt.Errorf("cannot remarshal company %s: %w", info.Ticker, err)
	}
	var company Company
	if err := json.Unmarshal(raw, &company); err != nil {
		return nil, fmt.Errorf("cannot decode company %s: %w", info.Ticker, err)
	}
	return &company, nil
}

// Quote is the live quote of one security.
type Quote struct {
	Current       float64
	High          float64
	Low           float64
	Open          float64
	PreviousClose float64
}

// FetchQuote queries the live quote for a ticker from Finnhub. Quotes are
// cached on disk for the day.
func FetchQuote(ticker string) (*Quote, error) {
	key := finnhubKey()
	if key == "" {
		return nil, fmt.Errorf("no Finnhub API key: set -finnhub-api-key or " + finnhub_api_key)
	}

	addr := fmt.Sprintf("%s/quote?symbol=%s&token=%s", finnhubEndpoint, ticker, key)
	var jobj any
	if err := jwget(dailyClient(), addr, &jobj); err != nil {
		return nil, fmt.Errorf("cannot fetch quote for %s: %w", ticker, err)
	}

	q := &Quote{}
	for path, dst := range map[string]*float64{
		"$.c":  &q.Current,
		"$.h":  &q.High,
		"$.l":  &q.Low,
		"$.o":  &q.Open,
		"$.pc": &q.PreviousClose,
	} {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		if v, ok := jval.(float64); ok {
			*dst = v
		}
	}
	if q.Current == 0 {
		return nil, fmt.Errorf("empty quote for %s", ticker)
	}
	return q, nil
}
