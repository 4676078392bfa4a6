// Command smoke fires a fixed set of form submissions at a running
// server and prints each response, a quick end-to-end check after a
// deploy. Point it at the server with FORMDETECT_SMOKE_URL or -url.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var submissions = []map[string]string{
	{
		"email": "d@a.w",
		"phone": "+78005553535",
		"date":  "11.08.1997",
		"text":  "dsvcsd",
	},
	{
		"login":      "operator7",
		"order_date": "2024.03.01",
	},
	{
		"comment": "nothing classifiable here",
	},
}

func main() {
	defaultURL := "http://localhost:8080"
	if v, ok := os.LookupEnv("FORMDETECT_SMOKE_URL"); ok {
		defaultURL = v
	}
	baseURL := flag.String("url", defaultURL, "base URL of the running server")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	if err := run(ctx, *baseURL, client, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "smoke failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, baseURL string, client *http.Client, out io.Writer) error {
	for i, form := range submissions {
		body, err := postDetect(ctx, client, baseURL, form)
		if err != nil {
			return fmt.Errorf("request %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Test %d: %s\n", i+1, body)
	}
	return nil
}

func postDetect(ctx context.Context, client *http.Client, baseURL string, form map[string]string) (string, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/v1/forms/detect", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}
