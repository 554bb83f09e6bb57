package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	jar, _ := cookiejar.New(nil)
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

func main() {
	var baseURL string

	root := &cobra.Command{
		Use:          "grind-smoke",
		Short:        "Smoke tests against a running Carolina Grind server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the site")

	check := func(name string, fn func(*TestClient) bool) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "Run the " + name + " check",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !fn(NewTestClient(baseURL)) {
					return fmt.Errorf("%s check failed", name)
				}
				return nil
			},
		}
	}

	var message string
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Send one message to GrindBot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !NewTestClient(baseURL).testChat(message) {
				return fmt.Errorf("chat check failed")
			}
			return nil
		},
	}
	chatCmd.Flags().StringVar(&message, "message", "How do I get featured?", "Message to send")

	root.AddCommand(
		&cobra.Command{
			Use:   "all",
			Short: "Run every check",
			RunE: func(cmd *cobra.Command, args []string) error {
				return NewTestClient(baseURL).runAllTests()
			},
		},
		check("health", (*TestClient).testHealthCheck),
		check("page", (*TestClient).testPage),
		check("navigate", (*TestClient).testNavigation),
		check("submit", (*TestClient).testSubmission),
		check("agent-card", (*TestClient).testAgentCard),
		chatCmd,
	)

	printHeader("Carolina Grind - Smoke Tests")
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() error {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Page", tc.testPage},
		{"Modal Navigation", tc.testNavigation},
		{"Submission", tc.testSubmission},
		{"Agent Card", tc.testAgentCard},
		{"Chat", func() bool { return tc.testChat("How do I get featured?") }},
	}

	passed, failed := 0, 0
	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")
	status, body, err := tc.request(http.MethodGet, "/health", "", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK || strings.TrimSpace(body) != "OK" {
		printError(fmt.Sprintf("Expected 200 OK, got %d %q", status, body))
		return false
	}
	printSuccess("Health check passed")
	return true
}

// testPage loads the page, which also gives the client a view cookie.
func (tc *TestClient) testPage() bool {
	printTestHeader("Testing Page Render")
	status, body, err := tc.request(http.MethodGet, "/", "", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	for _, marker := range []string{`id="spotlight"`, `id="submit"`, `id="chat"`} {
		if !strings.Contains(body, marker) {
			printError("Missing section marker " + marker)
			return false
		}
	}
	printSuccess("Page rendered with all sections")
	return true
}

func (tc *TestClient) testNavigation() bool {
	printTestHeader("Testing Modal Navigation")
	if !tc.testPage() {
		return false
	}
	if _, body, err := tc.request(http.MethodPost, "/gallery/1", "", nil); err != nil || !strings.Contains(body, `data-profile-id="1"`) {
		printError("Opening profile 1 failed")
		return false
	}
	_, body, err := tc.request(http.MethodPost, "/modal/prev", "", nil)
	if err != nil || !strings.Contains(body, `data-profile-id="6"`) {
		printError("Previous from profile 1 should wrap to profile 6")
		return false
	}
	printInfo("Wrapped from 1 to 6")

	_, body, err = tc.request(http.MethodPost, "/modal/key", "application/x-www-form-urlencoded", strings.NewReader("key=Escape"))
	if err != nil || !strings.Contains(body, `data-open="false"`) {
		printError("Escape should close the modal")
		return false
	}
	printSuccess("Modal navigation works")
	return true
}

func (tc *TestClient) testSubmission() bool {
	printTestHeader("Testing Tier Submission")
	if !tc.testPage() {
		return false
	}
	_, body, err := tc.request(http.MethodPost, "/tiers/1", "", nil)
	if err != nil || !strings.Contains(body, `data-tier="1" data-state="submitting"`) {
		printError("Tier 1 should be submitting")
		return false
	}
	printInfo("Submitting The Hustle, waiting for completion...")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(250 * time.Millisecond)
		_, body, err = tc.request(http.MethodGet, "/tiers", "", nil)
		if err != nil {
			printError(fmt.Sprintf("Polling failed: %v", err))
			return false
		}
		if strings.Contains(body, `data-tier="1" data-state="submitted"`) {
			printSuccess("Submission completed")
			return true
		}
	}
	printError("Submission did not complete in time")
	return false
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")
	status, body, err := tc.request(http.MethodGet, "/.well-known/agent.json", "", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	var card map[string]interface{}
	if err := json.Unmarshal([]byte(body), &card); err != nil {
		printError(fmt.Sprintf("Failed to parse JSON: %v", err))
		return false
	}
	printSuccess(fmt.Sprintf("Agent card served for %v", card["name"]))
	return true
}

func (tc *TestClient) testChat(message string) bool {
	printTestHeader("Testing GrindBot Chat")
	if !tc.testPage() {
		return false
	}
	payload, _ := json.Marshal(map[string]string{"message": message})
	status, body, err := tc.request(http.MethodPost, "/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil || resp.Reply == "" {
		printError("Chat response had no reply")
		return false
	}
	fmt.Printf("%sGrindBot:%s %s\n", colorCyan, colorReset, resp.Reply)
	printSuccess("Chat replied")
	return true
}

func (tc *TestClient) request(method, path, contentType string, body io.Reader) (int, string, error) {
	url := tc.baseURL + path
	fmt.Printf("%s %s\n", method, url)
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(b), nil
}

// Helper functions for colored output
func printHeader(text string) {
	line := strings.Repeat("=", len(text)+4)
	fmt.Printf("\n%s%s%s\n", colorBlue, line, colorReset)
	fmt.Printf("%s  %s  %s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, line, colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s▶ %s%s\n", colorCyan, text, colorReset)
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printInfo(text string) {
	fmt.Printf("%sℹ %s%s\n", colorYellow, text, colorReset)
}
