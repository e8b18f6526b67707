package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Small helper for trying the API from a terminal: logs in (creating a
// token) and registers one check for the account.
func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	reader := bufio.NewReader(os.Stdin)
	phone := prompt(reader, "Account phone (10 digits): ")
	password := prompt(reader, "Password: ")

	tok, err := login(api, phone, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Login failed:", err)
		os.Exit(1)
	}

	raw := prompt(reader, "Site to monitor (e.g., https://example.com): ")
	protocol := "https"
	if strings.Contains(raw, "://") {
		parts := strings.SplitN(raw, "://", 2)
		protocol, raw = parts[0], parts[1]
	}

	body, _ := json.Marshal(map[string]any{
		"protocol":        protocol,
		"url":             raw,
		"method":          "get",
		"success_codes":   []int{200, 201, 301, 302},
		"timeout_seconds": 3,
	})
	req, _ := http.NewRequest(http.MethodPost, api+"/api/checks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", tok)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var chk struct {
			ID string `json:"id"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&chk)
		fmt.Println("Check created:", chk.ID)
	} else {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		fmt.Fprintf(os.Stderr, "API returned %s: %s\n", resp.Status, e.Error)
		os.Exit(1)
	}
}

func prompt(r *bufio.Reader, msg string) string {
	fmt.Print(msg)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func login(api, phone, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"phone": phone, "password": password})
	resp, err := http.Post(api+"/api/tokens", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %s", resp.Status)
	}
	var tok struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	return tok.ID, nil
}
