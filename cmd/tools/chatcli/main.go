// Command chatcli is a minimal terminal client for the Panda AI backend,
// handy for poking the conversation API without a browser.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "backend base URL")
	reset := flag.Bool("reset", false, "clear the conversation before starting")
	flag.Parse()

	client := &http.Client{Timeout: 60 * time.Second}

	if *reset {
		if err := resetConversation(client, *baseURL); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
	}

	history, err := fetchMessages(client, *baseURL)
	if err != nil {
		log.Fatalf("failed to load conversation: %v", err)
	}
	for _, msg := range history {
		printMessage(msg)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "exit" || text == "quit" {
			return
		}

		appended, err := submit(client, *baseURL, text)
		if err != nil {
			log.Printf("submit failed: %v", err)
		}
		for _, msg := range appended {
			if msg.Role != "user" {
				printMessage(msg)
			}
		}
		fmt.Print("> ")
	}
}

func printMessage(msg message) {
	fmt.Printf("[%s] %s\n", msg.Role, msg.Text)
}

func fetchMessages(client *http.Client, baseURL string) ([]message, error) {
	resp, err := client.Get(baseURL + "/api/messages")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Messages []message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

func submit(client *http.Client, baseURL, text string) ([]message, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/api/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var payload struct {
		Messages []message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

func resetConversation(client *http.Client, baseURL string) error {
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/api/messages", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}
