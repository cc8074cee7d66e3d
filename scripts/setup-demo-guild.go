package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type Bot struct {
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
	Token  string `json:"token"`
	BotID  string `json:"botId"`
}

type RegisterResponse struct {
	Bot struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"bot"`
	AccessToken string `json:"accessToken"`
}

type RollSlot struct {
	Symbol      string `json:"symbol"`
	CharacterID string `json:"characterId"`
}

type RollSession struct {
	ID    string     `json:"id"`
	Slots []RollSlot `json:"slots"`
}

type CatalogStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

func registerBot(name, apiKey string) (*Bot, error) {
	body, _ := json.Marshal(map[string]string{
		"name":   name,
		"apiKey": apiKey,
	})

	resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &Bot{
		Name:   result.Bot.Name,
		APIKey: apiKey,
		Token:  result.AccessToken,
		BotID:  result.Bot.ID,
	}, nil
}

func seedCatalog(token string) error {
	req, _ := http.NewRequest("POST", apiBase+"/characters/seed", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("seed failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func catalogStats(token string) (*CatalogStats, error) {
	req, _ := http.NewRequest("GET", apiBase+"/characters/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stats failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result CatalogStats
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &result, nil
}

func openRoll(token, guildID, userID string) (*RollSession, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"guildId": guildID,
		"userId":  userID,
	})

	req, _ := http.NewRequest("POST", apiBase+"/rolls", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open roll failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RollSession
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &result, nil
}

func generateBotName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("demo_bot_%d_%s", time.Now().Unix(), string(random))
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Print("Setting up demo guild...\n\n")

	apiKey := "demo-api-key-123"
	guildID := fmt.Sprintf("demo-guild-%d", time.Now().Unix())
	userID := "demo-user-1"

	// Register a bot account
	fmt.Println("Registering bot account...")
	bot, err := registerBot(generateBotName(), apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register bot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Bot: %s\n", bot.Name)

	// Seed the character catalog (no-op if already seeded)
	fmt.Println("\nSeeding character catalog...")
	if err := seedCatalog(bot.Token); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed catalog: %v\n", err)
		os.Exit(1)
	}
	stats, err := catalogStats(bot.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Catalog: %d characters (%d available)\n", stats.Total, stats.Available)

	// Open a roll session for the demo guild
	fmt.Println("\nOpening roll session...")
	session, err := openRoll(bot.Token, guildID, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open roll: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Session %s with %d slots\n", session.ID, len(session.Slots))

	// Output the setup information
	fmt.Println("\n" + "============================================================")
	fmt.Println("DEMO GUILD SETUP COMPLETE")
	fmt.Println("============================================================")

	fmt.Println("\nBot Account:")
	fmt.Printf("  Name: %s\n", bot.Name)
	fmt.Printf("  API Key: %s\n", bot.APIKey)
	fmt.Printf("  ID: %s\n", bot.BotID)

	fmt.Println("\nGuild:")
	fmt.Printf("  ID: %s\n", guildID)
	fmt.Printf("  Roller: %s\n", userID)

	fmt.Println("\nRoll slots:")
	for _, slot := range session.Slots {
		fmt.Printf("  Slot %s: character %s\n", slot.Symbol, slot.CharacterID)
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("QUICK START")
	fmt.Println("============================================================")
	fmt.Printf("\nClaim a slot:\n")
	fmt.Printf("  curl -X POST %s/rolls/%s/claim \\\n", apiBase, session.ID)
	fmt.Printf("    -H 'Authorization: Bearer %s' \\\n", bot.Token)
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"userId\": \"%s\", \"symbol\": \"1\"}'\n", userID)
	fmt.Printf("\nWatch live events:\n")
	fmt.Printf("  ws://localhost:8080/api/v1/ws?token=%s&guildId=%s\n", bot.Token, guildID)

	// Output JSON for programmatic use
	output := map[string]interface{}{
		"bot": bot,
		"guild": map[string]string{
			"id":     guildID,
			"userId": userID,
		},
		"session": session,
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("JSON OUTPUT (for scripts):")
	fmt.Println("============================================================")
	jsonOutput, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonOutput))
}
