package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/setup"
)

func main() {
	envPath := flag.String("env", ".env", "dotenv file to update")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Load configuration
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	env, err := setup.ReadEnvFile(*envPath)
	if err != nil {
		fmt.Println(err)
		return
	}

	// simple cli to fill in the integration credentials
	reader := bufio.NewScanner(os.Stdin)
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	updates := make(map[string]string)

	fmt.Println("Configuring kitchen integrations. Leave an answer blank to keep the current value.")

	for _, cred := range setup.Credentials(cfg.Integrations) {
		state := "missing"
		if cred.Configured {
			state = "configured"
		}
		kind := "optional"
		if cred.Required {
			kind = "required"
		}

		fmt.Printf("%s (%s, %s, %s)\n", cred.Name, cred.EnvVar, kind, state)
		fmt.Printf("  %s\n", cred.Description)
		fmt.Print("  Enter value: ")

		var value string
		if interactive {
			secret, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				fmt.Println("Failed to read value:", err)
				return
			}
			value = string(secret)
			fmt.Println() // Print newline after hidden input
		} else if reader.Scan() {
			value = reader.Text()
		}

		updates[cred.EnvVar] = strings.TrimSpace(value)
	}

	changed := setup.ApplyCredentials(env, updates)
	if len(changed) == 0 {
		fmt.Println("Nothing changed.")
		return
	}

	if err := setup.WriteEnvFile(*envPath, env); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Updated %s: %s\n", *envPath, strings.Join(changed, ", "))
	fmt.Println("Restart the dashboard server to pick up the new credentials.")
}
