package main

import (
	"fmt"
	"log"

	"github.com/skybridge/travel-assist-backend/internal/utils"
)

// Generates a random JWT signing secret for local setup.
func main() {
	secret, err := utils.GenerateSecret(32) // 256-bit
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Printf("JWT_SECRET_KEY=%s\n", secret)
}
