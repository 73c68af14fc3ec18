// Package main is a development utility that prints a fresh ORGDESK_JWT_SECRET
// and, given an email and password, a ready-to-run SQL INSERT for a user row
// with the password already bcrypt-hashed. Do not reuse printed secrets across
// environments.
//
//	go run ./scripts reach@yofou.dev password123
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/orgdesk/orgdesk/internal/auth"
)

func main() {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal(err)
	}

	fmt.Println("==========================================================")
	fmt.Printf("%s=%s\n", auth.JWTSecretEnv, base64.RawURLEncoding.EncodeToString(secret))
	fmt.Println("==========================================================")

	if len(os.Args) != 3 {
		return
	}
	email, password := os.Args[1], os.Args[2]

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal(err)
	}
	username, _, _ := strings.Cut(email, "@")

	fmt.Printf(`
INSERT INTO users (username, email, password, created_at, updated_at)
VALUES ('%s', '%s', '%s', NOW(), NOW())
ON CONFLICT (email) DO NOTHING;
`, username, email, hash)
	fmt.Println("==========================================================")
}
