// Package main prints the bcrypt hash of a password, for inserting or fixing
// user rows by hand without running the server.
//
//	go run ./cmd/hash 'password123'
package main

import (
	"fmt"
	"os"

	"github.com/orgdesk/orgdesk/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password>\n", os.Args[0])
		os.Exit(2)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
