// seed-admin prints the bcrypt hash for an operator password. There is
// no user table: put the output into ADMIN_PASSWORD_HASH (or
// VIEWER_PASSWORD_HASH) next to the matching *_USERNAME env var.
//
// Usage:
//
//	go run ./cmd/seed-admin 'the-password'
package main

import (
	"fmt"
	"os"

	"github.com/mmautosoft/dealership_backend/utils"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-admin <password>")
		os.Exit(2)
	}

	hashed, err := utils.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hashed)
}
