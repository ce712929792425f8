// Command hashpw generates an Argon2id password hash for the auth.users
// section of the config file.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/soundbridge/directorcore/internal/auth"
)

func main() {
	fmt.Fprint(os.Stderr, "Password: ")

	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")

	hash, err := auth.NewPasswordHasher().HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
