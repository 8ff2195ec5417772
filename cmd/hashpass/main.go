// Command hashpass prints the bcrypt hash for an admin passphrase, for use as
// admin.passphrase_hash or ADMIN_PASSPHRASE_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"vighnaharta-backend/internal/service"
)

func main() {
	passphrase := flag.String("passphrase", "", "Passphrase to hash (read from stdin when empty)")
	flag.Parse()

	value := *passphrase
	if value == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read passphrase: %v", err)
		}
		value = strings.TrimRight(line, "\r\n")
	}
	if value == "" {
		log.Fatal("Passphrase must not be empty")
	}

	hash, err := service.HashPassphrase(value)
	if err != nil {
		log.Fatalf("Failed to hash passphrase: %v", err)
	}
	fmt.Println(hash)
}
