package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"meridianadvisory.com/backoffice/security"
)

func main() {
	userID := flag.String("user", "", "user id (uuid)")
	userName := flag.String("name", "", "display name")
	email := flag.String("email", "", "email address")
	roles := flag.String("roles", "consultant", "comma-separated roles")
	expires := flag.Int64("expires", 3600, "token lifetime in seconds")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	secret := os.Getenv("BACKOFFICE_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("BACKOFFICE_SIGNING_SECRET is not set")
	}

	identity := &security.BackofficeIdentity{
		ID:       *userID,
		UserName: *userName,
		Email:    *email,
		Roles:    strings.Split(*roles, ","),
	}

	token, err := security.CreateIdentityToken(identity, secret, *expires)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
