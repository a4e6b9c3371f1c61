package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"rider-delivery-agent/internal/credstore"
	"rider-delivery-agent/internal/domain"
)

// credtool manages the rider credential the agent signs requests with.
func main() {
	path := pflag.String("credentials", "rider_credentials.json", "path of the persisted rider credential")
	pflag.Parse()

	store := credstore.New(*path)

	switch pflag.Arg(0) {
	case "set":
		if pflag.NArg() != 3 {
			usage()
		}
		cred := domain.Credential{RiderID: pflag.Arg(1), Token: pflag.Arg(2)}
		if !cred.Valid() {
			log.Fatal("rider id and token must both be non-empty")
		}
		if err := store.Save(cred); err != nil {
			log.Fatalf("save credential: %v", err)
		}
		fmt.Println("credential saved")
	case "show":
		cred, err := store.Credential()
		if err != nil {
			log.Fatalf("read credential: %v", err)
		}
		fmt.Printf("rider_id=%s token=%s\n", cred.RiderID, mask(cred.Token))
	case "clear":
		if err := store.Clear(); err != nil {
			log.Fatalf("clear credential: %v", err)
		}
		fmt.Println("credential cleared")
	default:
		usage()
	}
}

func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: credtool [--credentials path] set <rider_id> <token> | show | clear")
	os.Exit(2)
}
