// Command accounts-secret prints a random value suitable for
// ACCOUNTS_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

func main() {
	size := flag.Int("bytes", cryptox.SecretSize256, "number of random bytes before encoding")
	flag.Parse()

	if *size < cryptox.SecretSize256 {
		log.Fatalf("refusing to generate a secret shorter than %d bytes", cryptox.SecretSize256)
	}

	secret, err := cryptox.GenerateSecret(*size)
	if err != nil {
		log.Fatalf("generate secret: %v", err)
	}
	fmt.Println(secret)
}
