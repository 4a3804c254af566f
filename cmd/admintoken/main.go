// cmd/admintoken/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/pkg/auth"
)

// Mints a bearer token for the /api/v1/admin endpoints
func main() {
	operator := flag.String("operator", "", "support operator the token is issued to")
	readOnly := flag.Bool("read-only", false, "issue a token without the admin claim")
	flag.Parse()

	if *operator == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -operator <name> [-read-only]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(*operator, !*readOnly)
	if err != nil {
		logrus.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
