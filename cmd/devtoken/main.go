// Command devtoken mints bearer tokens for local testing against a service
// configured with the same AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/identity"
)

func main() {
	var (
		role     = flag.String("role", "rider", "rider, driver or admin")
		id       = flag.String("id", "", "subject uuid, random when empty")
		name     = flag.String("name", "", "display name")
		phone    = flag.String("phone", "", "contact phone")
		approved = flag.Bool("approved", true, "driver is approved to post rides")
		ttl      = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		secret   = flag.String("secret", os.Getenv("AUTH_JWT_SECRET"), "HS256 secret")
		issuer   = flag.String("issuer", os.Getenv("AUTH_ISSUER"), "token issuer")
	)
	flag.Parse()

	if err := run(*role, *id, *name, *phone, *approved, *ttl, *secret, *issuer); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(role, id, name, phone string, approved bool, ttl time.Duration, secret, issuer string) error {
	if secret == "" {
		return fmt.Errorf("secret is required (flag -secret or AUTH_JWT_SECRET)")
	}
	r := types.UserRole(role)
	if !r.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}

	subject := uuid.New()
	if id != "" {
		var err error
		if subject, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
	}

	token, err := identity.New(secret, issuer).Issue(&models.Actor{
		ID:              subject,
		Role:            r,
		ApprovedToDrive: approved && r == types.RoleDriver,
		Name:            name,
		Phone:           phone,
	}, ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "subject: %s\nrole:    %s\n", subject, r)
	fmt.Println(token)
	return nil
}
