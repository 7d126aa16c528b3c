// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package org

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/account"
	acctypes "github.com/aws/aws-sdk-go-v2/service/account/types"
	"gopkg.in/yaml.v3"
)

// AccountAPI is the slice of the Account service surface the contact walk
// needs.
type AccountAPI interface {
	GetContactInformation(ctx context.Context, in *account.GetContactInformationInput, optFns ...func(*account.Options)) (*account.GetContactInformationOutput, error)
	GetAlternateContact(ctx context.Context, in *account.GetAlternateContactInput, optFns ...func(*account.Options)) (*account.GetAlternateContactOutput, error)
	PutContactInformation(ctx context.Context, in *account.PutContactInformationInput, optFns ...func(*account.Options)) (*account.PutContactInformationOutput, error)
}

// AccountContacts holds everything known about one account's contacts.
// Alternate contacts that were never configured are nil.
type AccountContacts struct {
	ID         string
	Default    *acctypes.ContactInformation
	Billing    *acctypes.AlternateContact
	Security   *acctypes.AlternateContact
	Operations *acctypes.AlternateContact
}

// Contacts gathers the default contact information and the three alternate
// contact types for one account.
func Contacts(ctx context.Context, api AccountAPI, accountID string) (AccountContacts, error) {
	ac := AccountContacts{ID: accountID}

	out, err := api.GetContactInformation(ctx, &account.GetContactInformationInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return ac, fmt.Errorf("failed to get contact information for %s: %w", accountID, err)
	}
	ac.Default = out.ContactInformation

	for _, kind := range []acctypes.AlternateContactType{
		acctypes.AlternateContactTypeBilling,
		acctypes.AlternateContactTypeSecurity,
		acctypes.AlternateContactTypeOperations,
	} {
		alt, err := AlternateContact(ctx, api, accountID, kind)
		if err != nil {
			return ac, err
		}
		switch kind {
		case acctypes.AlternateContactTypeBilling:
			ac.Billing = alt
		case acctypes.AlternateContactTypeSecurity:
			ac.Security = alt
		case acctypes.AlternateContactTypeOperations:
			ac.Operations = alt
		}
	}

	return ac, nil
}

// AlternateContact fetches one alternate contact. An account with no contact
// of that type returns nil, not an error.
func AlternateContact(ctx context.Context, api AccountAPI, accountID string, kind acctypes.AlternateContactType) (*acctypes.AlternateContact, error) {
	out, err := api.GetAlternateContact(ctx, &account.GetAlternateContactInput{
		AccountId:            aws.String(accountID),
		AlternateContactType: kind,
	})
	if err != nil {
		var notFound *acctypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s contact for %s: %w", strings.ToLower(string(kind)), accountID, err)
	}
	return out.AlternateContact, nil
}

// PutContacts pushes the given contact information to an account.
func PutContacts(ctx context.Context, api AccountAPI, accountID string, info *acctypes.ContactInformation) error {
	_, err := api.PutContactInformation(ctx, &account.PutContactInformationInput{
		AccountId:          aws.String(accountID),
		ContactInformation: info,
	})
	if err != nil {
		return fmt.Errorf("failed to put contact information for %s: %w", accountID, err)
	}
	return nil
}

// contactDetailsFile is the YAML shape of the details file consumed by
// cq --update.
type contactDetailsFile struct {
	FullName      string `yaml:"full_name"`
	CompanyName   string `yaml:"company_name"`
	AddressLine1  string `yaml:"address_line_1"`
	AddressLine2  string `yaml:"address_line_2"`
	City          string `yaml:"city"`
	StateOrRegion string `yaml:"state_or_region"`
	PostalCode    string `yaml:"postal_code"`
	CountryCode   string `yaml:"country_code"`
	PhoneNumber   string `yaml:"phone_number"`
	WebsiteURL    string `yaml:"website_url"`
}

// LoadContactDetails reads the contact details to push from a YAML file.
func LoadContactDetails(path string) (*acctypes.ContactInformation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contact details %s: %w", path, err)
	}

	var f contactDetailsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse contact details %s: %w", path, err)
	}

	info := &acctypes.ContactInformation{
		FullName:     aws.String(f.FullName),
		AddressLine1: aws.String(f.AddressLine1),
		City:         aws.String(f.City),
		PostalCode:   aws.String(f.PostalCode),
		CountryCode:  aws.String(f.CountryCode),
		PhoneNumber:  aws.String(f.PhoneNumber),
	}
	if f.CompanyName != "" {
		info.CompanyName = aws.String(f.CompanyName)
	}
	if f.AddressLine2 != "" {
		info.AddressLine2 = aws.String(f.AddressLine2)
	}
	if f.StateOrRegion != "" {
		info.StateOrRegion = aws.String(f.StateOrRegion)
	}
	if f.WebsiteURL != "" {
		info.WebsiteUrl = aws.String(f.WebsiteURL)
	}
	return info, nil
}

// WriteContactReport writes the plain-text contact report for the whole
// organization.
func WriteContactReport(w io.Writer, managementAccountID string, contacts []AccountContacts) error {
	if _, err := fmt.Fprintf(w,
		"Report on the contact details of all accounts in the organization managed by the management account id: '%s'\n",
		managementAccountID); err != nil {
		return err
	}

	for _, ac := range contacts {
		fmt.Fprintf(w, "Contact info for account: %s\n", ac.ID)
		fmt.Fprintf(w, "default: %s\n\n", formatContactInformation(ac.Default))
		fmt.Fprintf(w, "billing: %s\n\n", formatAlternateContact(ac.Billing))
		fmt.Fprintf(w, "security: %s\n\n", formatAlternateContact(ac.Security))
		fmt.Fprintf(w, "operations: %s\n\n", formatAlternateContact(ac.Operations))
	}

	return nil
}

func formatContactInformation(ci *acctypes.ContactInformation) string {
	if ci == nil {
		return "none"
	}
	return fmt.Sprintf("name=%s company=%s phone=%s address=%s, %s %s %s",
		aws.ToString(ci.FullName),
		aws.ToString(ci.CompanyName),
		aws.ToString(ci.PhoneNumber),
		aws.ToString(ci.AddressLine1),
		aws.ToString(ci.City),
		aws.ToString(ci.PostalCode),
		aws.ToString(ci.CountryCode))
}

func formatAlternateContact(ac *acctypes.AlternateContact) string {
	if ac == nil {
		return "none"
	}
	return fmt.Sprintf("name=%s title=%s email=%s phone=%s",
		aws.ToString(ac.Name),
		aws.ToString(ac.Title),
		aws.ToString(ac.EmailAddress),
		aws.ToString(ac.PhoneNumber))
}
