// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package org

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/account"
	acctypes "github.com/aws/aws-sdk-go-v2/service/account/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccount serves canned contact info.
type fakeAccount struct {
	contact    *acctypes.ContactInformation
	alternates map[acctypes.AlternateContactType]*acctypes.AlternateContact
	getErr     error

	putCount int
	putInfo  *acctypes.ContactInformation
}

func (f *fakeAccount) GetContactInformation(_ context.Context, _ *account.GetContactInformationInput, _ ...func(*account.Options)) (*account.GetContactInformationOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &account.GetContactInformationOutput{ContactInformation: f.contact}, nil
}

func (f *fakeAccount) GetAlternateContact(_ context.Context, in *account.GetAlternateContactInput, _ ...func(*account.Options)) (*account.GetAlternateContactOutput, error) {
	alt, ok := f.alternates[in.AlternateContactType]
	if !ok {
		return nil, &acctypes.ResourceNotFoundException{Message: aws.String("no such contact")}
	}
	return &account.GetAlternateContactOutput{AlternateContact: alt}, nil
}

func (f *fakeAccount) PutContactInformation(_ context.Context, in *account.PutContactInformationInput, _ ...func(*account.Options)) (*account.PutContactInformationOutput, error) {
	f.putCount++
	f.putInfo = in.ContactInformation
	return &account.PutContactInformationOutput{}, nil
}

func TestContacts_MissingAlternatesAreNil(t *testing.T) {
	api := &fakeAccount{
		contact: &acctypes.ContactInformation{FullName: aws.String("Ops Team")},
		alternates: map[acctypes.AlternateContactType]*acctypes.AlternateContact{
			acctypes.AlternateContactTypeSecurity: {
				Name:         aws.String("SecOps"),
				EmailAddress: aws.String("sec@example.com"),
			},
		},
	}

	ac, err := Contacts(ctx, api, "111111111111")
	require.NoError(t, err)

	assert.Equal(t, "111111111111", ac.ID)
	assert.Equal(t, "Ops Team", aws.ToString(ac.Default.FullName))
	assert.Nil(t, ac.Billing)
	assert.Nil(t, ac.Operations)
	require.NotNil(t, ac.Security)
	assert.Equal(t, "SecOps", aws.ToString(ac.Security.Name))
}

func TestContacts_ErrorPropagates(t *testing.T) {
	api := &fakeAccount{getErr: errors.New("denied")}
	_, err := Contacts(ctx, api, "111111111111")
	assert.Error(t, err)
}

func TestPutContacts(t *testing.T) {
	api := &fakeAccount{}
	info := &acctypes.ContactInformation{FullName: aws.String("New Owner")}

	require.NoError(t, PutContacts(ctx, api, "111111111111", info))
	assert.Equal(t, 1, api.putCount)
	assert.Equal(t, "New Owner", aws.ToString(api.putInfo.FullName))
}

func TestLoadContactDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "details.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
full_name: Acme Corp
company_name: Acme
address_line_1: 1 Main St
city: Springfield
postal_code: "12345"
country_code: US
phone_number: "+15555550100"
`), 0o600))

	info, err := LoadContactDetails(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", aws.ToString(info.FullName))
	assert.Equal(t, "Acme", aws.ToString(info.CompanyName))
	assert.Equal(t, "US", aws.ToString(info.CountryCode))
	assert.Nil(t, info.AddressLine2)
}

func TestLoadContactDetails_MissingFile(t *testing.T) {
	_, err := LoadContactDetails(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteContactReport(t *testing.T) {
	contacts := []AccountContacts{
		{
			ID:      "111111111111",
			Default: &acctypes.ContactInformation{FullName: aws.String("Ops Team")},
			Billing: &acctypes.AlternateContact{
				Name:         aws.String("Billing Team"),
				EmailAddress: aws.String("billing@example.com"),
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteContactReport(&buf, "999999999999", contacts))

	report := buf.String()
	assert.Contains(t, report, "management account id: '999999999999'")
	assert.Contains(t, report, "Contact info for account: 111111111111")
	assert.Contains(t, report, "name=Ops Team")
	assert.Contains(t, report, "billing: name=Billing Team")
	assert.Contains(t, report, "security: none")
	assert.Contains(t, report, "operations: none")
}
