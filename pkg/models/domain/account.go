package domain

import "fmt"

// AllAccounts is the scope token selecting the whole roster.
const AllAccounts = "allAccounts"

// Account is one row of the account roster.
type Account struct {
	Cloud     string // aws, azure, gcp
	AccountID string
	BU        string // business unit tag
	Webhook   string // chat webhook target
}

func (a Account) String() string {
	return fmt.Sprintf("%s:%s", a.Cloud, a.AccountID)
}

// Credentials are the vendor API username and password.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}
