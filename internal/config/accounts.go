package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dillib/cloudbom/internal/errkind"
	"github.com/dillib/cloudbom/internal/orchestrator"
)

// accountsDocument is the on-disk shape of the accounts file (YAML, or JSON
// since JSON is a YAML subset): a flat list of accounts to run the
// Multi-Account Orchestrator over (spec §4.4/§6).
type accountsDocument struct {
	Accounts []orchestrator.AccountConfig `yaml:"accounts"`
}

// LoadAccounts reads and parses path into the account list Schedule expects.
// A missing or empty path is not an error here; callers that require at
// least one account check len() themselves.
func LoadAccounts(path string) ([]orchestrator.AccountConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to read accounts file")
	}

	var doc accountsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errkind.Wrap(errkind.InvalidPolicy, err, "failed to parse accounts file")
	}
	return doc.Accounts, nil
}
