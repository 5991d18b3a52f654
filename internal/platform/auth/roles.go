package auth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoleProvider resolves the role of an authenticated identity.
type RoleProvider interface {
	RoleFor(claims *Claims) Role
}

// AllowListRoleProvider grants RoleAdmin to identities whose email is on a
// configured list. Matching is exact and case-sensitive.
type AllowListRoleProvider struct {
	admins map[string]struct{}
}

// NewAllowListRoleProvider creates a provider from a list of admin emails.
func NewAllowListRoleProvider(emails []string) *AllowListRoleProvider {
	admins := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e == "" {
			continue
		}
		admins[e] = struct{}{}
	}
	return &AllowListRoleProvider{admins: admins}
}

// RoleFor returns RoleAdmin for allow-listed emails and RoleUser otherwise.
// An email the identity provider has not verified never grants admin.
func (p *AllowListRoleProvider) RoleFor(claims *Claims) Role {
	if claims == nil || !claims.EmailVerified {
		return RoleUser
	}
	if _, ok := p.admins[claims.Email]; ok {
		return RoleAdmin
	}
	return RoleUser
}

// Size returns the number of admin emails configured.
func (p *AllowListRoleProvider) Size() int { return len(p.admins) }

type allowListFile struct {
	Admins []string `yaml:"admins"`
}

// LoadAllowListFile reads admin emails from a YAML file of the form
//
//	admins:
//	  - ops@example.com
func LoadAllowListFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin allow-list: %w", err)
	}
	var f allowListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse admin allow-list: %w", err)
	}
	return f.Admins, nil
}
