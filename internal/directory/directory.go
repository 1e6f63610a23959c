// Package directory is the boundary to the directory service the lab is
// built in. Directory is the four-operation contract the rest of the
// program depends on; LDAP and LDIF are the two implementations.
package directory

import (
	"errors"  // errors defines the sentinel values below
	"fmt"     // fmt wraps parse errors
	"strings" // strings joins DC components and folds DN case

	"github.com/go-ldap/ldap/v3" // ldap/v3 parses distinguished names

	"github.com/r3dlin3/new-labusers/internal/generator"
)

var (
	// ErrAlreadyExists is wrapped into the error returned when an entry
	// with the same DN is already present.
	ErrAlreadyExists = errors.New("directory: entry already exists")
	// ErrNoDomainComponents is returned when a DN has no DC= parts to
	// build a DNS name from.
	ErrNoDomainComponents = errors.New("directory: DN has no DC components")
)

// ForestInfo is the forest and domain metadata of the target directory.
type ForestInfo struct {
	DNSName  string // DNSName is the forest root DNS name, e.g. "example.com"
	DomainDN string // DomainDN is the domain naming context, e.g. "DC=example,DC=com"
}

// NewForestInfo is an initializer function for ForestInfo.
func NewForestInfo(dnsName, domainDN string) ForestInfo {
	return ForestInfo{DNSName: dnsName, DomainDN: domainDN}
}

// Directory is what provisioning needs from the directory service.
type Directory interface {
	// Forest returns forest and domain metadata.
	Forest() (ForestInfo, error)
	// OUExists reports whether an organizational unit exists at dn.
	OUExists(dn string) (bool, error)
	// CreateOU creates the organizational unit name directly under parentDN.
	CreateOU(name, parentDN string) error
	// CreateUser creates the account described by user under pathDN. The
	// password travels in plaintext; securing it is the server's job.
	CreateUser(user generator.UserRecord, pathDN string) error
}

// DNSNameFromDN joins the DC components of dn with dots, so
// "DC=corp,DC=example,DC=com" becomes "corp.example.com".
func DNSNameFromDN(dn string) (string, error) {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return "", fmt.Errorf("failed to parse DN %q: %w", dn, err)
	}

	var parts []string
	for _, rdn := range parsed.RDNs {
		for _, attr := range rdn.Attributes {
			if strings.EqualFold(attr.Type, "DC") {
				parts = append(parts, attr.Value)
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoDomainComponents, dn)
	}

	return strings.Join(parts, "."), nil
}

// normalizeDN gives a case-insensitive key for a DN. Attribute types and
// values in AD are case-insensitive, which is all the LDIF backend needs.
func normalizeDN(dn string) string {
	return strings.ToLower(strings.TrimSpace(dn))
}
