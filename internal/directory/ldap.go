package directory

import (
	"crypto/tls" // tls configures LDAPS connections
	"fmt"        // fmt builds wrapped error messages

	"github.com/go-ldap/ldap/v3" // ldap/v3 provides the LDAP client

	"github.com/r3dlin3/new-labusers/internal/generator"
)

///////////////////////////////////////////////////////////////////////////////
// Configuration
///////////////////////////////////////////////////////////////////////////////

// LDAPConfig holds what is needed to reach and bind to the server.
type LDAPConfig struct {
	URL                string // URL is e.g. "ldaps://dc01.example.com:636"
	BindDN             string // BindDN is the account used to authenticate
	BindPassword       string // BindPassword goes with BindDN
	InsecureSkipVerify bool   // InsecureSkipVerify disables certificate checks (lab use only)
	BaseDN             string // BaseDN overrides the domain DN read from the RootDSE
}

// NewLDAPConfig is an initializer function for LDAPConfig.
func NewLDAPConfig() *LDAPConfig {
	return &LDAPConfig{}
}

///////////////////////////////////////////////////////////////////////////////
// LDAP backend
///////////////////////////////////////////////////////////////////////////////

// searchAdder is the slice of *ldap.Conn this backend uses.
type searchAdder interface {
	Search(*ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(*ldap.AddRequest) error
}

// LDAP is a Directory backed by a live LDAP connection to Active Directory.
type LDAP struct {
	conn   searchAdder
	raw    *ldap.Conn
	baseDN string
}

// newLDAP wires a backend around an existing connection.
func newLDAP(conn searchAdder, baseDN string) *LDAP {
	return &LDAP{conn: conn, baseDN: baseDN}
}

// DialLDAP connects and binds using cfg.
func DialLDAP(cfg *LDAPConfig) (*LDAP, error) {
	l, err := ldap.DialURL(cfg.URL, ldap.DialWithTLSConfig(&tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, // only for lab DCs with self-signed certificates
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if err := l.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to bind to LDAP server: %w", err)
	}

	d := newLDAP(l, cfg.BaseDN)
	d.raw = l
	return d, nil
}

// Close releases the connection.
func (d *LDAP) Close() error {
	if d.raw != nil {
		d.raw.Close()
	}
	return nil
}

// Forest reads defaultNamingContext and rootDomainNamingContext from the
// RootDSE. A configured base DN takes precedence for the domain DN.
func (d *LDAP) Forest() (ForestInfo, error) {
	req := ldap.NewSearchRequest(
		"", ldap.ScopeBaseObject, ldap.NeverDerefAliases,
		0, 0, false, "(objectClass=*)",
		[]string{"defaultNamingContext", "rootDomainNamingContext"}, nil,
	)
	sr, err := d.conn.Search(req)
	if err != nil {
		return ForestInfo{}, fmt.Errorf("failed to read RootDSE: %w", err)
	}
	if len(sr.Entries) == 0 {
		return ForestInfo{}, fmt.Errorf("failed to read RootDSE: no entry returned")
	}

	root := sr.Entries[0]
	domainDN := root.GetAttributeValue("defaultNamingContext")
	if d.baseDN != "" {
		domainDN = d.baseDN
	}
	forestDN := root.GetAttributeValue("rootDomainNamingContext")
	if forestDN == "" {
		forestDN = domainDN
	}

	dnsName, err := DNSNameFromDN(forestDN)
	if err != nil {
		return ForestInfo{}, err
	}
	return NewForestInfo(dnsName, domainDN), nil
}

// OUExists runs a base-scope search on dn. A noSuchObject result means
// the OU is absent rather than an error.
func (d *LDAP) OUExists(dn string) (bool, error) {
	req := ldap.NewSearchRequest(
		dn, ldap.ScopeBaseObject, ldap.NeverDerefAliases,
		0, 0, false, "(objectClass=organizationalUnit)",
		[]string{"ou"}, nil,
	)
	sr, err := d.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up %s: %w", dn, err)
	}
	return len(sr.Entries) > 0, nil
}

// CreateOU adds an organizationalUnit entry.
func (d *LDAP) CreateOU(name, parentDN string) error {
	return d.add(generator.OUEntry(name, parentDN))
}

// CreateUser adds an AD user entry built from user.
func (d *LDAP) CreateUser(user generator.UserRecord, pathDN string) error {
	entry, err := user.ToLDAPEntry(pathDN)
	if err != nil {
		return err
	}
	return d.add(entry)
}

// add copies every attribute of e into an AddRequest and sends it.
func (d *LDAP) add(e *ldap.Entry) error {
	req := ldap.NewAddRequest(e.DN, nil)
	for _, attr := range e.Attributes {
		req.Attribute(attr.Name, attr.Values)
	}

	if err := d.conn.Add(req); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			return fmt.Errorf("failed to add entry %s: %w: %w", e.DN, ErrAlreadyExists, err)
		}
		return fmt.Errorf("failed to add entry %s: %w", e.DN, err)
	}
	return nil
}
