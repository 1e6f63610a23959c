package generator

import (
	"fmt" // fmt is used to build DNs and wrap errors

	"github.com/go-ldap/ldap/v3"         // ldap/v3 provides the Entry type and DN escaping
	"golang.org/x/text/encoding/unicode" // unicode encodes unicodePwd as UTF-16LE
)

///////////////////////////////////////////////////////////////////////////////
// Conversion helpers
///////////////////////////////////////////////////////////////////////////////

// userAccountControlNormal is NORMAL_ACCOUNT (0x200): an enabled user.
const userAccountControlNormal = "512"

// UserDN returns the DN the account will live at under parentDN.
func (u UserRecord) UserDN(parentDN string) string {
	return fmt.Sprintf("CN=%s,%s", ldap.EscapeDN(u.FullName), parentDN)
}

// ToLDAPEntry converts a UserRecord into an *ldap.Entry shaped like an
// Active Directory user object, placed under parentDN. Both the LDAP and
// the LDIF backends consume this, so attribute changes happen here only.
func (u UserRecord) ToLDAPEntry(parentDN string) (*ldap.Entry, error) {
	pwd, err := EncodeUnicodePwd(u.Password)
	if err != nil {
		return nil, err
	}

	attrs := map[string][]string{
		"objectClass":        {"top", "person", "organizationalPerson", "user"},
		"cn":                 {u.FullName},
		"name":               {u.FullName},
		"displayName":        {u.FullName},
		"givenName":          {u.FirstName},
		"sAMAccountName":     {u.AccountName},
		"userPrincipalName":  {u.UserPrincipalName},
		"department":         {u.Department},
		"telephoneNumber":    {u.OfficePhone},
		"c":                  {u.Country},
		"l":                  {u.City},
		"unicodePwd":         {pwd},
		"userAccountControl": {userAccountControlNormal},
	}
	// AD rejects empty attribute values, and single-token names have no sn.
	if u.LastName != "" {
		attrs["sn"] = []string{u.LastName}
	}

	return ldap.NewEntry(u.UserDN(parentDN), attrs), nil
}

// EncodeUnicodePwd wraps password in double quotes and encodes it as
// UTF-16LE, the only form Active Directory accepts for unicodePwd.
func EncodeUnicodePwd(password string) (string, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.String(`"` + password + `"`)
	if err != nil {
		return "", fmt.Errorf("failed to encode password: %w", err)
	}
	return out, nil
}

// OUEntry builds the *ldap.Entry for an organizational unit called name
// directly under parentDN.
func OUEntry(name, parentDN string) *ldap.Entry {
	return ldap.NewEntry(OUDN(name, parentDN), map[string][]string{
		"objectClass": {"top", "organizationalUnit"},
		"ou":          {name},
	})
}

// OUDN returns the DN of the organizational unit name under parentDN.
func OUDN(name, parentDN string) string {
	return fmt.Sprintf("OU=%s,%s", ldap.EscapeDN(name), parentDN)
}
