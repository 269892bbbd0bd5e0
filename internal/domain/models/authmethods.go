// internal/domain/models/authmethods.go
package models

// AuthTrust signs a user in by email alone.
const AuthTrust = "trust"

// AuthMethod is a sign-in method a user record may carry.
type AuthMethod struct {
	Value string
	Label string
}

// EnabledAuthMethods lists the methods the login endpoint accepts.
var EnabledAuthMethods = []AuthMethod{
	{Value: AuthTrust, Label: "Trust"},
}

// IsEnabledAuthMethod reports whether value is an accepted sign-in method.
// An empty value counts as trust, matching records created before the field existed.
func IsEnabledAuthMethod(value string) bool {
	if value == "" {
		value = AuthTrust
	}
	for _, m := range EnabledAuthMethods {
		if m.Value == value {
			return true
		}
	}
	return false
}
