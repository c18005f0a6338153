// Package staging holds operations that wait for out-of-band verification.
//
// A staged operation is reachable only through the secret it was staged
// under. Staging the same candidate email again replaces the previous
// operation and permanently invalidates its secret. Nothing here touches
// storage; entries live for the lifetime of the Registry.
package staging

// Operation is a pending account mutation. The concrete types are
// AddAccount and AddEmail.
type Operation interface {
	// CandidateEmail is the address the operation would bind once verified.
	CandidateEmail() string
	staged()
}

// AddAccount creates a new user whose first email is Email.
// Password holds the already hashed credential.
type AddAccount struct {
	Email    string
	PubKey   string
	Password string
}

func (o AddAccount) CandidateEmail() string { return o.Email }
func (AddAccount) staged()                  {}

// AddEmail binds Email to the user that owns ExistingEmail.
type AddEmail struct {
	ExistingEmail string
	Email         string
	PubKey        string
}

func (o AddEmail) CandidateEmail() string { return o.Email }
func (AddEmail) staged()                  {}
