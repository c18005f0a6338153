// Package reconcile compares a client's believed email→key bindings with
// the emails the server has on record for the same account.
package reconcile

import "sort"

// Response lists the discrepancies a client has to act on.
//
// UnknownEmails are addresses the client reported that the account does not
// own. KeyRefresh are addresses the account owns that the client did not
// report; the client is expected to generate and upload a key for each.
//
// Addresses known to both sides whose keys differ are not reported.
type Response struct {
	UnknownEmails []string `json:"unknown_emails"`
	KeyRefresh    []string `json:"key_refresh"`
}

// Reconcile computes the Response for an account owning own and a client
// reporting identities (address → public key). UnknownEmails is sorted;
// KeyRefresh keeps the order of own. Both slices are non-nil.
func Reconcile(own []string, identities map[string]string) Response {
	owned := make(map[string]struct{}, len(own))
	for _, e := range own {
		owned[e] = struct{}{}
	}

	resp := Response{
		UnknownEmails: make([]string, 0),
		KeyRefresh:    make([]string, 0),
	}

	for e := range identities {
		if _, ok := owned[e]; !ok {
			resp.UnknownEmails = append(resp.UnknownEmails, e)
		}
	}
	sort.Strings(resp.UnknownEmails)

	for _, e := range own {
		if _, ok := identities[e]; !ok {
			resp.KeyRefresh = append(resp.KeyRefresh, e)
		}
	}

	return resp
}
