// Package google provides OAuth2 credential management for Google APIs.
//
// OAuth client configuration is loaded from a client secret JSON file
// (the kind downloaded from the Google Cloud console). Tokens are persisted
// per account through the TokenStore interface, allowing the file-backed
// default to be swapped out in tests or alternative deployments.
//
// The authentication flow:
//  1. Check if a token exists for the account (automatic)
//  2. If not, run the interactive loopback flow (authorize command), or
//     fetch an authorization URL and paste the code back (headless)
//  3. Subsequent API calls refresh the access token transparently; refreshed
//     tokens are written back to the store
package google
