// Package accountsdk is the Go client for the accounts service.
//
// It carries the wire types shared by the server handlers and callers, the
// request validation rules, and an HTTP client:
//
//	c := accountsdk.NewSDKClient("http://localhost:8080")
//	acct, err := c.Register(ctx, accountsdk.RegisterRequest{...})
//
//	admin := c.AsCaller("admin")
//	page, err := admin.ListAccounts(ctx, 0, 20)
//
// The service trusts the X-USER-ID header forwarded by the gateway, so a
// Session is nothing more than a caller id attached to every request.
package accountsdk
