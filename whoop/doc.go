// Package whoop provides a Go client for the WHOOP Developer API (v2).
//
// The client handles the OAuth2 authorization code and refresh token flows,
// bearer authentication, cursor-based pagination, typed errors for every failed
// status, and webhook signature verification via HMAC-SHA256.
//
// # Quick Start
//
// With an access token obtained elsewhere:
//
//	client := whoop.NewClient(
//	    whoop.WithToken("your_oauth2_token"),
//	)
//
//	profile, err := client.User.GetBasicProfile(ctx)
//
// # OAuth
//
// Build a session, send the user to the authorization URL, then exchange the
// code the redirect URI receives:
//
//	session := whoop.NewOAuthSession(whoop.Credentials{
//	    ClientID:     id,
//	    ClientSecret: secret,
//	    RedirectURI:  "http://localhost:8081/callback",
//	}, whoop.AllScopes())
//
//	url := session.AuthorizationURL("some-state")
//	client, err := whoop.NewClientFromCode(ctx, session, code)
//
// The client never refreshes on its own and never looks at expires_in. When a
// call fails with *AuthenticationError, call client.Refresh and try again.
//
// # Pagination
//
// List methods return page objects with a NextPage iterator:
//
//	page, _ := client.Cycle.List(ctx, &whoop.ListOptions{Limit: 25})
//	for {
//	    for _, c := range page.Records { /* process cycle */ }
//	    page, err = page.NextPage(ctx)
//	    if errors.Is(err, whoop.ErrNoNextPage) {
//	        break
//	    }
//	}
//
// or range over every record with page.All(ctx).
//
// # Retries and rate limits
//
// Requests are sent exactly once. A 429 is returned as *RateLimitError. To
// throttle or retry, wrap the transport with RateLimitTransport and RetryTransport
// and pass it through WithHTTPClient.
//
// # Webhooks
//
// Use ParseWebhook to validate and decode incoming WHOOP webhook payloads:
//
//	event, err := whoop.ParseWebhook(r, "webhook_secret")
package whoop
