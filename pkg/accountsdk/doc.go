/*
Package accountsdk is a Go client for the accounts service.

# Overview

Client wraps the public endpoints. Logging in returns a Session that carries
the access token and exposes the operations that need it:

	client := accountsdk.NewClient("https://accounts.example.com")

	err := client.Register(ctx, accountsdk.SignupRequest{
		Name:         "Ann",
		UserName:     "ann1",
		Password:     "Secr3t!",
		Role:         "admin",
		MobileNumber: "555-0100",
	})

	session, err := client.Login(ctx, "ann1", "Secr3t!")

	profile, err := session.Profile(ctx)

# Tokens

Access tokens are not refreshed. Once Session.Expired reports true the caller
logs in again.

# Errors

Any non-2xx response is returned as *APIError carrying the status code and
the service's message:

	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		// username taken
	}

The same type is used by the server to write failure bodies, so both sides
agree on the shape.
*/
package accountsdk
