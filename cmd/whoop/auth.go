package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/arvarik/whoop-go/v2/internal/output"
	"github.com/arvarik/whoop-go/v2/internal/tokenfile"
	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the OAuth login",
	}
	cmd.AddCommand(
		newAuthURLCmd(a),
		newAuthLoginCmd(a),
		newAuthRefreshCmd(a),
		newAuthStatusCmd(a),
		newAuthRevokeCmd(a),
	)
	return cmd
}

func newAuthURLCmd(a *app) *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if cfg.ClientID == "" {
				return errors.New("client_id is required (set WHOOP_CLIENT_ID)")
			}
			if state == "" {
				state = uuid.NewString()
			}
			_, err = fmt.Fprintln(a.out, cfg.session().AuthorizationURL(state))
			return err
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state parameter (default a random UUID)")
	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize in the browser and save the token",
		Long: `Start a local callback server on the redirect URI, print the
authorization URL and wait for WHOOP to redirect back with a code.
The code is exchanged for a token, which is saved to the token file.

The redirect URI must be registered for your app in the WHOOP Developer Dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := cfg.requireCredentials(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return a.login(ctx, cfg)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the browser callback")
	return cmd
}

func (a *app) login(ctx context.Context, cfg config) error {
	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return fmt.Errorf("parsing redirect_uri: %w", err)
	}

	ln, err := net.Listen("tcp", callbackAddr(redirect))
	if err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}

	state := uuid.NewString()
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(redirect.Path, state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	session := cfg.session()
	fmt.Fprintf(a.errOut, "Make sure %s is a registered redirect URI for your app.\n\n", cfg.RedirectURI)
	fmt.Fprintf(a.errOut, "Open this URL in your browser to authorize:\n\n  %s\n\n", session.AuthorizationURL(state))
	fmt.Fprintf(a.errOut, "Waiting for the authorization callback on %s ...\n", ln.Addr())

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return fmt.Errorf("waiting for authorization: %w", ctx.Err())
	}
	if res.err != nil {
		return res.err
	}

	a.logger.Debug("received authorization code, exchanging")
	tok, err := session.Exchange(ctx, res.code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := tokenfile.Save(cfg.TokenFile, *tok, a.now()); err != nil {
		return err
	}
	fmt.Fprintf(a.errOut, "Logged in. Token saved to %s\n", cfg.TokenFile)
	return nil
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler serves the OAuth redirect. It reports the first code that
// arrives with the expected state, or the error WHOOP redirected with.
func callbackHandler(path, state string, results chan<- callbackResult) http.Handler {
	if path == "" {
		path = "/"
	}

	report := func(res callbackResult) {
		select {
		case results <- res:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if errParam := q.Get("error"); errParam != "" {
			err := fmt.Errorf("authorization failed: %s: %s %s",
				errParam, q.Get("error_description"), q.Get("error_hint"))
			http.Error(w, err.Error(), http.StatusBadRequest)
			report(callbackResult{err: err})
			return
		}

		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}

		_, _ = fmt.Fprintln(w, "Success! You can close this window and return to your terminal.")
		report(callbackResult{code: code})
	})
	return mux
}

// callbackAddr is the listen address for a redirect URI. A missing port
// defaults to the scheme's well-known port.
func callbackAddr(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func newAuthRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := cfg.requireCredentials(); err != nil {
				return err
			}

			f, err := tokenfile.Load(cfg.TokenFile)
			if errors.Is(err, tokenfile.ErrNotFound) {
				return errNotLoggedIn
			}
			if err != nil {
				return err
			}

			var saveErr error
			opts := []whoop.Option{
				whoop.WithLogger(a.logger),
				whoop.WithTokenNotify(func(tok whoop.Token) {
					saveErr = tokenfile.Save(cfg.TokenFile, tok, a.now())
				}),
			}
			if cfg.BaseURL != "" {
				opts = append(opts, whoop.WithBaseURL(cfg.BaseURL))
			}
			client := whoop.NewOAuthClient(cfg.session(), f.Token, opts...)
			if err := client.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("refreshing token: %w", err)
			}
			if saveErr != nil {
				return saveErr
			}

			fmt.Fprintf(a.errOut, "Token refreshed and saved to %s\n", cfg.TokenFile)
			return nil
		},
	}
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials will be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			st := authStatus{TokenFile: cfg.TokenFile, Mode: "none"}
			if cfg.hasCredentials() {
				f, err := tokenfile.Load(cfg.TokenFile)
				switch {
				case err == nil:
					st.Mode = "oauth"
					st.Scope = f.Scope
					st.HasRefreshToken = f.HasRefreshToken()
					obtained := f.ObtainedAt
					st.ObtainedAt = &obtained
					if at, ok := f.ExpiresAt(); ok {
						st.ExpiresAt = &at
					}
				case !errors.Is(err, tokenfile.ErrNotFound):
					return err
				}
			}
			if st.Mode == "none" && cfg.AccessToken != "" {
				st.Mode = "static"
			}

			return a.render(st)
		},
	}
}

// authStatus describes the credentials the CLI would use. Token values are never included.
type authStatus struct {
	Mode            string     `json:"mode"`
	TokenFile       string     `json:"token_file"`
	Scope           string     `json:"scope,omitempty"`
	HasRefreshToken bool       `json:"has_refresh_token"`
	ObtainedAt      *time.Time `json:"obtained_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func (s authStatus) Header() table.Row { return output.Fields{}.Header() }

func (s authStatus) Rows() []table.Row {
	return output.Fields{
		{Name: "Mode", Value: s.Mode},
		{Name: "Token file", Value: s.TokenFile},
		{Name: "Scope", Value: s.Scope},
		{Name: "Refresh token", Value: s.HasRefreshToken},
		{Name: "Obtained", Value: formatTimePtr(s.ObtainedAt)},
		{Name: "Expires (estimated)", Value: formatTimePtr(s.ExpiresAt)},
	}.Rows()
}

func newAuthRevokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke this app's access and delete the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			client, err := a.newClient(cfg)
			if err != nil {
				return err
			}

			_, err = withRefresh(cmd.Context(), a, client, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, client.User.RevokeAccess(ctx)
			})
			if err != nil {
				return fmt.Errorf("revoking access: %w", err)
			}

			if err := tokenfile.Remove(cfg.TokenFile); err != nil {
				a.logger.Warn("could not remove token file", slog.String("error", err.Error()))
			}
			fmt.Fprintln(a.errOut, "Access revoked.")
			return nil
		},
	}
}
