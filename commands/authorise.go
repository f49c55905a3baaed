package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/uhppoted/briefing-sync/commands/html"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		debug:       false,
	},

	listen:    "",
	nobrowser: false,
}

type Authorise struct {
	command
	listen    string
	nobrowser bool
}

type exchangeFunc func(ctx context.Context, code string) (*oauth2.Token, error)

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises briefing-sync to access Google Drive, Google Sheets and Cloud Firestore"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --credentials <file>\n", APP)
	fmt.Println()
	fmt.Println("  Runs the one-time OAuth2 consent flow and saves the issued tokens for use by 'sync' and 'get'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    briefing-sync authorise --credentials "OAuth2_Client_ID.json"`)
	fmt.Println(`    briefing-sync authorise --credentials "OAuth2_Client_ID.json" --listen "localhost:8080" --no-browser`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("authorise")

	flagset.StringVar(&cmd.listen, "listen", cmd.listen, "Address for the local OAuth2 callback server. Defaults to the host of the credentials redirect URI")
	flagset.BoolVar(&cmd.nobrowser, "no-browser", cmd.nobrowser, "Prints the authorisation URL instead of opening it in a browser")

	return flagset
}

func (cmd *Authorise) Execute(ctx context.Context, options *Options) error {
	cmd.debug = options.Debug

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	config, err := oauth2Config(cmd.credentials, SCOPES...)
	if err != nil {
		return err
	}

	callback, err := url.Parse(config.RedirectURL)
	if err != nil || callback.Host == "" {
		return fmt.Errorf("credentials file %s has no usable redirect URI ('%s')", cmd.credentials, config.RedirectURL)
	}

	address := cmd.listen
	if address == "" {
		address = callback.Host
		if callback.Port() == "" {
			address = net.JoinHostPort(callback.Hostname(), "80")
		}
	}

	path := callback.Path
	if path == "" {
		path = "/"
	}

	if cmd.debug {
		debugf("OAuth2 callback - address:%s  path:%s", address, path)
	}

	// ... start HTTP server
	state := uuid.NewString()
	consent := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	tokens := make(chan *oauth2.Token, 1)
	denied := make(chan error, 1)
	exchange := func(ctx context.Context, code string) (*oauth2.Token, error) {
		return config.Exchange(ctx, code)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth.html", authPage(consent))
	mux.HandleFunc(path, callbackHandler(state, exchange, tokens, denied))

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			warnf("%v", err)
		}
	}()

	// ... open authorisation page in browser
	page := fmt.Sprintf("http://%s/auth.html", localhost(address))

	infof("Open %s in a browser to authorise %s (or go directly to %s)", page, APP, consent)

	if !cmd.nobrowser && BROWSER != "" {
		if err := exec.Command(BROWSER, page).Start(); err != nil {
			warnf("Could not open authorisation page in your browser - please open %s manually", page)
		}
	}

	// ... wait for authorisation
	select {
	case <-ctx.Done():
		infof("... cancelled")
		return ctx.Err()

	case err := <-errs:
		return fmt.Errorf("OAuth2 callback server error (%w)", err)

	case err := <-denied:
		return err

	case token := <-tokens:
		file := cmd.tokensFile()
		if err := saveToken(file, token); err != nil {
			return fmt.Errorf("unable to save tokens (%w)", err)
		}

		infof("Authorised - saved tokens to %s", file)
	}

	return nil
}

func authPage(consent string) http.HandlerFunc {
	return func(w http.ResponseWriter, rq *http.Request) {
		render(w, "auth.html", http.StatusOK, map[string]any{
			"url": consent,
		})
	}
}

// callbackHandler handles the OAuth2 redirect, exchanging the authorisation code for a token
// and replying with a success or denial page. A denial is also reported on 'errs' so that the
// waiting command can fail instead of blocking.
func callbackHandler(state string, exchange exchangeFunc, tokens chan<- *oauth2.Token, errs chan<- error) http.HandlerFunc {
	denied := func(w http.ResponseWriter, status int, reason string) {
		render(w, "result.html", status, map[string]any{
			"title":  "Access denied",
			"reason": reason,
		})

		select {
		case errs <- fmt.Errorf("authorisation denied (%s)", reason):
		default:
		}
	}

	return func(w http.ResponseWriter, rq *http.Request) {
		if reason := rq.FormValue("error"); reason != "" {
			denied(w, http.StatusForbidden, reason)
			return
		}

		if rq.FormValue("state") != state {
			denied(w, http.StatusBadRequest, "invalid state")
			return
		}

		code := rq.FormValue("code")
		if code == "" {
			denied(w, http.StatusBadRequest, "missing authorisation code")
			return
		}

		token, err := exchange(rq.Context(), code)
		if err != nil {
			warnf("Unable to retrieve token from web (%v)", err)
			denied(w, http.StatusBadGateway, "unable to retrieve token")
			return
		}

		select {
		case tokens <- token:
		default:
		}

		render(w, "result.html", http.StatusOK, map[string]any{
			"title": "Authorization successful",
		})
	}
}

func render(w http.ResponseWriter, page string, status int, data map[string]any) {
	t, err := template.New(page).ParseFS(html.HTML, page)
	if err != nil {
		http.Error(w, "Internal error formatting page", http.StatusInternalServerError)
		return
	}

	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		http.Error(w, "Error formatting page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(b.Bytes())
}

func localhost(address string) string {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return address
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return net.JoinHostPort(host, port)
}
