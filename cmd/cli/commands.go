package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type app struct {
	addr string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "recipes",
		Short:         "Command-line client for the recipe sharing API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.addr, "addr", "http://localhost:8080", "server base URL")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.recipeCmd(),
		a.reviewCmd(),
		a.topCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) anon() *client { return newClient(a.addr, "") }

func (a *app) authed() (*client, error) {
	tok, err := loadToken()
	if err != nil {
		return nil, err
	}
	return newClient(a.addr, tok), nil
}

// ---- utils ----

func printJSON(w io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = fmt.Fprintln(w, strings.TrimSpace(string(raw)))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readSecret returns v, or the first line of stdin when v is "-".
func readSecret(in io.Reader, v string) (string, error) {
	if v != "-" {
		return v, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		if f := cmd.Flags().Lookup(n); f == nil || f.Value.String() == "" {
			return fmt.Errorf("need --%s", n)
		}
	}
	return nil
}

// ---- auth ----

func (a *app) registerCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "name", "email", "password"); err != nil {
				return err
			}
			pw, err := readSecret(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			raw, _, err := a.anon().do(cmd.Context(), http.MethodPost, "/register",
				map[string]string{"name": name, "email": email, "password": pw})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password ('-' reads stdin)")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "email", "password"); err != nil {
				return err
			}
			pw, err := readSecret(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			raw, resp, err := a.anon().do(cmd.Context(), http.MethodPost, "/login",
				map[string]string{"email": email, "password": pw})
			if err != nil {
				return err
			}
			var out struct {
				JWT string `json:"jwt"`
			}
			if err := json.Unmarshal(raw, &out); err != nil {
				return fmt.Errorf("decode login response: %w", err)
			}
			exp := tokenExpiry(out.JWT, time.Hour)
			for _, c := range resp.Cookies() {
				if c.Name == tokenCookie && !c.Expires.IsZero() {
					exp = c.Expires
				}
			}
			if out.JWT == "" {
				return errors.New("server returned no token")
			}
			if err := saveToken(out.JWT, exp); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password ('-' reads stdin)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, _ := loadToken()
			raw, _, err := newClient(a.addr, tok).do(cmd.Context(), http.MethodPost, "/logout", nil)
			if cerr := clearToken(); cerr != nil {
				return cerr
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authed()
			if err != nil {
				return err
			}
			raw, _, err := c.do(cmd.Context(), http.MethodGet, "/user", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

// ---- recipes ----

func (a *app) recipeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "recipe", Short: "Manage recipes"}

	var title, ingredients, id, author string

	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a recipe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "title", "ingredients"); err != nil {
				return err
			}
			return a.authedCall(cmd, http.MethodPost, "/createrecipe",
				map[string]string{"title": title, "ingredients": ingredients})
		},
	}
	create.Flags().StringVar(&title, "title", "", "recipe title")
	create.Flags().StringVar(&ingredients, "ingredients", "", "ingredients")

	update := &cobra.Command{
		Use:   "update",
		Short: "Replace title and ingredients of an owned recipe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "id", "title", "ingredients"); err != nil {
				return err
			}
			return a.authedCall(cmd, http.MethodPut, "/updaterecipe",
				map[string]string{"id": id, "title": title, "ingredients": ingredients})
		},
	}
	update.Flags().StringVar(&id, "id", "", "recipe id")
	update.Flags().StringVar(&title, "title", "", "recipe title")
	update.Flags().StringVar(&ingredients, "ingredients", "", "ingredients")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete an owned recipe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return err
			}
			return a.authedCall(cmd, http.MethodDelete, "/updaterecipe", map[string]string{"id": id})
		},
	}
	del.Flags().StringVar(&id, "id", "", "recipe id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes of an author (default: yourself)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if author == "" {
				me, err := a.currentUserID(cmd)
				if err != nil {
					return err
				}
				author = me
			}
			raw, _, err := a.anon().do(cmd.Context(), http.MethodPost, "/userrecipes",
				map[string]string{"author": author})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	list.Flags().StringVar(&author, "author", "", "author user id")

	cmd.AddCommand(create, update, del, list)
	return cmd
}

func (a *app) currentUserID(cmd *cobra.Command) (string, error) {
	c, err := a.authed()
	if err != nil {
		return "", fmt.Errorf("need --author or a login: %w", err)
	}
	raw, _, err := c.do(cmd.Context(), http.MethodGet, "/user", nil)
	if err != nil {
		return "", err
	}
	var u struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", err
	}
	return u.ID, nil
}

func (a *app) authedCall(cmd *cobra.Command, method, path string, body any) error {
	c, err := a.authed()
	if err != nil {
		return err
	}
	raw, _, err := c.do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), raw)
}

// ---- reviews ----

func (a *app) reviewCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "review", Short: "Manage reviews"}

	var recipe, text, id string
	var rating int

	create := &cobra.Command{
		Use:   "create",
		Short: "Review someone else's recipe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "recipe"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("rating") {
				return errors.New("need --rating")
			}
			return a.authedCall(cmd, http.MethodPost, "/createreview",
				map[string]any{"recipe": recipe, "review": text, "rating": rating})
		},
	}
	create.Flags().StringVar(&recipe, "recipe", "", "recipe id")
	create.Flags().StringVar(&text, "text", "", "review text")
	create.Flags().IntVar(&rating, "rating", 0, "rating 1..5")

	update := &cobra.Command{
		Use:   "update",
		Short: "Change text and/or rating of your review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return err
			}
			body := map[string]any{"id": id}
			if cmd.Flags().Changed("text") {
				body["review"] = text
			}
			if cmd.Flags().Changed("rating") {
				body["rating"] = rating
			}
			return a.authedCall(cmd, http.MethodPut, "/updatereview", body)
		},
	}
	update.Flags().StringVar(&id, "id", "", "review id")
	update.Flags().StringVar(&text, "text", "", "new review text")
	update.Flags().IntVar(&rating, "rating", 0, "new rating 1..5")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "id"); err != nil {
				return err
			}
			return a.authedCall(cmd, http.MethodDelete, "/updatereview", map[string]string{"id": id})
		},
	}
	del.Flags().StringVar(&id, "id", "", "review id")

	cmd.AddCommand(create, update, del)
	return cmd
}

// ---- ranking ----

func (a *app) topCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "List recipes by average rating",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, _, err := a.anon().do(cmd.Context(), http.MethodGet, "/avgreciperating", nil)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipes %s (%s, %s)\n", version, buildDate, runtime.Version())
		},
	}
}
