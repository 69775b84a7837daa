package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/netx"
)

type accountView struct {
	ID          string `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	UserGroup   string `json:"user_group"`
	AccountType string `json:"account_type"`
}

type signInResponse struct {
	User  accountView `json:"user"`
	Token string      `json:"token"`
}

// Login prompts for credentials and signs in. On success the session token
// and email are kept for subsequent commands.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var resp signInResponse
	err = netx.PostJSON(a.client, a.config.ServerBaseURL+"/api/signin", "",
		map[string]string{"email": email, "password": string(password)}, &resp)
	if err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	a.token = resp.Token
	a.email = resp.User.Email
	fmt.Printf("Signed in as %s (%s)\n", resp.User.Username, resp.User.Email)
	return nil
}

// Logout drops the server-side session entry and clears local state.
func (a *App) Logout(ctx context.Context) error {
	err := netx.PostJSON(a.client, a.url("/api/signout"), a.token,
		map[string]string{"email": a.email}, nil)
	if err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}

	a.token = ""
	a.email = ""
	fmt.Println("Signed out")
	return nil
}

// WhoAmI asks the server to verify the current session and prints the
// resolved account.
func (a *App) WhoAmI(ctx context.Context) error {
	var view accountView
	if err := netx.GetJSON(a.client, a.url("/api/verify"), a.token, &view); err != nil {
		fmt.Println("Verification failed:", err)
		return err
	}
	fmt.Printf("%s <%s> group=%s type=%s\n", view.Username, view.Email, view.UserGroup, view.AccountType)
	return nil
}
