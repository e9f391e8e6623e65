package commands

import (
	"context"
	"errors"
	"fmt"
	"invoicer/internal/cli/api"
	"invoicer/internal/config"
	"net/http"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authData is the payload of register and login responses.
type authData struct {
	Token string `json:"token"`
	User  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and store the auth token" }
func (registerCmd) Usage() string       { return "register <username> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	req := RegisterRequest{Username: args[0], Email: args[1], Password: args[2]}
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/api/auth/register"), req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	case http.StatusConflict:
		return errors.New("username or email already in use")
	default:
		return responseError(resp, body)
	}

	var data authData
	if err := api.DecodeData(body, &data); err != nil {
		return err
	}
	if err := tokenStore(cfg).Save(data.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintf(Out, "Registered as %s\n", data.User.Username)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
