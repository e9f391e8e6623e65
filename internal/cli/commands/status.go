package commands

import (
	"context"
	"fmt"
	"invoicer/internal/cli/api"
	"invoicer/internal/config"
	"net/http"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the logged in user" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.Get(ctx, endpoint(cfg, "/api/auth/me"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}
	var user struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := api.DecodeData(body, &user); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Status: logged in as %s <%s> (id %d)\n", user.Username, user.Email, user.ID)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
