package client

import (
	"context"

	"github.com/lingomap/lingomap/internal/logging"
)

// AuthPanel is the two-mode credentials form. Both modes share one set
// of inputs; Submit calls the matching endpoint and logs the result.
// The token is not persisted anywhere yet.
type AuthPanel struct {
	api *Client
	log logging.Logger

	SignupMode bool
	Email      string
	Password   string
}

func NewAuthPanel(api *Client, log logging.Logger) *AuthPanel {
	return &AuthPanel{api: api, log: log}
}

// SwitchMode toggles between signup and signin.
func (p *AuthPanel) SwitchMode() {
	p.SignupMode = !p.SignupMode
}

// Submit sends the credentials to the mode's endpoint. Results and
// failures are logged only; nothing is stored or surfaced beyond that.
func (p *AuthPanel) Submit(ctx context.Context) {
	if p.SignupMode {
		msg, err := p.api.Signup(ctx, p.Email, p.Password)
		if err != nil {
			p.log.Warn(ctx, "signup failed", "err", err)
			return
		}
		p.log.Info(ctx, "signup ok", "message", msg)
		return
	}
	res, err := p.api.Signin(ctx, p.Email, p.Password)
	if err != nil {
		p.log.Warn(ctx, "signin failed", "err", err)
		return
	}
	p.log.Info(ctx, "signin ok", "user", res.Result.Email)
}
